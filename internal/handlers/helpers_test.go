package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/study-tracker-api/internal/constants"
	apierrors "github.com/yukikurage/study-tracker-api/internal/errors"
	"github.com/yukikurage/study-tracker-api/internal/repository"
	"github.com/yukikurage/study-tracker-api/internal/services"
	"github.com/yukikurage/study-tracker-api/internal/testutil"
	"github.com/yukikurage/study-tracker-api/internal/utils"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type apiTestEnv struct {
	db           *gorm.DB
	router       *gin.Engine
	clock        *utils.FixedClock
	habitService *services.HabitService
}

func setupAPITestEnv(t *testing.T) apiTestEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db := testutil.OpenDB(t)
	log := zaptest.NewLogger(t)
	clock := &utils.FixedClock{Time: time.Date(2024, time.May, 15, 10, 30, 0, 0, time.FixedZone("KST", 9*60*60))}

	studyRepo := repository.NewStudyRepository(db)
	guard := services.NewStudyGuard(studyRepo, log)
	habitService := services.NewHabitService(repository.NewHabitRepository(db), guard, clock, nil, log)

	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	RegisterRoutes(r, Handlers{
		Habit: NewHabitHandler(habitService),
		Study: NewStudyHandler(services.NewStudyService(studyRepo, log)),
		Point: NewPointHandler(services.NewPointService(studyRepo, guard, log)),
	})

	return apiTestEnv{
		db:           db,
		router:       r,
		clock:        clock,
		habitService: habitService,
	}
}

// request sends a JSON request through the router
func (env apiTestEnv) request(t *testing.T, method, url string, payload interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if payload != nil {
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apierrors.APIError {
	t.Helper()
	var apiErr apierrors.APIError
	decode(t, w, &apiErr)
	return apiErr
}
