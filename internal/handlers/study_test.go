package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/study-tracker-api/internal/dto"
	apierrors "github.com/yukikurage/study-tracker-api/internal/errors"
)

func createStudyViaAPI(t *testing.T, env apiTestEnv, name, password string) dto.StudyDTO {
	t.Helper()

	w := env.request(t, http.MethodPost, "/api/studies", map[string]string{
		"name":       name,
		"nickname":   "kim",
		"intro":      "Studying " + name,
		"background": "green",
		"password":   password,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var study dto.StudyDTO
	decode(t, w, &study)
	return study
}

func verifyStudy(t *testing.T, env apiTestEnv, id uuid.UUID, password string) *httptest.ResponseRecorder {
	t.Helper()
	return env.request(t, http.MethodPost, "/api/studies/"+id.String()+"/verify", map[string]string{
		"password": password,
	})
}

func TestStudyHandler_CreateAndGet(t *testing.T) {
	env := setupAPITestEnv(t)

	created := createStudyViaAPI(t, env, "Algorithms", "secret")
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, "Algorithms", created.Name)
	assert.EqualValues(t, 0, created.Points)
	assert.NotContains(t, env.request(t, http.MethodGet, "/api/studies/"+created.ID.String(), nil).Body.String(), "password")

	w := env.request(t, http.MethodGet, "/api/studies/"+created.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var study dto.StudyDTO
	decode(t, w, &study)
	assert.Equal(t, created.ID, study.ID)
	assert.Equal(t, "kim", study.Nickname)

	w = env.request(t, http.MethodGet, "/api/studies/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.request(t, http.MethodGet, "/api/studies/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStudyHandler_CreateValidation(t *testing.T) {
	env := setupAPITestEnv(t)

	w := env.request(t, http.MethodPost, "/api/studies", map[string]string{"name": "Algorithms"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.request(t, http.MethodPost, "/api/studies", map[string]string{
		"name": "Algorithms", "nickname": "kim", "password": "abc",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeError(t, w).Message, "Password")
}

func TestStudyHandler_ListAndSearch(t *testing.T) {
	env := setupAPITestEnv(t)
	createStudyViaAPI(t, env, "Algorithms", "secret")
	createStudyViaAPI(t, env, "Databases", "secret")
	createStudyViaAPI(t, env, "Networks", "secret")

	w := env.request(t, http.MethodGet, "/api/studies?page=1&take=2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list dto.StudyListResponse
	decode(t, w, &list)
	assert.Len(t, list.Studies, 2)
	assert.EqualValues(t, 3, list.Pagination.Total)
	assert.Equal(t, 2, list.Pagination.Take)

	w = env.request(t, http.MethodGet, "/api/studies?orderBy=name", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.request(t, http.MethodGet, "/api/studies/search?keyword=data", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	require.Len(t, list.Studies, 1)
	assert.Equal(t, "Databases", list.Studies[0].Name)

	w = env.request(t, http.MethodGet, "/api/studies/search?keyword="+strings.Repeat("x", 51), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStudyHandler_RecentStudies(t *testing.T) {
	env := setupAPITestEnv(t)
	study := createStudyViaAPI(t, env, "Algorithms", "secret")

	w := env.request(t, http.MethodPost, "/api/studies/recent", map[string]interface{}{
		"uuids": []string{study.ID.String(), uuid.NewString()},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response struct {
		Studies []dto.StudyDTO `json:"studies"`
	}
	decode(t, w, &response)
	require.Len(t, response.Studies, 1)
	assert.Equal(t, study.ID, response.Studies[0].ID)

	w = env.request(t, http.MethodPost, "/api/studies/recent", map[string]interface{}{
		"uuids": []string{uuid.NewString(), uuid.NewString(), uuid.NewString(), uuid.NewString()},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStudyHandler_VerifiedSessionRequired(t *testing.T) {
	env := setupAPITestEnv(t)
	study := createStudyViaAPI(t, env, "Algorithms", "secret")
	studyURL := "/api/studies/" + study.ID.String()

	w := env.request(t, http.MethodPatch, studyURL, map[string]string{"name": "Graphs"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apierrors.ErrCodeForbidden, decodeError(t, w).Code)

	w = verifyStudy(t, env, study.ID, "wrong")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = verifyStudy(t, env, study.ID, "secret")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	w = env.request(t, http.MethodPatch, studyURL, map[string]string{"name": "Graphs"}, cookies...)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated dto.StudyDTO
	decode(t, w, &updated)
	assert.Equal(t, "Graphs", updated.Name)

	// a session verified for one study does not unlock another
	other := createStudyViaAPI(t, env, "Databases", "secret")
	w = env.request(t, http.MethodDelete, "/api/studies/"+other.ID.String(), nil, cookies...)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.request(t, http.MethodDelete, studyURL, nil, cookies...)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.request(t, http.MethodGet, studyURL, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPointHandler_AddPoints(t *testing.T) {
	env := setupAPITestEnv(t)
	study := createStudyViaAPI(t, env, "Algorithms", "secret")

	for _, points := range []int{10, 15} {
		w := env.request(t, http.MethodPost, "/api/points", map[string]interface{}{
			"studyId": study.ID.String(),
			"points":  points,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w := env.request(t, http.MethodGet, "/api/studies/"+study.ID.String(), nil)
	var got dto.StudyDTO
	decode(t, w, &got)
	assert.EqualValues(t, 25, got.Points)

	w = env.request(t, http.MethodPost, "/api/points", map[string]interface{}{
		"studyId": study.ID.String(),
		"points":  -5,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.request(t, http.MethodPost, "/api/points", map[string]interface{}{
		"studyId": uuid.NewString(),
		"points":  5,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealth(t *testing.T) {
	env := setupAPITestEnv(t)

	w := env.request(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}
