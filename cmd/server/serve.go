package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yukikurage/study-tracker-api/internal/config"
	"github.com/yukikurage/study-tracker-api/internal/constants"
	"github.com/yukikurage/study-tracker-api/internal/database"
	"github.com/yukikurage/study-tracker-api/internal/handlers"
	"github.com/yukikurage/study-tracker-api/internal/middleware"
	"github.com/yukikurage/study-tracker-api/internal/repository"
	"github.com/yukikurage/study-tracker-api/internal/services"
	"github.com/yukikurage/study-tracker-api/internal/utils"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var skipMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "Do not run schema migrations on startup")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	if !skipMigrate {
		if err := database.Migrate(db, log); err != nil {
			return err
		}
	}

	location, err := utils.LoadLocation(cfg.Timezone)
	if err != nil {
		return err
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	r := gin.New()
	r.Use(middleware.Recovery(log), middleware.RequestLogger(log))

	store, err := newSessionStore(cfg)
	if err != nil {
		return err
	}
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Wire repositories and services
	studyRepo := repository.NewStudyRepository(db)
	habitRepo := repository.NewHabitRepository(db)
	guard := services.NewStudyGuard(studyRepo, log)

	// Initialize AI service
	var suggester services.HabitSuggester
	if cfg.OpenAIAPIKey != "" {
		suggester = services.NewAIService(cfg.OpenAIAPIKey)
	}

	clock := utils.SystemClock{Location: location}
	handlers.RegisterRoutes(r, handlers.Handlers{
		Habit: handlers.NewHabitHandler(services.NewHabitService(habitRepo, guard, clock, suggester, log)),
		Study: handlers.NewStudyHandler(services.NewStudyService(studyRepo, log)),
		Point: handlers.NewPointHandler(services.NewPointService(studyRepo, guard, log)),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr), zap.String("timezone", location.String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	return nil
}

// newSessionStore uses Redis when REDIS_HOST is set and signed cookies otherwise
func newSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store
	if cfg.RedisHost != "" {
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		rs, err := redisStore.NewStore(
			10,        // Redis pool size
			"tcp",     // network type
			redisAddr, // Redis address from config
			"",        // username (empty for default user)
			"",        // password (empty = no password)
			[]byte(cfg.SessionSecret), // authentication key
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis store: %w", err)
		}
		store = rs
	} else {
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	}

	// Configure session options based on environment
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   cfg.GinMode == "release",
		SameSite: http.SameSiteLaxMode,
	})

	return store, nil
}
