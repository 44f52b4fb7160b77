package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/certsim/quiz-service/internal/config"
	"github.com/certsim/quiz-service/internal/handlers"
	"github.com/certsim/quiz-service/internal/models"
	"github.com/certsim/quiz-service/internal/progress"
	"github.com/certsim/quiz-service/internal/store"
	"github.com/certsim/quiz-service/internal/store/postgres"
	quizsync "github.com/certsim/quiz-service/internal/sync"
	"github.com/certsim/quiz-service/internal/utils"
	"github.com/certsim/quiz-service/internal/validator"
	"github.com/certsim/quiz-service/pkg"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger utils.Logger) error {
	storage, err := buildStorage(cfg, logger)
	if err != nil {
		return err
	}

	progressStore, closeProgress, err := buildProgressStore(cfg, logger)
	if err != nil {
		return err
	}
	defer closeProgress()

	publisher, err := cfg.Events.CreateEventPublisher(utils.ToSlogLogger(logger))
	if err != nil {
		return err
	}
	defer publisher.Close()

	v := validator.New()
	questions := store.NewQuestionStore(storage, models.DefaultSeed(), v, publisher, logger)

	var facade quizsync.Facade = quizsync.NewLocalFacade(questions, progressStore, publisher, logger)
	if cfg.RemoteAPIURL != "" {
		remote := quizsync.NewHTTPFacade(cfg.RemoteAPIURL, cfg.AuthToken, nil)
		facade = quizsync.NewFailoverFacade(remote, facade, logger)
		logger.Info("Remote sync enabled", "remote_url", cfg.RemoteAPIURL)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	handlers.NewHandlerManager(facade, questions, progressStore, v, cfg.AuthToken, logger).SetupRoutes(router)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Quiz service listening",
			"port", cfg.Port,
			"environment", cfg.Environment,
			"storage_backend", cfg.StorageBackend,
			"progress_backend", cfg.ProgressBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		logger.Info("Shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}

func buildStorage(cfg *config.Config, logger utils.Logger) (store.Storage, error) {
	switch cfg.StorageBackend {
	case "memory":
		return store.NewMemoryStorage(), nil
	case "postgres":
		db, err := pkg.InitDatabase(cfg)
		if err != nil {
			return nil, err
		}
		return postgres.NewStorage(db)
	case "file":
		return store.NewFileStorage(cfg.DataFile), nil
	default:
		logger.Warn("Unknown storage backend, falling back to file", "backend", cfg.StorageBackend)
		return store.NewFileStorage(cfg.DataFile), nil
	}
}

func buildProgressStore(cfg *config.Config, logger utils.Logger) (progress.Store, func(), error) {
	noop := func() {}
	switch cfg.ProgressBackend {
	case "memory":
		return progress.NewMemoryStore(), noop, nil
	case "redis":
		client, err := pkg.NewRedisClient(cfg)
		if err != nil {
			return nil, nil, err
		}
		return progress.NewRedisStore(client, cfg.ProgressTTL), func() { _ = client.Close() }, nil
	case "file":
		return progress.NewFileStore(cfg.ProgressFile), noop, nil
	default:
		logger.Warn("Unknown progress backend, falling back to file", "backend", cfg.ProgressBackend)
		return progress.NewFileStore(cfg.ProgressFile), noop, nil
	}
}
