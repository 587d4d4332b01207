package main

import (
	"github.com/usthb-datascience/tic-projects/backend/internal/config"
	"github.com/usthb-datascience/tic-projects/backend/internal/handlers"
	"github.com/usthb-datascience/tic-projects/backend/internal/models"
	"github.com/usthb-datascience/tic-projects/backend/internal/services"
	"github.com/usthb-datascience/tic-projects/backend/internal/storage"
	"github.com/usthb-datascience/tic-projects/backend/internal/utils"
	"github.com/usthb-datascience/tic-projects/backend/pkg/logger"
)

// appServices holds the initialized handlers and shared state the routes
// need.
type appServices struct {
	cfg            *config.Config
	store          *storage.LocalStorage
	authHandler    *handlers.AuthHandler
	userHandler    *handlers.UserHandler
	projectHandler *handlers.ProjectHandler
	reviewHandler  *handlers.ReviewHandler
	healthHandler  *handlers.HealthHandler
}

// bootstrap wires config, database, storage, and services.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecrets(cfg.JWT.Secrets()...)

	if err := models.InitDB(&cfg.Database, cfg.Server.Mode == "debug"); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	store, err := storage.NewLocalStorage(cfg.Upload.Dir)
	if err != nil {
		logger.Fatalf("Failed to initialize upload storage: %v", err)
	}

	db := models.GetDB()
	services.InitSystemLogger(db)
	services.StartLogCleanupScheduler(db, cfg.Log.RetentionDays)

	return &appServices{
		cfg:            cfg,
		store:          store,
		authHandler:    handlers.NewAuthHandler(db, &cfg.JWT),
		userHandler:    handlers.NewUserHandler(db, store, &cfg.Upload),
		projectHandler: handlers.NewProjectHandler(db),
		reviewHandler:  handlers.NewReviewHandler(db),
		healthHandler:  handlers.NewHealthHandler(db),
	}
}

// shutdown stops background work.
func (s *appServices) shutdown() {
	services.StopLogCleanupScheduler()
}
