//go:build wireinject
// +build wireinject

package main

import (
	"portfolio_backend/internal/app"
	"portfolio_backend/internal/auth"
	"portfolio_backend/internal/config"
	"portfolio_backend/internal/education"
	"portfolio_backend/internal/interest"
	"portfolio_backend/internal/jobs"
	"portfolio_backend/internal/platform/database"
	"portfolio_backend/internal/platform/elasticsearch"
	"portfolio_backend/internal/platform/metrics"
	"portfolio_backend/internal/project"
	"portfolio_backend/internal/service"
	"portfolio_backend/internal/socialhandle"
	"portfolio_backend/internal/user"

	"github.com/google/wire"
	"go.uber.org/zap"
)

// initializeServer is the main Wire injector.
func initializeServer(cfg *config.Config, logger *zap.Logger) (*app.Server, func(), error) {
	wire.Build(
		// Platform
		database.NewGORM,
		metrics.New,
		elasticsearch.NewClient,
		app.NewVerifier,

		// Identity sync
		user.NewGORMRepository,
		auth.NewReconciler,
		auth.NewHandler,

		// Resources
		user.NewService,
		user.NewHandler,
		project.NewGORMRepository,
		project.NewESIndex,
		wire.Bind(new(project.SearchIndex), new(*project.ESIndex)),
		project.NewService,
		project.NewHandler,
		socialhandle.NewGORMRepository,
		socialhandle.NewService,
		socialhandle.NewHandler,
		education.NewGORMRepository,
		education.NewService,
		education.NewHandler,
		service.NewGORMRepository,
		service.NewService,
		service.NewHandler,
		interest.NewGORMRepository,
		interest.NewService,
		interest.NewHandler,

		// Jobs
		wire.Bind(new(jobs.ProjectActivator), new(project.Service)),
		jobs.NewProjectStatusJob,

		app.NewServer,
	)
	return nil, nil, nil
}
