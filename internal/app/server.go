package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"portfolio_backend/internal/auth"
	"portfolio_backend/internal/common"
	"portfolio_backend/internal/config"
	"portfolio_backend/internal/education"
	"portfolio_backend/internal/identity"
	"portfolio_backend/internal/interest"
	"portfolio_backend/internal/jobs"
	"portfolio_backend/internal/middleware"
	"portfolio_backend/internal/platform/database"
	"portfolio_backend/internal/platform/metrics"
	"portfolio_backend/internal/project"
	"portfolio_backend/internal/service"
	"portfolio_backend/internal/socialhandle"
	"portfolio_backend/internal/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Models lists every table the service owns, in migration order.
func Models() []interface{} {
	return []interface{}{
		&user.User{},
		&project.Project{},
		&socialhandle.SocialHandle{},
		&education.Education{},
		&service.Offering{},
		&interest.Interest{},
	}
}

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger
	db         *gorm.DB

	projectIndex     *project.ESIndex
	projectStatusJob *jobs.ProjectStatusJob
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	m *metrics.Metrics,
	verifier identity.Verifier,
	authHandler *auth.Handler,
	userHandler *user.Handler,
	projectHandler *project.Handler,
	socialHandleHandler *socialhandle.Handler,
	educationHandler *education.Handler,
	serviceHandler *service.Handler,
	interestHandler *interest.Handler,
	projectIndex *project.ESIndex,
	projectStatusJob *jobs.ProjectStatusJob,
) (*Server, error) {
	if verifier == nil {
		return nil, errors.New("identity verifier is required")
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}
	router := gin.New()

	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(m.GinMiddleware())
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg)))

	guard := middleware.AuthGuard(verifier, cfg.AuthVerifyTimeout, m, logger.Named("AuthGuard"))

	s := &Server{
		router:           router,
		cfg:              cfg,
		logger:           logger,
		db:               db,
		projectIndex:     projectIndex,
		projectStatusJob: projectStatusJob,
	}

	router.GET("/health", s.health)
	router.GET("/metrics", gin.WrapH(m.Handler()))

	authHandler.RegisterRoutes(router, guard)
	userHandler.RegisterRoutes(router, guard)
	projectHandler.RegisterRoutes(router, guard)
	socialHandleHandler.RegisterRoutes(router, guard)
	educationHandler.RegisterRoutes(router, guard)
	serviceHandler.RegisterRoutes(router, guard)
	interestHandler.RegisterRoutes(router, guard)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s, nil
}

// corsConfig reflects the caller's origin with credentials unless CORS_ALLOWED_ORIGINS pins a list.
func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	c.AllowHeaders = []string{
		"Origin", "Content-Type", "Accept", "Authorization",
		common.RequestIDHeader, "X-User-First-Name", "X-User-Last-Name",
	}
	c.ExposeHeaders = []string{"Content-Length", common.RequestIDHeader}
	c.AllowCredentials = true
	if len(cfg.CORSOrigins) > 0 {
		c.AllowOrigins = cfg.CORSOrigins
	} else {
		c.AllowOriginFunc = func(string) bool { return true }
	}
	return c
}

func (s *Server) health(c *gin.Context) {
	status, code := "UP", http.StatusOK
	if s.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if sqlDB, err := s.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			status, code = "DEGRADED", http.StatusServiceUnavailable
		}
	}
	c.JSON(code, gin.H{
		"status": status,
		"search": s.projectIndex.Enabled(),
	})
}

// Router exposes the HTTP handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Prepare migrates the schema when DB_AUTO_MIGRATE is set and makes sure the search index exists.
func (s *Server) Prepare(ctx context.Context) error {
	if s.cfg.DBAutoMigrate {
		if err := database.Migrate(s.db, Models()...); err != nil {
			return err
		}
		s.logger.Info("Database schema migrated")
	}
	if err := s.projectIndex.EnsureIndex(ctx); err != nil {
		s.logger.Error("Failed to create Elasticsearch projects index; search falls back to the database", zap.Error(err))
	}
	return nil
}

func (s *Server) Start() error {
	if s.projectStatusJob != nil {
		if err := s.projectStatusJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start project status job", zap.Error(err))
		}
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.projectStatusJob != nil {
		s.projectStatusJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
