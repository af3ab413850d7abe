package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/unienroll/internal/app/controllers"
	appMigrations "github.com/yigit/unienroll/internal/app/migrations"
	appRepos "github.com/yigit/unienroll/internal/app/repositories"
	appRoutes "github.com/yigit/unienroll/internal/app/routes"
	appServices "github.com/yigit/unienroll/internal/app/services"
	"github.com/yigit/unienroll/internal/config"
	"github.com/yigit/unienroll/internal/db"
	appMiddleware "github.com/yigit/unienroll/internal/middleware"
	"github.com/yigit/unienroll/internal/pkg/apiclient"
	"github.com/yigit/unienroll/internal/pkg/helpers"
	"github.com/yigit/unienroll/internal/pkg/logger"
	"github.com/yigit/unienroll/internal/seed"
)

// Backend modes understood by NewBackend
const (
	ModeMock   = "mock"
	ModeRemote = "remote"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Store             appRepos.Store
	Backend           appServices.Backend
	StudentController *appControllers.StudentController
	CourseController  *appControllers.CourseController
	APIKeyAuth        *appMiddleware.APIKeyAuth
	Logger            zerolog.Logger
	Database          *db.PostgresDB // nil with the memory store
}

// BackendOptions selects and parameterizes the façade implementation
type BackendOptions struct {
	Mode    string // ModeMock or ModeRemote
	BaseURL string
	APIKey  string
	Latency time.Duration
	// Timeout bounds each remote request; apiclient.DefaultTimeout when zero
	Timeout time.Duration
	// Store backs ModeMock; a seeded MemoryStore is created when nil
	Store appRepos.Store
}

// NewBackend picks the Backend implementation once, from configuration
func NewBackend(ctx context.Context, opts BackendOptions, lgr zerolog.Logger) (appServices.Backend, error) {
	switch strings.ToLower(opts.Mode) {
	case "", ModeMock:
		store := opts.Store
		if store == nil {
			mem := appRepos.NewMemoryStore()
			if err := seed.CreateDemoData(ctx, mem, lgr); err != nil {
				return nil, fmt.Errorf("failed to seed demo data: %w", err)
			}
			store = mem
		}
		return appServices.NewLocalBackend(store, opts.Latency, lgr), nil
	case ModeRemote:
		if opts.BaseURL == "" {
			return nil, fmt.Errorf("remote backend requires a base URL")
		}
		var clientOpts []apiclient.Option
		if opts.Timeout > 0 {
			clientOpts = append(clientOpts, apiclient.WithHTTPClient(&http.Client{Timeout: opts.Timeout}))
		}
		return apiclient.New(opts.BaseURL, opts.APIKey, lgr, clientOpts...), nil
	default:
		return nil, fmt.Errorf("unknown backend %q (want %s or %s)", opts.Mode, ModeMock, ModeRemote)
	}
}

// LoadConfigAndSetupLogger loads .env, then configuration, and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Err(err).Msg("No .env file loaded")
	}

	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.Config{
		Level:  logger.LogLevel(strings.ToLower(cfg.Logging.Level)),
		Pretty: logger.ParseFormat(cfg.Logging.Format),
	})
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupStore opens the configured Data Store, running migrations for postgres
// and seeding the demo catalog when enabled.
func SetupStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (appRepos.Store, *db.PostgresDB, error) {
	var (
		store    appRepos.Store
		database *db.PostgresDB
	)

	switch strings.ToLower(cfg.Store.Driver) {
	case config.DriverPostgres:
		lgr.Info().Msg("Establishing database connection...")
		var err error
		database, err = db.NewPostgresDB(ctx, cfg.Database)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to connect to database")
			return nil, nil, err
		}
		lgr.Info().Msg("Database connection successfully established.")

		if err := appMigrations.NewMigrator(database.Pool, lgr).Migrate(ctx); err != nil {
			database.Close()
			lgr.Error().Err(err).Msg("Database migration error")
			return nil, nil, fmt.Errorf("database migrations failed: %w", err)
		}
		store = appRepos.NewPostgresStore(database)
	default:
		store = appRepos.NewMemoryStore()
	}
	lgr.Info().Str("driver", cfg.Store.Driver).Msg("Data store ready")

	if cfg.Store.SeedDemo {
		if err := seed.CreateDemoData(ctx, store, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create demo data, proceeding anyway...")
		}
	}
	return store, database, nil
}

// BuildDependencies wires the façade and controllers over an opened store.
func BuildDependencies(ctx context.Context, cfg *config.Config, store appRepos.Store, lgr zerolog.Logger) (*Dependencies, error) {
	backend, err := NewBackend(ctx, BackendOptions{
		Mode:    ModeMock,
		Store:   store,
		Latency: helpers.ParseDuration(cfg.Store.Latency, 0),
	}, lgr)
	if err != nil {
		return nil, err
	}

	return &Dependencies{
		Store:             store,
		Backend:           backend,
		StudentController: appControllers.NewStudentController(backend),
		CourseController:  appControllers.NewCourseController(backend),
		APIKeyAuth:        appMiddleware.NewAPIKeyAuth(cfg.API.Key),
		Logger:            lgr,
	}, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(deps.Logger))

	appRoutes.SetupRouter(router,
		deps.StudentController,
		deps.CourseController,
		deps.APIKeyAuth,
		cfg.Store.Driver,
	)
	return router
}

// WithCORS wraps the router for the browser front end
func WithCORS(cfg *config.Config, h http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", appMiddleware.APIKeyHeader, appMiddleware.RequestIDHeader},
		ExposedHeaders: []string{appMiddleware.RequestIDHeader},
		MaxAge:         600,
	}).Handler(h)
}
