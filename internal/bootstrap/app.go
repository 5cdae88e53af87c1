package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/JeffiBR/backend-curriculos/internal/health"
	"github.com/JeffiBR/backend-curriculos/internal/postings"
	"github.com/JeffiBR/backend-curriculos/internal/shared/config"
	"github.com/JeffiBR/backend-curriculos/internal/shared/server"
	"github.com/JeffiBR/backend-curriculos/internal/shared/server/middleware"
	"github.com/JeffiBR/backend-curriculos/internal/shared/storage/db"
	"github.com/JeffiBR/backend-curriculos/internal/shared/storage/object"
	localstore "github.com/JeffiBR/backend-curriculos/internal/shared/storage/object/local"
	s3store "github.com/JeffiBR/backend-curriculos/internal/shared/storage/object/s3"
	"github.com/JeffiBR/backend-curriculos/internal/stats"
	"github.com/JeffiBR/backend-curriculos/internal/submissions"
)

// App holds the wired dependencies of one server process.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	SubmissionsRepo    submissions.Repo
	SubmissionsService *submissions.Service
	PostingsRepo       postings.Repo
	PostingsService    *postings.Service
	StatsCache         *stats.Cache

	GeneralLimiter *middleware.RateLimiter
	SubmitLimiter  *middleware.RateLimiter
}

// Build prepares all dependencies and the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:         cfg,
		DB:             sqlDB,
		Store:          store,
		GeneralLimiter: middleware.NewRateLimiter(middleware.RateLimitRule{Max: cfg.GeneralRateMax, Window: cfg.GeneralRateWindow}, nil),
		SubmitLimiter:  middleware.NewRateLimiter(middleware.RateLimitRule{Max: cfg.SubmitRateMax, Window: cfg.SubmitRateWindow}, nil),
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            app.Config,
		SubmissionHandler: submissions.NewHandler(app.SubmissionsService),
		PostingHandler:    postings.NewHandler(app.PostingsService),
		StatsHandler:      stats.NewHandler(app.StatsCache),
		HealthHandler:     health.NewHandler(app.DB),
		GeneralLimiter:    app.GeneralLimiter,
		SubmitLimiter:     app.SubmitLimiter,
	})

	return app, nil
}

// StartJanitors launches the limiter eviction loops. They stop when ctx is
// cancelled.
func (a *App) StartJanitors(ctx context.Context) {
	a.GeneralLimiter.StartJanitor(ctx, a.Config.GeneralRateWindow)
	a.SubmitLimiter.StartJanitor(ctx, a.Config.SubmitRateWindow)
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.AWSRegion) == "" || strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires AWS_REGION and S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildServices(app *App) {
	var subRepo submissions.Repo
	var postRepo postings.Repo
	if app.DB != nil {
		subRepo = &submissions.PGRepo{DB: app.DB}
		postRepo = &postings.PGRepo{DB: app.DB}
	} else {
		subRepo = submissions.NewMemoryRepo()
		postRepo = postings.NewMemoryRepo()
	}

	app.SubmissionsRepo = subRepo
	app.SubmissionsService = &submissions.Service{
		Repo:           subRepo,
		Store:          app.Store,
		MaxUploadBytes: app.Config.MaxUploadBytes,
		StoreTimeout:   app.Config.StoreCallTimeout,
	}

	app.PostingsRepo = postRepo
	app.PostingsService = &postings.Service{Repo: postRepo}

	app.StatsCache = stats.NewCache(subRepo, app.Config.StatsCacheTTL)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
