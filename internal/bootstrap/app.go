package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"cv-analyzer-backend/internal/analyses"
	googleauth "cv-analyzer-backend/internal/auth"
	"cv-analyzer-backend/internal/cvfiles"
	"cv-analyzer-backend/internal/llm"
	"cv-analyzer-backend/internal/llm/gemini"
	"cv-analyzer-backend/internal/shared/config"
	"cv-analyzer-backend/internal/shared/server"
	"cv-analyzer-backend/internal/shared/server/middleware"
	"cv-analyzer-backend/internal/shared/storage/db"
	"cv-analyzer-backend/internal/shared/telemetry"
	"cv-analyzer-backend/internal/stats"
	"cv-analyzer-backend/internal/users"
)

// App holds the wired application dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB

	AnalysesRepo analyses.Repo
	CVFilesRepo  cvfiles.Repo
	UsersRepo    users.Repo

	LLM llm.Client

	AnalysesService *analyses.Service
	UsersService    *users.Service

	AnalysisHandler *analyses.Handler
	StatsHandler    *stats.Handler
	UsersHandler    *users.Handler
	GoogleAuth      *googleauth.GoogleService
}

// Build prepares the full dependency graph and the router. Without a
// database (dev only) everything runs on in-memory repositories.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	llmClient, err := buildLLM(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		LLM:    llmClient,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		AnalysisHandler: app.AnalysisHandler,
		StatsHandler:    app.StatsHandler,
		UsersHandler:    app.UsersHandler,
		GoogleAuth:      app.GoogleAuth,
		UploadLimiter:   middleware.NewRateLimiter(time.Now),
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("DATABASE_URL empty; using in-memory repositories", nil)
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("database connect failed; using in-memory repositories", map[string]any{"error": err.Error()})
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("migrations failed; using in-memory repositories", map[string]any{"error": err.Error()})
			sqlDB.Close()
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildLLM(ctx context.Context, cfg config.Config) (llm.Client, error) {
	if cfg.LLMProvider == "placeholder" {
		return llm.PlaceholderClient{}, nil
	}
	return gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel)
}

func buildServices(app *App) {
	var filesRepo cvfiles.Repo
	var analysisRepo analyses.Repo
	var userRepo users.Repo

	if app.DB != nil {
		filesRepo = &cvfiles.PGRepo{DB: app.DB}
		analysisRepo = &analyses.PGRepo{DB: app.DB}
		userRepo = &users.PGRepo{DB: app.DB}
	} else {
		memFiles := cvfiles.NewMemoryRepo()
		filesRepo = memFiles
		analysisRepo = analyses.NewMemoryRepo(memFiles)
		userRepo = users.NewMemoryRepo()
	}

	analysisSvc := analyses.NewService(analysisRepo, app.LLM)
	userSvc := users.NewService(userRepo)

	app.AnalysesRepo = analysisRepo
	app.CVFilesRepo = filesRepo
	app.UsersRepo = userRepo
	app.AnalysesService = analysisSvc
	app.UsersService = userSvc
	app.AnalysisHandler = &analyses.Handler{Service: analysisSvc}
	app.StatsHandler = &stats.Handler{Analyses: analysisSvc}
	app.UsersHandler = users.NewHandler(userSvc)
	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		!isDevLike(app.Config.Env),
		userSvc,
	)
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
