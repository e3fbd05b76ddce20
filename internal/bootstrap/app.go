package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"budget-backend/internal/analytics"
	"budget-backend/internal/chat"
	"budget-backend/internal/files"
	"budget-backend/internal/insight"
	"budget-backend/internal/llm"
	"budget-backend/internal/llm/gemini"
	"budget-backend/internal/reports"
	"budget-backend/internal/shared/config"
	"budget-backend/internal/shared/server"
	"budget-backend/internal/shared/storage/db"
	"budget-backend/internal/shared/storage/object"
	localstore "budget-backend/internal/shared/storage/object/local"
	s3store "budget-backend/internal/shared/storage/object/s3"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	FilesRepo files.Repo
	ChatRepo  chat.Repo

	Insight      *insight.Orchestrator
	FilesService *files.Service
	ChatService  *chat.Service
	Reports      *reports.Generator

	FilesHandler   *files.Handler
	ChatHandler    *chat.Handler
	ReportsHandler *reports.Handler
}

// Build prepares shared dependencies and wires the router.
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
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	if err := buildServices(app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:  app.Config,
		Files:   app.FilesHandler,
		Chat:    app.ChatHandler,
		Reports: app.ReportsHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		opts := db.OptionsFromEnv(db.DefaultLambdaOptions())
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	} else {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory repositories: %v", err)
			sqlDB.Close()
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildServices(app *App) error {
	if app.DB != nil {
		app.FilesRepo = &files.PGRepo{DB: app.DB}
		app.ChatRepo = &chat.PGRepo{DB: app.DB}
	} else {
		app.FilesRepo = files.NewMemoryRepo()
		app.ChatRepo = chat.NewMemoryRepo()
	}

	reasoner, polisher := buildLLMClients(app.Config)

	app.Insight = insight.New(reasoner, polisher, analytics.Options{
		OverspendThresholdPct: app.Config.OverspendPct,
	})

	app.FilesService = &files.Service{
		Repo:     app.FilesRepo,
		Messages: app.ChatRepo,
		Store:    app.Store,
		Insight:  app.Insight,
	}
	app.ChatService = &chat.Service{
		Repo:    app.ChatRepo,
		Files:   app.FilesService,
		Insight: app.Insight,
	}
	app.Reports = reports.NewGenerator(&fileSource{svc: app.FilesService}, reasoner, polisher)

	app.FilesHandler = files.NewHandler(app.FilesService, app.Config.MaxUploadBytes)
	app.ChatHandler = chat.NewHandler(app.ChatService)
	app.ReportsHandler = reports.NewHandler(app.Reports)

	return nil
}

func buildLLMClients(cfg config.Config) (llm.Client, llm.Client) {
	if strings.TrimSpace(cfg.GeminiAPIKey) == "" {
		log.Printf("bootstrap: GEMINI_API_KEY empty; generative stages will use deterministic fallbacks")
		return llm.Disabled{}, llm.Disabled{}
	}

	reasoner, err := gemini.NewClient(cfg.GeminiAPIKey, cfg.ReasonerModel)
	if err != nil {
		log.Printf("bootstrap: reasoner client unavailable: %v", err)
		return llm.Disabled{}, llm.Disabled{}
	}
	polisher, err := gemini.NewClient(cfg.GeminiAPIKey, cfg.PolisherModel)
	if err != nil {
		log.Printf("bootstrap: polisher client unavailable: %v", err)
		return reasoner, llm.Disabled{}
	}
	return reasoner, polisher
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

// fileSource adapts the files service to the report generator's view of an
// uploaded file.
type fileSource struct {
	svc *files.Service
}

func (s *fileSource) ReportSource(ctx context.Context, userID, fileID string) (reports.SourceFile, error) {
	file, err := s.svc.Get(ctx, userID, fileID)
	if err != nil {
		if errors.Is(err, files.ErrNotFound) {
			return reports.SourceFile{}, reports.ErrFileNotFound
		}
		return reports.SourceFile{}, err
	}
	return reports.SourceFile{
		ID:       file.ID,
		FileName: file.FileName,
		RowCount: file.RowCount,
		Metrics:  file.Metrics,
	}, nil
}
