package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-parser-backend/internal/credits"
	"resume-parser-backend/internal/extraction"
	"resume-parser-backend/internal/llm"
	openai "resume-parser-backend/internal/llm/openai"
	"resume-parser-backend/internal/queue"
	"resume-parser-backend/internal/render"
	"resume-parser-backend/internal/resumes"
	"resume-parser-backend/internal/shared/config"
	"resume-parser-backend/internal/shared/server"
	"resume-parser-backend/internal/shared/storage/db"
	"resume-parser-backend/internal/shared/storage/object"
	localstore "resume-parser-backend/internal/shared/storage/object/local"
	s3store "resume-parser-backend/internal/shared/storage/object/s3"
)

// App holds shared dependencies for the API server and the worker.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore
	Queue  queue.Client

	ResumesRepo    resumes.Repo
	CreditsService *credits.Service
	ResumesService *resumes.Service
	Extractor      *extraction.Service
	ResumesHandler *resumes.Handler
	CreditsHandler *credits.Handler

	// LocalQueue is set when jobs run in-process; callers can Wait on it
	// during shutdown and in tests.
	LocalQueue *queue.LocalClient
}

// Options tweaks construction per binary.
type Options struct {
	// Worker skips the HTTP router; the worker consumes SQS directly.
	Worker bool
	// LLMClient overrides the model client (tests).
	LLMClient llm.Client
}

// Build prepares shared dependencies and, unless building a worker, the
// router.
func Build(cfg config.Config) (*App, error) {
	return BuildWithOptions(cfg, Options{})
}

// BuildWithOptions is Build with per-binary options.
func BuildWithOptions(cfg config.Config, opts Options) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg, opts.Worker)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	llmClient := opts.LLMClient
	if llmClient == nil {
		llmClient, err = buildLLM(cfg)
		if err != nil {
			return nil, err
		}
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}

	var resumesRepo resumes.Repo
	var creditsSvc *credits.Service
	if sqlDB != nil {
		resumesRepo = &resumes.PGRepo{DB: sqlDB}
		creditsSvc = credits.NewPostgresService(credits.NewPGStore(sqlDB), cfg.BillingEnabled, cfg.CreditsPerJob)
	} else {
		resumesRepo = resumes.NewMemoryRepo()
		creditsSvc = credits.NewService(cfg.BillingEnabled, cfg.CreditsPerJob)
	}

	extractor := &extraction.Service{
		Repo:   resumesRepo,
		Store:  store,
		Client: llmClient,
		Renderer: render.New(render.Config{
			Pdftoppm: cfg.PdftoppmPath,
			DPI:      cfg.RenderDPI,
			MaxPages: cfg.RenderPages,
		}),
		Refund: creditsSvc.RefundForJob,
	}

	queueClient, localQueue, err := buildQueue(ctx, cfg, extractor)
	if err != nil {
		return nil, err
	}

	resumesSvc := &resumes.Service{
		Repo:    resumesRepo,
		Store:   store,
		Credits: creditsSvc,
		Queue:   queueClient,
	}

	app.Queue = queueClient
	app.LocalQueue = localQueue
	app.ResumesRepo = resumesRepo
	app.CreditsService = creditsSvc
	app.ResumesService = resumesSvc
	app.Extractor = extractor
	app.ResumesHandler = resumes.NewHandler(resumesSvc)
	app.CreditsHandler = credits.NewHandler(creditsSvc)

	if !opts.Worker {
		app.Router = server.NewRouter(server.RouterDeps{
			Config:         cfg,
			ResumesHandler: app.ResumesHandler,
			CreditsHandler: app.CreditsHandler,
		})
	}

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config, worker bool) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	defaults := db.DefaultServerOptions()
	if worker {
		defaults = db.DefaultWorkerOptions()
	}
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(defaults))
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
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// buildLLM fails fast on missing credentials outside dev, so a misconfigured
// deployment dies at startup instead of failing every job.
func buildLLM(cfg config.Config) (llm.Client, error) {
	if strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: OPENAI_API_KEY empty; extraction jobs will fail with configuration_error")
			return llm.PlaceholderClient{}, nil
		}
		return nil, &llm.ConfigurationError{Field: "OPENAI_API_KEY"}
	}
	return openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAITimeout)
}

// buildQueue picks SQS when a queue URL is configured, otherwise runs jobs on
// an in-process supervised queue.
func buildQueue(ctx context.Context, cfg config.Config, extractor *extraction.Service) (queue.Client, *queue.LocalClient, error) {
	if strings.TrimSpace(cfg.QueueURL) != "" {
		client, err := queue.NewSQSClient(ctx, cfg.AWSRegion, cfg.QueueURL)
		if err != nil {
			return nil, nil, err
		}
		return client, nil, nil
	}

	local, err := queue.NewLocalClient(func(ctx context.Context, msg queue.Message) error {
		return extractor.Process(ctx, msg.ResumeID, msg.RequestID)
	})
	if err != nil {
		return nil, nil, err
	}
	return local, local, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}
