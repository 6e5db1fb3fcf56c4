package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"resume-builder/internal/ai"
	googleauth "resume-builder/internal/auth"
	"resume-builder/internal/llm"
	openai "resume-builder/internal/llm/openai"
	"resume-builder/internal/resumes"
	"resume-builder/internal/services/health"
	"resume-builder/internal/shared/auth"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/server"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/storage/db"
	mongostore "resume-builder/internal/shared/storage/mongo"
	redisstore "resume-builder/internal/shared/storage/redis"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/internal/users"
)

const defaultModel = "gpt-4o-mini"

// App holds the process-scoped dependencies and the wired router.
type App struct {
	Config config.Config
	Router *gin.Engine

	DB    *sql.DB
	Mongo *mongo.Client
	Redis *goredis.Client

	Tokens         *auth.Manager
	LLM            llm.Client
	UsersService   *users.Service
	ResumesService *resumes.Service
	AIService      *ai.Service
	Health         *health.Service
	GoogleAuth     *googleauth.GoogleService
}

type stores struct {
	users   users.Repo
	resumes resumes.Repo
	pinger  health.Pinger
}

// Build connects storage, constructs services and mounts routes.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{Config: cfg}

	st, err := app.buildStores(ctx)
	if err != nil {
		app.Close(ctx)
		return nil, err
	}

	limiter, err := app.buildLimiter(ctx)
	if err != nil {
		app.Close(ctx)
		return nil, err
	}

	llmClient, err := buildLLM(cfg)
	if err != nil {
		app.Close(ctx)
		return nil, err
	}

	model := strings.TrimSpace(cfg.LLMModel)
	if model == "" {
		model = defaultModel
	}

	app.Tokens = auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	app.LLM = llmClient
	app.ResumesService = resumes.NewService(st.resumes)
	app.UsersService = users.NewService(st.users, app.Tokens, app.ResumesService)
	app.AIService = ai.NewService(llmClient, model, app.ResumesService)
	app.Health = health.NewService(cfg.AppVersion, st.pinger)
	if strings.TrimSpace(cfg.GoogleClientID) != "" {
		app.GoogleAuth = googleauth.NewGoogleService(
			cfg.GoogleClientID,
			cfg.GoogleClientSecret,
			cfg.GoogleRedirectURL,
			cfg.UIRedirectURL,
			app.UsersService,
		)
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:     cfg,
		Health:     app.Health,
		Users:      users.NewHandler(app.UsersService),
		Resumes:    resumes.NewHandler(app.ResumesService),
		AI:         ai.NewHandler(app.AIService),
		GoogleAuth: app.GoogleAuth,
		Verifier:   app.Tokens,
		Limiter:    limiter,
	})

	return app, nil
}

// Close releases storage connections. It is safe to call on a partially built App.
func (a *App) Close(ctx context.Context) {
	if a.DB != nil {
		_ = a.DB.Close()
	}
	if a.Mongo != nil {
		_ = a.Mongo.Disconnect(ctx)
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
}

func (a *App) buildStores(ctx context.Context) (stores, error) {
	cfg := a.Config
	switch {
	case cfg.DatabaseURL == "":
		if !cfg.IsDevLike() {
			return stores{}, fmt.Errorf("DATABASE_URL is required")
		}
		telemetry.Info("bootstrap.storage", map[string]any{"driver": "memory"})
		return memoryStores(), nil

	case mongostore.IsMongoURL(cfg.DatabaseURL):
		client, database, err := mongostore.Connect(ctx, cfg.DatabaseURL, mongostore.DatabaseName(cfg.DatabaseURL, cfg.MongoDatabase))
		if err != nil {
			return a.fallback(err)
		}
		a.Mongo = client
		userRepo := users.NewMongoRepo(database)
		if err := userRepo.EnsureIndexes(ctx); err != nil {
			return stores{}, fmt.Errorf("ensure user indexes: %w", err)
		}
		telemetry.Info("bootstrap.storage", map[string]any{"driver": "mongo", "database": database.Name()})
		return stores{
			users:   userRepo,
			resumes: resumes.NewMongoRepo(database),
			pinger: health.PingFunc(func(ctx context.Context) error {
				return client.Ping(ctx, nil)
			}),
		}, nil

	default:
		sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			return a.fallback(err)
		}
		a.DB = sqlDB
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			return stores{}, fmt.Errorf("run migrations: %w", err)
		}
		telemetry.Info("bootstrap.storage", map[string]any{"driver": "postgres"})
		return stores{
			users:   &users.PGRepo{DB: sqlDB},
			resumes: &resumes.PGRepo{DB: sqlDB},
			pinger:  health.PingFunc(sqlDB.PingContext),
		}, nil
	}
}

// fallback swaps in memory repositories when a dev database is unreachable.
func (a *App) fallback(err error) (stores, error) {
	if !a.Config.IsDevLike() {
		return stores{}, fmt.Errorf("connect database: %w", err)
	}
	telemetry.Error("bootstrap.storage_fallback", map[string]any{
		"driver": "memory",
		"error":  err.Error(),
	})
	return memoryStores(), nil
}

func memoryStores() stores {
	return stores{
		users:   users.NewMemoryRepo(),
		resumes: resumes.NewMemoryRepo(),
	}
}

// buildLimiter returns the shared Redis limiter when REDIS_URL is set. A nil limiter
// makes the middleware fall back to its in-process bucket.
func (a *App) buildLimiter(ctx context.Context) (middleware.Limiter, error) {
	if a.Config.RedisURL == "" {
		return nil, nil
	}
	client, err := redisstore.Connect(ctx, a.Config.RedisURL)
	if err != nil {
		if a.Config.IsDevLike() {
			telemetry.Error("bootstrap.redis_unavailable", map[string]any{"error": err.Error()})
			return nil, nil
		}
		return nil, err
	}
	a.Redis = client
	return redisstore.NewLimiter(client), nil
}

func buildLLM(cfg config.Config) (llm.Client, error) {
	if cfg.OpenAIAPIKey == "" {
		telemetry.Info("bootstrap.llm", map[string]any{"provider": "none"})
		return llm.PlaceholderClient{}, nil
	}
	client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.LLMTimeout)
	if err != nil {
		return nil, err
	}
	return client, nil
}
