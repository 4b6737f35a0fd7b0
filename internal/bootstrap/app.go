package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"quickai-backend/internal/ai"
	"quickai-backend/internal/creations"
	"quickai-backend/internal/events"
	"quickai-backend/internal/gateway"
	"quickai-backend/internal/imagegen"
	"quickai-backend/internal/imagegen/clipdrop"
	"quickai-backend/internal/llm"
	"quickai-backend/internal/llm/gemini"
	"quickai-backend/internal/llm/openai"
	"quickai-backend/internal/media"
	"quickai-backend/internal/media/cloudinary"
	"quickai-backend/internal/media/objecthost"
	"quickai-backend/internal/resumes"
	"quickai-backend/internal/services/health"
	"quickai-backend/internal/shared/auth"
	"quickai-backend/internal/shared/config"
	"quickai-backend/internal/shared/server"
	"quickai-backend/internal/shared/storage/db"
	"quickai-backend/internal/shared/storage/object"
	localstore "quickai-backend/internal/shared/storage/object/local"
	s3store "quickai-backend/internal/shared/storage/object/s3"
	"quickai-backend/internal/shared/telemetry"
	"quickai-backend/internal/usage"
)

// Providers lets callers supply external collaborators. Nil fields are built from config.
type Providers struct {
	Completer llm.Completer
	Images    imagegen.Generator
	Host      media.Host
	Publisher events.Publisher
}

// App holds shared dependencies.
type App struct {
	Config    config.Config
	Router    *gin.Engine
	DB        *sql.DB
	Redis     *redis.Client
	Store     object.ObjectStore
	Publisher events.Publisher
	Tokens    *auth.Tokens

	UsageService    *usage.Service
	ResumeService   *resumes.Service
	AIService       *ai.Service
	CreationsRepo   creations.Repo
	Gateway         *gateway.Gateway
	UsageHandler    *usage.Handler
	ResumeHandler   *resumes.Handler
	AIHandler       *ai.Handler
	CreationHandler *creations.Handler
	MediaHandler    *objecthost.Handler
}

// Build prepares dependencies from cfg and wires routes.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	return BuildWithProviders(ctx, cfg, Providers{})
}

// BuildWithProviders is Build with some collaborators supplied by the caller.
func BuildWithProviders(ctx context.Context, cfg config.Config, p Providers) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "production"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		if !config.IsDevLike(cfg.Env) {
			return nil, errors.New("JWT_SECRET is required")
		}
		telemetry.Warn("bootstrap.jwt_secret_missing", map[string]any{"env": cfg.Env})
		cfg.JWTSecret = "dev-secret"
	}

	app := &App{Config: cfg, Tokens: auth.NewTokens(cfg.JWTSecret)}

	var err error
	if app.DB, err = buildDB(ctx, cfg); err != nil {
		return nil, err
	}
	if app.Redis, err = buildRedis(ctx, cfg); err != nil {
		return nil, err
	}
	if app.Store, err = buildStore(ctx, cfg); err != nil {
		return nil, err
	}

	if p.Completer == nil {
		if p.Completer, err = buildCompleter(ctx, cfg); err != nil {
			return nil, err
		}
	}
	if p.Images == nil {
		if p.Images, err = buildImages(cfg); err != nil {
			return nil, err
		}
	}
	if p.Host == nil {
		if p.Host, err = buildHost(cfg, app.Store); err != nil {
			return nil, err
		}
	}
	if p.Publisher == nil {
		if p.Publisher, err = buildPublisher(ctx, cfg); err != nil {
			return nil, err
		}
	}
	app.Publisher = p.Publisher

	buildServices(app, p)

	var redisPing health.RedisPinger
	if app.Redis != nil {
		redisPing = redisPinger{app.Redis}
	}
	var dbPing health.Pinger
	if app.DB != nil {
		dbPing = app.DB
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		Tokens:          app.Tokens,
		Principals:      app.UsageService,
		Health:          health.NewService(dbPing, redisPing),
		AIHandler:       app.AIHandler,
		ResumeHandler:   app.ResumeHandler,
		CreationHandler: app.CreationHandler,
		UsageHandler:    app.UsageHandler,
		MediaHandler:    app.MediaHandler,
	})
	return app, nil
}

// Close releases connections held by the app.
func (a *App) Close() error {
	var errs []error
	if a.Publisher != nil {
		errs = append(errs, a.Publisher.Close())
	}
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}

func buildServices(app *App, p Providers) {
	var (
		usageStore   usage.Store
		creationRepo creations.Repo
		resumeRepo   resumes.Repo
	)
	switch {
	case app.Redis != nil:
		usageStore = usage.NewRedisStore(app.Redis)
	case app.DB != nil:
		usageStore = usage.NewPGStore(app.DB)
	default:
		usageStore = usage.NewMemoryStore()
	}
	if app.DB != nil {
		creationRepo = &creations.PGRepo{DB: app.DB}
		resumeRepo = &resumes.PGRepo{DB: app.DB}
	} else {
		creationRepo = creations.NewMemoryRepo()
		resumeRepo = resumes.NewMemoryRepo()
	}

	app.UsageService = usage.NewServiceWithStore(usageStore, app.Config.FreeUsageLimit)
	app.Gateway = gateway.New(app.UsageService, app.Publisher)
	app.CreationsRepo = creationRepo
	app.ResumeService = resumes.NewService(resumeRepo, p.Host)

	var editor *media.Editor
	if p.Host != nil {
		editor = media.NewEditor(p.Host)
	}
	app.AIService = &ai.Service{
		Gateway:   app.Gateway,
		Completer: p.Completer,
		Images:    p.Images,
		Editor:    editor,
		Host:      p.Host,
		Creations: creationRepo,
	}

	var tokens *auth.Tokens
	if config.IsDevLike(app.Config.Env) {
		tokens = app.Tokens
	}
	app.UsageHandler = usage.NewHandler(app.UsageService, tokens)
	app.ResumeHandler = resumes.NewHandler(app.ResumeService, app.Gateway)
	app.AIHandler = ai.NewHandler(app.AIService)
	app.CreationHandler = creations.NewHandler(creationRepo)
	if _, ok := p.Host.(*objecthost.Host); ok && app.Store != nil {
		app.MediaHandler = objecthost.NewHandler(app.Store)
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if config.IsDevLike(cfg.Env) {
			telemetry.Info("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if config.IsDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "database connect failed", "error": err})
			return nil, nil
		}
		return nil, err
	}
	if cfg.DBAutoMigrate {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	return sqlDB, nil
}

func buildRedis(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		if config.IsDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.redis_unavailable", map[string]any{"error": err})
			return nil, nil
		}
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, s3store.Options{
			Region:   cfg.AWSRegion,
			Bucket:   cfg.S3Bucket,
			Prefix:   cfg.S3Prefix,
			KMSKeyID: cfg.SSEKMSKeyID,
			Endpoint: cfg.S3Endpoint,
		})
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// optional downgrades a provider construction error to a warning in dev.
func optional[T any](cfg config.Config, name string, v T, err error) (T, error) {
	if err == nil {
		return v, nil
	}
	var zero T
	if config.IsDevLike(cfg.Env) {
		telemetry.Warn("bootstrap.provider_disabled", map[string]any{"provider": name, "error": err})
		return zero, nil
	}
	return zero, fmt.Errorf("%s: %w", name, err)
}

func buildCompleter(ctx context.Context, cfg config.Config) (llm.Completer, error) {
	switch cfg.LLMProvider {
	case "none":
		telemetry.Info("bootstrap.provider_disabled", map[string]any{"provider": "llm"})
		return nil, nil
	case "openai":
		c, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.OpenAIBaseURL)
		if err != nil {
			return optional[llm.Completer](cfg, "openai", nil, err)
		}
		return c, nil
	}
	c, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.LLMModel)
	if err != nil {
		return optional[llm.Completer](cfg, "gemini", nil, err)
	}
	return c, nil
}

func buildImages(cfg config.Config) (imagegen.Generator, error) {
	c, err := clipdrop.NewClient(cfg.ClipdropAPIKey, cfg.ClipdropURL)
	if err != nil {
		return optional[imagegen.Generator](cfg, "clipdrop", nil, err)
	}
	return c, nil
}

func buildHost(cfg config.Config, store object.ObjectStore) (media.Host, error) {
	if cfg.MediaProvider == "cloudinary" {
		h, err := cloudinary.New(cloudinary.Options{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
		})
		if err != nil {
			return optional[media.Host](cfg, "cloudinary", nil, err)
		}
		return h, nil
	}
	return objecthost.New(store, cfg.MediaPublicBaseURL), nil
}

func buildPublisher(ctx context.Context, cfg config.Config) (events.Publisher, error) {
	switch {
	case cfg.EventsSQSQueueURL != "":
		return events.NewSQSPublisher(ctx, cfg.AWSRegion, cfg.EventsSQSQueueURL, "")
	case cfg.RabbitMQURL != "":
		return events.NewAMQPPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
	default:
		return events.Nop{}, nil
	}
}

type redisPinger struct {
	client *redis.Client
}

func (r redisPinger) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
