package config

import (
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	LogLevel        string
	DatabaseURL     string
	DBAutoMigrate   bool
	RedisURL        string
	JWTSecret       string
	FreeUsageLimit  int

	LLMProvider   string
	LLMModel      string
	GeminiAPIKey  string
	OpenAIAPIKey  string
	OpenAIBaseURL string

	ClipdropAPIKey string
	ClipdropURL    string

	MediaProvider       string
	MediaPublicBaseURL  string
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	S3Endpoint      string
	SSEKMSKeyID     string

	EventsSQSQueueURL string
	RabbitMQURL       string
	RabbitMQExchange  string

	OTelExporter string
	OTelEndpoint string
}

// Load reads configuration from .env files, an optional CONFIG_FILE and the environment.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	for _, path := range []string{".env", "cmd/.env"} {
		_ = godotenv.Load(path)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if file := strings.TrimSpace(v.GetString("CONFIG_FILE")); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			log.Printf("config: unable to read %s: %v", file, err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("ENV", "production")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:5173")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_AUTO_MIGRATE", false)
	v.SetDefault("FREE_USAGE_LIMIT", 10)
	v.SetDefault("LLM_PROVIDER", "gemini")
	v.SetDefault("LLM_MODEL", "gemini-2.0-flash")
	v.SetDefault("OPENAI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai")
	v.SetDefault("CLIPDROP_URL", "https://clipdrop-api.co/text-to-image/v1")
	v.SetDefault("MEDIA_PROVIDER", "object")
	v.SetDefault("MEDIA_PUBLIC_BASE_URL", "http://localhost:3000/api/media")
	v.SetDefault("OBJECT_STORE", "local")
	v.SetDefault("LOCAL_STORE_DIR", "./data")
	v.SetDefault("RABBITMQ_EXCHANGE", "creations")
	v.SetDefault("OTEL_EXPORTER", "none")
}

func fromViper(v *viper.Viper) Config {
	env := normalizeEnv(v.GetString("ENV"))
	dbURL := strings.TrimSpace(v.GetString("DATABASE_URL"))
	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	limit := v.GetInt("FREE_USAGE_LIMIT")
	if limit <= 0 {
		limit = 10
	}

	return Config{
		Port:            v.GetString("PORT"),
		Env:             env,
		CORSAllowOrigin: splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),
		LogLevel:        v.GetString("LOG_LEVEL"),
		DatabaseURL:     dbURL,
		DBAutoMigrate:   v.GetBool("DB_AUTO_MIGRATE"),
		RedisURL:        strings.TrimSpace(v.GetString("REDIS_URL")),
		JWTSecret:       v.GetString("JWT_SECRET"),
		FreeUsageLimit:  limit,

		LLMProvider:   normalizeProvider(v.GetString("LLM_PROVIDER")),
		LLMModel:      v.GetString("LLM_MODEL"),
		GeminiAPIKey:  v.GetString("GEMINI_API_KEY"),
		OpenAIAPIKey:  v.GetString("OPENAI_API_KEY"),
		OpenAIBaseURL: v.GetString("OPENAI_BASE_URL"),

		ClipdropAPIKey: v.GetString("CLIPDROP_API_KEY"),
		ClipdropURL:    v.GetString("CLIPDROP_URL"),

		MediaProvider:       normalizeMediaProvider(v.GetString("MEDIA_PROVIDER")),
		MediaPublicBaseURL:  strings.TrimRight(v.GetString("MEDIA_PUBLIC_BASE_URL"), "/"),
		CloudinaryCloudName: v.GetString("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    v.GetString("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: v.GetString("CLOUDINARY_API_SECRET"),

		ObjectStoreType: normalizeStoreType(v.GetString("OBJECT_STORE")),
		LocalStoreDir:   v.GetString("LOCAL_STORE_DIR"),
		AWSRegion:       v.GetString("AWS_REGION"),
		S3Bucket:        v.GetString("S3_BUCKET"),
		S3Prefix:        v.GetString("S3_PREFIX"),
		S3Endpoint:      v.GetString("S3_ENDPOINT"),
		SSEKMSKeyID:     v.GetString("SSE_KMS_KEY_ID"),

		EventsSQSQueueURL: strings.TrimSpace(v.GetString("EVENTS_SQS_QUEUE_URL")),
		RabbitMQURL:       strings.TrimSpace(v.GetString("RABBITMQ_URL")),
		RabbitMQExchange:  v.GetString("RABBITMQ_EXCHANGE"),

		OTelExporter: v.GetString("OTEL_EXPORTER"),
		OTelEndpoint: v.GetString("OTEL_ENDPOINT"),
	}
}

// IsDevLike reports whether env permits in-memory fallbacks and dev routes.
func IsDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "dev", "development":
		return "dev"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "test":
		return "test"
	default:
		return "production"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai":
		return "openai"
	case "none", "disabled":
		return "none"
	default:
		return "gemini"
	}
}

func normalizeMediaProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "cloudinary":
		return "cloudinary"
	default:
		return "object"
	}
}
