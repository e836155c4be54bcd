package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type DB struct {
	DbHOST     string
	DbPORT     string
	DbUSER     string
	DbPASSWORD string
	DbNAME     string
	DbSSLMODE  string
}

type MinIO struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	BucketName    string
	UseSSL        bool
	Region        string
	PublicBaseURL string
}

type Auth struct {
	RequireEmailConfirmation bool
	AllowSelfElevation       bool
	// AdminResolveTimeout bounds the profile lookup; on expiry the user is treated as non-admin.
	AdminResolveTimeout time.Duration
	SessionIdleTTL      time.Duration
}

type Analytics struct {
	EventBuffer int
	EventRate   float64
	EventBurst  int
}

type Config struct {
	ServerPort           int
	DB                   DB
	MinIO                MinIO
	Auth                 Auth
	Analytics            Analytics
	JWTSecretKey         string
	AccessTokenDuration  time.Duration
	RefreshTokenDuration time.Duration
	MaxUploadSize        int64
	CookieSecure         bool
	AllowedOrigin        string
	// SiteURL is the public origin used for absolute links such as the sitemap.
	SiteURL string
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// parseDuration falls back when the value is not a valid Go duration.
func parseDuration(value string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		return fallback
	}
	return duration
}

func LoadDB() DB {
	return DB{
		DbHOST:     getEnv("DB_HOST", "localhost"),
		DbPORT:     getEnv("DB_PORT", "5432"),
		DbUSER:     getEnv("DB_USER", "postgres"),
		DbPASSWORD: getEnv("DB_PASSWORD", "password"),
		DbNAME:     getEnv("DB_NAME", "contenthub"),
		DbSSLMODE:  getEnv("DB_SSLMODE", "disable"),
	}
}

func LoadMinIO() MinIO {
	endpoint := getEnv("MINIO_ENDPOINT", "localhost:9000")
	useSSL := getEnvBool("MINIO_USE_SSL", false)

	scheme := "http://"
	if useSSL {
		scheme = "https://"
	}

	return MinIO{
		Endpoint:      endpoint,
		AccessKey:     getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		SecretKey:     getEnv("MINIO_SECRET_KEY", "minioadmin"),
		BucketName:    getEnv("MINIO_BUCKET_NAME", "media"),
		UseSSL:        useSSL,
		Region:        getEnv("MINIO_REGION", "us-east-1"),
		PublicBaseURL: getEnv("MINIO_PUBLIC_URL", scheme+endpoint),
	}
}

func LoadAuth() Auth {
	return Auth{
		RequireEmailConfirmation: getEnvBool("AUTH_REQUIRE_EMAIL_CONFIRMATION", false),
		AllowSelfElevation:       getEnvBool("AUTH_ALLOW_SELF_ELEVATION", false),
		AdminResolveTimeout:      parseDuration(getEnv("AUTH_ADMIN_RESOLVE_TIMEOUT", "5s"), 5*time.Second),
		SessionIdleTTL:           parseDuration(getEnv("AUTH_SESSION_IDLE_TTL", "24h"), 24*time.Hour),
	}
}

func LoadAnalytics() Analytics {
	return Analytics{
		EventBuffer: getEnvAsInt("ANALYTICS_EVENT_BUFFER", 1024),
		EventRate:   getEnvAsFloat("ANALYTICS_EVENT_RATE", 5),
		EventBurst:  getEnvAsInt("ANALYTICS_EVENT_BURST", 20),
	}
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Warn().Msg(".env файл не найден, используются переменные окружения")
	}

	return &Config{
		ServerPort:           getEnvAsInt("SERVER_PORT", 8080),
		DB:                   LoadDB(),
		MinIO:                LoadMinIO(),
		Auth:                 LoadAuth(),
		Analytics:            LoadAnalytics(),
		JWTSecretKey:         getEnv("JWT_SECRET_KEY", ""),
		AccessTokenDuration:  parseDuration(getEnv("ACCESS_TOKEN_DURATION", "1h"), time.Hour),
		RefreshTokenDuration: parseDuration(getEnv("REFRESH_TOKEN_DURATION", "168h"), 168*time.Hour),
		MaxUploadSize:        parseMaxUploadSize(getEnv("MAX_UPLOAD_SIZE", "10485760")),
		CookieSecure:         getEnvBool("COOKIE_SECURE", false),
		AllowedOrigin:        getEnv("CORS_ALLOWED_ORIGIN", "*"),
		SiteURL:              getEnv("SITE_URL", "http://localhost:8080"),
	}
}

func parseMaxUploadSize(value string) int64 {
	size, err := strconv.ParseInt(value, 10, 64)
	if err != nil || size <= 0 {
		return 10 * 1024 * 1024
	}
	return size
}
