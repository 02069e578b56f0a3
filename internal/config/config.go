package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// API
	APIBaseURL     string
	RequestTimeout time.Duration

	// Identity Provider
	IdentityProjectID  string
	AuthTokenSecret    string
	AttestationSiteKey string

	// Session
	SessionTimeout        time.Duration
	ActivityCheckInterval time.Duration
	StateDir              string

	// Database（リファレンスバックエンド）
	DatabaseURL string

	// Forms（ウェイトリスト/ニュースレター送信先）
	FormsEndpointURL string

	// News（ブログページのNILニュースフィード）
	NewsFeedURLs []string
	NewsCacheTTL time.Duration
	NewsTimeout  time.Duration
	NewsMaxSize  int64

	// Rate Limit
	RateLimitGeneral int
	RateLimitWrite   int

	// Server
	ServerPort string

	// CORS
	CORSAllowedOrigin string
}

// Load は環境変数からConfigを読み込む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	cfg := &Config{}

	// Required fields
	var missing []string

	cfg.APIBaseURL = os.Getenv("API_BASE_URL")
	if cfg.APIBaseURL == "" {
		missing = append(missing, "API_BASE_URL")
	}

	cfg.AuthTokenSecret = os.Getenv("AUTH_TOKEN_SECRET")
	if cfg.AuthTokenSecret == "" {
		missing = append(missing, "AUTH_TOKEN_SECRET")
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	// Optional fields with defaults
	cfg.RequestTimeout = getEnvDuration("REQUEST_TIMEOUT", 30*time.Second)
	cfg.IdentityProjectID = getEnvString("IDENTITY_PROJECT_ID", "")
	cfg.AttestationSiteKey = getEnvString("ATTESTATION_SITE_KEY", "")
	cfg.SessionTimeout = getEnvDuration("SESSION_TIMEOUT", 24*time.Hour)
	cfg.ActivityCheckInterval = getEnvDuration("ACTIVITY_CHECK_INTERVAL", time.Minute)
	cfg.StateDir = getEnvString("STATE_DIR", ".dapup")
	cfg.FormsEndpointURL = getEnvString("FORMS_ENDPOINT_URL", "")
	cfg.NewsFeedURLs = getEnvStringSlice("NEWS_FEED_URLS")
	cfg.NewsCacheTTL = getEnvDuration("NEWS_CACHE_TTL", 15*time.Minute)
	cfg.NewsTimeout = getEnvDuration("NEWS_TIMEOUT", 10*time.Second)
	cfg.NewsMaxSize = getEnvInt64("NEWS_MAX_SIZE", 5242880)
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)
	cfg.RateLimitWrite = getEnvInt("RATE_LIMIT_WRITE", 30)
	cfg.ServerPort = getEnvString("SERVER_PORT", "3001")
	cfg.CORSAllowedOrigin = getEnvString("CORS_ALLOWED_ORIGIN", "http://localhost:5173")

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// getEnvStringSlice はカンマ区切りの環境変数を文字列スライスとして読み込む。
// 未設定の場合は空スライスを返す。
func getEnvStringSlice(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
