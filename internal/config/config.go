package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	Env               string
	LogLevel          string
	DatabaseDriver    string
	DatabaseDSN       string
	SessionCookieName string
	CookieSecure      bool
	SessionTTLHours   int
	PostsPageSize     int
	ProfilePageSize   int
	MaxUploadMB       int
	CORSOrigins       []string
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

// getint 读取整数环境变量，非法值或负数时回退到默认值。
func getint(key string, def int) int {
	v, err := strconv.Atoi(getenv(key, ""))
	if err != nil || v < 0 {
		return def
	}
	return v
}

// LoadDotenv 从当前目录或上级目录加载 .env，找不到时静默跳过。
func LoadDotenv() string {
	for _, p := range []string{".env", filepath.Join("..", ".env")} {
		if _, err := os.Stat(p); err == nil {
			if err := godotenv.Load(p); err == nil {
				return p
			}
		}
	}
	return ""
}

func Load() Config {
	var origins []string
	for _, o := range strings.Split(getenv("CORS_ORIGINS", ""), ",") {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			origins = append(origins, o)
		}
	}
	return Config{
		Port:              getenv("APP_PORT", "8080"),
		Env:               getenv("APP_ENV", "dev"),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		DatabaseDriver:    strings.ToLower(getenv("DATABASE_DRIVER", DriverPostgres)),
		DatabaseDSN:       getenv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=blogs port=5432 sslmode=disable TimeZone=UTC"),
		SessionCookieName: getenv("SESSION_COOKIE_NAME", "session_id"),
		CookieSecure:      getenv("COOKIE_SECURE", "false") == "true",
		SessionTTLHours:   getint("SESSION_TTL_HOURS", 0),
		PostsPageSize:     getint("POSTS_PAGE_SIZE", 10),
		ProfilePageSize:   getint("PROFILE_PAGE_SIZE", 10),
		MaxUploadMB:       getint("MAX_UPLOAD_MB", 8),
		CORSOrigins:       origins,
	}
}

// Validate 校验启动前必须满足的配置约束。
func Validate(cfg Config) error {
	if cfg.Port == "" {
		return errors.New("config: empty port")
	}
	if cfg.DatabaseDSN == "" {
		return errors.New("config: empty database dsn")
	}
	if cfg.DatabaseDriver != DriverPostgres && cfg.DatabaseDriver != DriverSQLite {
		return errors.New("config: unknown database driver " + strconv.Quote(cfg.DatabaseDriver))
	}
	if cfg.SessionCookieName == "" {
		return errors.New("config: empty session cookie name")
	}
	if cfg.PostsPageSize <= 0 || cfg.ProfilePageSize <= 0 {
		return errors.New("config: page sizes must be positive")
	}
	if cfg.Env == "prod" && !cfg.CookieSecure {
		return errors.New("config: COOKIE_SECURE must be true in prod")
	}
	return nil
}
