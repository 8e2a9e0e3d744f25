package app

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/yungbote/studyflow-backend/internal/data/db"
	"github.com/yungbote/studyflow-backend/internal/platform/envutil"
	"github.com/yungbote/studyflow-backend/internal/platform/logger"
)

type Config struct {
	Environment string
	Version     string
	HTTPAddr    string
	CORSOrigins []string

	Store db.Config

	JWTSecretKey string
	Location     *time.Location

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TimerTTL      time.Duration

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	OpenAITimeout time.Duration
}

func LoadConfig(log *logger.Logger) (Config, error) {
	tzName := envutil.String("ENGINE_TZ", "UTC", log)
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return Config{}, fmt.Errorf("ENGINE_TZ %q: %w", tzName, err)
	}
	driver := strings.ToLower(envutil.String("STORE_DRIVER", db.DriverPostgres, log))
	if driver != db.DriverPostgres && driver != db.DriverSQLite {
		return Config{}, fmt.Errorf("STORE_DRIVER must be postgres or sqlite, got %q", driver)
	}
	secret := envutil.String("JWT_SECRET_KEY", "defaultsecret", log)
	if secret == "defaultsecret" {
		log.Warn("JWT_SECRET_KEY not set; using the development default")
	}

	return Config{
		Environment: envutil.String("APP_ENV", "development", log),
		Version:     envutil.String("APP_VERSION", "dev", log),
		HTTPAddr:    envutil.String("HTTP_ADDR", ":8080", log),
		CORSOrigins: splitList(envutil.String("CORS_ALLOWED_ORIGINS", "", log)),
		Store: db.Config{
			Driver:           driver,
			PostgresHost:     envutil.String("POSTGRES_HOST", "localhost", log),
			PostgresPort:     envutil.String("POSTGRES_PORT", "5432", log),
			PostgresUser:     envutil.String("POSTGRES_USER", "postgres", log),
			PostgresPassword: envutil.String("POSTGRES_PASSWORD", "", log),
			PostgresName:     envutil.String("POSTGRES_NAME", "studyflow", log),
			SQLitePath:       envutil.String("SQLITE_PATH", "", log),
		},
		JWTSecretKey:  secret,
		Location:      loc,
		RedisAddr:     envutil.String("REDIS_ADDR", "", log),
		RedisPassword: envutil.String("REDIS_PASSWORD", "", log),
		RedisDB:       envutil.Int("REDIS_DB", 0, log),
		TimerTTL:      time.Duration(envutil.Int("TIMER_TTL_HOURS", 48, log)) * time.Hour,
		OpenAIAPIKey:  envutil.String("OPENAI_API_KEY", "", log),
		OpenAIBaseURL: envutil.String("OPENAI_BASE_URL", "", log),
		OpenAIModel:   envutil.String("OPENAI_MODEL", "", log),
		OpenAITimeout: time.Duration(envutil.Int("OPENAI_TIMEOUT_SECONDS", 30, log)) * time.Second,
	}, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
