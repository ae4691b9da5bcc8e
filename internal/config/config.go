package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	LogLevel            string
	SessionSecret       string
	DatabaseURL         string // postgres URL or sqlite://<path>
	AutoMigrate         bool
	RedisURL            string
	FrontendURL         string // probed by the health check when set
	FrontendURLEndsWith string
	DevPassword         string
	AllowCrossSiteDev   bool
	HealthAdminKey      string
	GeminiAPIKey        string
	GeminiModel         string
	BrevoAPIKey         string
	MailFrom            string
	ReportCacheTTL      time.Duration
}

func (c *Config) IsProduction() bool { return c.Env == "production" }

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("AUTO_MIGRATE", true)
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("REPORT_CACHE_TTL", "5m")

	env := v.GetString("APP_ENV")

	// DATABASE_URL wins; otherwise the per-environment variable is used.
	dbURL := v.GetString("DATABASE_URL")
	if dbURL == "" {
		switch env {
		case "production":
			dbURL = v.GetString("DATABASE_URL_PROD")
		case "test":
			dbURL = v.GetString("DATABASE_URL_TEST")
		default:
			dbURL = v.GetString("DATABASE_URL_DEV")
		}
	}

	brevoKey := v.GetString("BREVO_API_KEY")
	if brevoKey == "" {
		brevoKey = v.GetString("SENDINBLUE_API_KEY")
	}

	ttl := v.GetDuration("REPORT_CACHE_TTL")
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &Config{
		Env:                 env,
		Port:                v.GetString("PORT"),
		LogLevel:            v.GetString("LOG_LEVEL"),
		SessionSecret:       v.GetString("SESSION_SECRET"),
		DatabaseURL:         dbURL,
		AutoMigrate:         v.GetBool("AUTO_MIGRATE"),
		RedisURL:            v.GetString("REDIS_URL"),
		FrontendURL:         v.GetString("FRONTEND_URL"),
		FrontendURLEndsWith: v.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         v.GetString("DEV_PASSWORD"),
		AllowCrossSiteDev:   v.GetBool("ALLOW_CROSS_SITE_DEV"),
		HealthAdminKey:      v.GetString("HEALTH_ADMIN_KEY"),
		GeminiAPIKey:        v.GetString("GEMINI_API_KEY"),
		GeminiModel:         v.GetString("GEMINI_MODEL"),
		BrevoAPIKey:         brevoKey,
		MailFrom:            v.GetString("MAIL_FROM"),
		ReportCacheTTL:      ttl,
	}, nil
}
