package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" envDefault:"local"`
	PostgresDSN string `env:"POSTGRES_DSN,required"`
	BotToken    string `env:"BOT_TOKEN,required"`

	YouTubeAPIKey  string        `env:"YOUTUBE_API_KEY,required"`
	YouTubeRPS     int           `env:"YOUTUBE_RPS" envDefault:"5"`
	YouTubeTimeout time.Duration `env:"YOUTUBE_TIMEOUT" envDefault:"30s"`

	LLMProvider  string `env:"LLM_PROVIDER" envDefault:"openai"`
	LLMAPIKey    string `env:"LLM_API_KEY"`
	LLMModel     string `env:"LLM_MODEL"`
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	RateLimitRPS int    `env:"RATE_LIMIT_RPS" envDefault:"1"`

	UserDailyLimit int           `env:"USER_DAILY_LIMIT" envDefault:"20"`
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"60s"`
	ReportMaxChars int           `env:"REPORT_MAX_CHARS" envDefault:"3500"`

	HealthPort int `env:"HEALTH_PORT" envDefault:"8080"`

	DBMaxConnections    int32         `env:"DB_MAX_CONNECTIONS" envDefault:"10"`
	DBMinConnections    int32         `env:"DB_MIN_CONNECTIONS" envDefault:"2"`
	DBMaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`
	DBMaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`
	DBHealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD" envDefault:"1m"`
}

func Load() (*Config, error) {
	_ = godotenv.Load() //nolint:errcheck // .env file is optional, error is expected when not present

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	return cfg, nil
}
