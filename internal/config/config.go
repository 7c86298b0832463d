package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	Env       string `envconfig:"APP_ENV" default:"development"`
	Port      int    `envconfig:"APP_PORT" default:"8080"`
	DB        DBConfig
	Redis     RedisConfig
	CORS      CORSConfig
	JWT       JWTConfig
	Gemini    GeminiConfig
	Interview InterviewConfig
}

// database configuration
type DBConfig struct {
	DSN          string        `envconfig:"DATABASE_URL" required:"true"`
	MaxOpenConns int           `envconfig:"DB_MAX_OPEN_CONNS" default:"20"`
	MaxConnLife  time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"1h"`
}

// redis configuration (transient interview sessions)
type RedisConfig struct {
	Addr       string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	Password   string        `envconfig:"REDIS_PASSWORD" default:""`
	DB         int           `envconfig:"REDIS_DB" default:"0"`
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"2h"`
}

// CORS configuration
type CORSConfig struct {
	TrustedOrigins []string `envconfig:"CORS_TRUSTED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}

// JWT configuration
type JWTConfig struct {
	Secret          string        `envconfig:"JWT_SECRET" required:"true"`
	AccessTokenTTL  time.Duration `envconfig:"JWT_ACCESS_TOKEN_TTL" default:"1h"`
	RefreshTokenTTL time.Duration `envconfig:"JWT_REFRESH_TOKEN_TTL" default:"168h"` // 7 days
}

// Gemini AI configuration
type GeminiConfig struct {
	APIKey        string        `envconfig:"GEMINI_API_KEY" required:"true"`
	QuestionModel string        `envconfig:"GEMINI_QUESTION_MODEL" default:"gemini-2.5-pro"`
	EvalModel     string        `envconfig:"GEMINI_EVAL_MODEL" default:"gemini-2.5-flash"`
	TTSModel      string        `envconfig:"GEMINI_TTS_MODEL" default:"gemini-2.5-flash-preview-tts"`
	Voice         string        `envconfig:"GEMINI_TTS_VOICE" default:"Kore"`
	Timeout       time.Duration `envconfig:"GEMINI_TIMEOUT" default:"60s"`
}

// interview session tuning
type InterviewConfig struct {
	QuestionLimit      int `envconfig:"INTERVIEW_QUESTION_LIMIT" default:"5"`
	DefaultPeerAverage int `envconfig:"INTERVIEW_DEFAULT_PEER_AVG" default:"60"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
		"test":        true,
	}
	if !validEnvs[c.Env] {
		return fmt.Errorf("invalid environment: %s (must be one of: development, staging, production, test)", c.Env)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d (must be between 1 and 65535)", c.Port)
	}
	if c.DB.MaxOpenConns < 1 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be at least 1")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	if c.Interview.QuestionLimit < 1 {
		return fmt.Errorf("INTERVIEW_QUESTION_LIMIT must be at least 1")
	}
	if c.Interview.DefaultPeerAverage < 0 || c.Interview.DefaultPeerAverage > 100 {
		return fmt.Errorf("INTERVIEW_DEFAULT_PEER_AVG must be between 0 and 100")
	}
	if len(c.CORS.TrustedOrigins) == 0 {
		return fmt.Errorf("at least one trusted origin must be specified")
	}

	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// GetCORSOrigins returns the list of trusted CORS origins
func (c *Config) GetCORSOrigins() []string {
	origins := make([]string, 0, len(c.CORS.TrustedOrigins))
	for _, origin := range c.CORS.TrustedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}

func (c *Config) String() string {
	return fmt.Sprintf("Config{Env=%s, Port=%d, DB.MaxOpenConns=%d, CORS.Origins=%d, "+
		"JWT.AccessTokenTTL=%s, Gemini.QuestionModel=%s, Interview.QuestionLimit=%d}",
		c.Env, c.Port, c.DB.MaxOpenConns, len(c.CORS.TrustedOrigins),
		c.JWT.AccessTokenTTL, c.Gemini.QuestionModel, c.Interview.QuestionLimit)
}
