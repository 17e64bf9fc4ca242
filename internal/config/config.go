package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Port     string `env:"PORT" env-default:"8080"`
	Env      string `env:"ENV" env-default:"dev"`
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	JwtSecret string        `env:"JWT_SECRET" env-default:"change-me"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" env-default:"60m"`

	AdminSecret string `env:"ADMIN_SECRET" env-default:"This is protected admin data."`

	// Generation backend. Any OpenAI-compatible chat completion server works;
	// point OPENAI_BASE_URL at a self-hosted one to run without the hosted API.
	OpenAIAPIKey  string  `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string  `env:"OPENAI_BASE_URL"`
	Model         string  `env:"GENERATION_MODEL" env-default:"gpt-4o-mini"`
	Temperature   float64 `env:"GENERATION_TEMPERATURE" env-default:"0.7"`
	MaxTokens     int64   `env:"GENERATION_MAX_TOKENS" env-default:"384"`

	GenerationTimeout        time.Duration `env:"GENERATION_TIMEOUT" env-default:"60s"`
	MaxConcurrentGenerations int           `env:"MAX_CONCURRENT_GENERATIONS" env-default:"1"`
}

func New() (*Config, error) {
	c := &Config{}
	if err := cleanenv.ReadEnv(c); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}

	env := strings.ToLower(c.Env)
	if env == "production" || env == "prod" {
		if c.JwtSecret == "" || c.JwtSecret == "change-me" {
			return nil, errors.New("JWT_SECRET must be set in production")
		}
	}
	if c.TokenTTL <= 0 {
		return nil, errors.New("TOKEN_TTL must be positive")
	}
	if c.MaxConcurrentGenerations < 1 {
		return nil, errors.New("MAX_CONCURRENT_GENERATIONS must be at least 1")
	}
	return c, nil
}
