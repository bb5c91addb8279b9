package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	Port        string `envconfig:"PORT" default:"9000"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	Database    DatabaseConfig    `envconfig:"DB"`
	JWT         JWTConfig         `envconfig:"JWT"`
	CORS        CORSConfig        `envconfig:"CORS"`
	RecipeLens  RecipeLensConfig  `envconfig:"RECIPE_LENS"`
	Recognition RecognitionConfig `envconfig:"RECIPES"`
	Chatbot     ChatbotConfig     `envconfig:"CHATBOT"`
	Upload      UploadConfig      `envconfig:"UPLOAD"`
}

type DatabaseConfig struct {
	// URL overrides the individual fields when set (DB_URL).
	// Nested fields carry no envconfig tag so envconfig never falls back
	// to the unprefixed name (USER, PORT).
	URL      string `split_words:"true"`
	Host     string `split_words:"true" default:"localhost"`
	Port     string `split_words:"true" default:"5432"`
	Name     string `split_words:"true" default:"smartrecipe"`
	User     string `split_words:"true" default:"smartrecipe"`
	Password string `split_words:"true" default:"smartrecipe"`
	SSLMode  string `split_words:"true" default:"disable"`
	MaxConns int32  `split_words:"true" default:"10"`
}

type JWTConfig struct {
	Secret    string `split_words:"true" default:"your-super-secret-jwt-key-change-this-in-production"`
	ExpiresIn string `split_words:"true" default:"5h"`
}

type CORSConfig struct {
	AllowedOrigins []string `split_words:"true" default:"http://localhost:3000,http://localhost:3001,http://localhost:3002,http://localhost:3003,http://localhost:3004,http://localhost:3005"`
}

type RecipeLensConfig struct {
	URL     string        `split_words:"true" default:"http://127.0.0.1:8000/"`
	Timeout time.Duration `split_words:"true" default:"30s"`
}

type RecognitionConfig struct {
	// CorpusPath points at a JSON array of recipes; empty uses the built-in corpus.
	CorpusPath string `split_words:"true"`
}

type ChatbotConfig struct {
	RateLimit     int           `split_words:"true" default:"10"`
	RateWindow    time.Duration `split_words:"true" default:"1m"`
	ResponseDelay time.Duration `split_words:"true" default:"1s"`
}

type UploadConfig struct {
	MaxBytes int64 `split_words:"true" default:"10485760"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("port", cfg.Port).
		Str("db_host", cfg.Database.Host).
		Bool("db_url_present", cfg.Database.URL != "").
		Str("recipe_lens_url", cfg.RecipeLens.URL).
		Int("chatbot_rate_limit", cfg.Chatbot.RateLimit).
		Dur("chatbot_rate_window", cfg.Chatbot.RateWindow).
		Msg("Configuration loaded")

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.Chatbot.RateLimit <= 0 {
		return fmt.Errorf("CHATBOT_RATE_LIMIT must be positive, got %d", c.Chatbot.RateLimit)
	}
	if c.Chatbot.RateWindow <= 0 {
		return fmt.Errorf("CHATBOT_RATE_WINDOW must be positive, got %s", c.Chatbot.RateWindow)
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive, got %d", c.Upload.MaxBytes)
	}
	if _, err := url.Parse(c.RecipeLens.URL); err != nil {
		return fmt.Errorf("invalid RECIPE_LENS_URL: %w", err)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

// DSN returns a pgx connection string.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}
