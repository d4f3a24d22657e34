package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v2"
)

const defaultConfigPath = "config/config.yaml"

type Config struct {
	Server struct {
		Address        string        `yaml:"address" env:"SERVER_ADDRESS"`
		ReadTimeout    time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout   time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
		AllowedOrigins []string      `yaml:"allowed_origins" env:"SERVER_ALLOWED_ORIGINS" envSeparator:","`
	} `yaml:"server"`
	Database struct {
		Driver       string `yaml:"driver" env:"DATABASE_DRIVER"`
		URL          string `yaml:"url" env:"DATABASE_URL"`
		MaxOpenConns int    `yaml:"max_open_conns" env:"DATABASE_MAX_OPEN_CONNS"`
		MaxIdleConns int    `yaml:"max_idle_conns" env:"DATABASE_MAX_IDLE_CONNS"`
		Migrate      bool   `yaml:"migrate" env:"DATABASE_MIGRATE"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
	} `yaml:"redis"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET"`
		Audience  string `yaml:"audience" env:"AUTH_AUDIENCE"`
	} `yaml:"auth"`
	Storage struct {
		Endpoint      string `yaml:"endpoint" env:"STORAGE_ENDPOINT"`
		Region        string `yaml:"region" env:"STORAGE_REGION"`
		Bucket        string `yaml:"bucket" env:"STORAGE_BUCKET"`
		AccessKey     string `yaml:"access_key" env:"STORAGE_ACCESS_KEY"`
		SecretKey     string `yaml:"secret_key" env:"STORAGE_SECRET_KEY"`
		PublicBaseURL string `yaml:"public_base_url" env:"STORAGE_PUBLIC_BASE_URL"`
	} `yaml:"storage"`
	AI struct {
		APIKey        string        `yaml:"api_key" env:"AI_API_KEY"`
		BaseURL       string        `yaml:"base_url" env:"AI_BASE_URL"`
		ChatModel     string        `yaml:"chat_model" env:"AI_CHAT_MODEL"`
		VisionModel   string        `yaml:"vision_model" env:"AI_VISION_MODEL"`
		ImageModel    string        `yaml:"image_model" env:"AI_IMAGE_MODEL"`
		Timeout       time.Duration `yaml:"timeout" env:"AI_TIMEOUT"`
		RatePerMinute int           `yaml:"rate_per_minute" env:"AI_RATE_PER_MINUTE"`
		Burst         int           `yaml:"burst" env:"AI_BURST"`
	} `yaml:"ai"`
	Firebase struct {
		CredentialsFile string `yaml:"credentials_file" env:"FIREBASE_CREDENTIALS_FILE"`
	} `yaml:"firebase"`
	Market struct {
		ScrapeURL     string        `yaml:"scrape_url" env:"MARKET_SCRAPE_URL"`
		PriceSelector string        `yaml:"price_selector" env:"MARKET_PRICE_SELECTOR"`
		CacheTTL      time.Duration `yaml:"cache_ttl" env:"MARKET_CACHE_TTL"`
	} `yaml:"market"`
	Scheduler struct {
		MarketRefresh string        `yaml:"market_refresh" env:"SCHEDULER_MARKET_REFRESH"`
		ImageBackfill string        `yaml:"image_backfill" env:"SCHEDULER_IMAGE_BACKFILL"`
		BatchSize     int           `yaml:"batch_size" env:"SCHEDULER_BATCH_SIZE"`
		StaleAfter    time.Duration `yaml:"stale_after" env:"SCHEDULER_STALE_AFTER"`
		JobTimeout    time.Duration `yaml:"job_timeout" env:"SCHEDULER_JOB_TIMEOUT"`
	} `yaml:"scheduler"`
	Timezone string `yaml:"timezone" env:"TIMEZONE"`
	Log      struct {
		Level string `yaml:"level" env:"LOG_LEVEL"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file or variable overrides a value.
func Default() Config {
	var cfg Config
	cfg.Server.Address = ":4001"
	cfg.Server.ReadTimeout = 10 * time.Second
	cfg.Server.WriteTimeout = 90 * time.Second
	cfg.Server.AllowedOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	cfg.Database.Driver = "pgx"
	cfg.Database.MaxOpenConns = 20
	cfg.Database.MaxIdleConns = 10
	cfg.AI.BaseURL = "https://api.openai.com/v1"
	cfg.AI.ChatModel = "gpt-4o-mini"
	cfg.AI.VisionModel = "gpt-4o-mini"
	cfg.AI.ImageModel = "gpt-image-1"
	cfg.AI.Timeout = 60 * time.Second
	cfg.AI.RatePerMinute = 6
	cfg.AI.Burst = 3
	cfg.Market.PriceSelector = ".price"
	cfg.Market.CacheTTL = 12 * time.Hour
	cfg.Scheduler.BatchSize = 25
	cfg.Scheduler.StaleAfter = 7 * 24 * time.Hour
	cfg.Scheduler.JobTimeout = 10 * time.Minute
	cfg.Timezone = "UTC"
	cfg.Log.Level = "info"
	return cfg
}

// LoadConfig reads the YAML file named by CONFIG_PATH (if present) and then
// applies environment overrides.
func LoadConfig() (Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}
	return Load(path)
}

func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("unmarshal config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("database.url is required")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	if c.AIEnabled() && (c.AI.RatePerMinute <= 0 || c.AI.Burst <= 0) {
		return errors.New("ai.rate_per_minute and ai.burst must be positive")
	}
	if c.Scheduler.BatchSize <= 0 {
		return errors.New("scheduler.batch_size must be positive")
	}
	return nil
}

func (c Config) AIEnabled() bool {
	return c.AI.APIKey != ""
}

func (c Config) StorageEnabled() bool {
	return c.Storage.Bucket != ""
}
