// Package config loads service configuration from configs/config.yaml, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Reasoning ReasoningConfig `mapstructure:"reasoning"`
	Image     ImageConfig     `mapstructure:"image"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Warmup    WarmupConfig    `mapstructure:"warmup"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

// CacheConfig selects the report cache backend.
// Driver is one of redis, postgres, sqlite, memory or none.
type CacheConfig struct {
	Driver     string        `mapstructure:"driver"`
	URL        string        `mapstructure:"url"`
	TTL        time.Duration `mapstructure:"ttl"`
	KeyPrefix  string        `mapstructure:"key_prefix"`
	MaxEntries int           `mapstructure:"max_entries"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Path            string        `mapstructure:"path"`
	URL             string        `mapstructure:"url"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN returns the driver-specific connection string.
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "postgres" {
		if c.URL != "" {
			return c.URL
		}
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
	}
	return c.Path
}

// ImageConfig bounds accepted uploads.
type ImageConfig struct {
	MaxBytes     int64    `mapstructure:"max_bytes"`
	AllowedTypes []string `mapstructure:"allowed_types"`
}

// StorageConfig configures the optional S3-compatible archive of uploaded images.
type StorageConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Type      string `mapstructure:"type"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	PublicURL string `mapstructure:"public_url"`
	Prefix    string `mapstructure:"prefix"`
}

type WarmupConfig struct {
	Workers   int `mapstructure:"workers"`
	BatchSize int `mapstructure:"batch_size"`
	// DishList is an optional text file offered to the admin warm-up endpoint
	// as source "default".
	DishList string `mapstructure:"dish_list"`
}

// DefaultMaxImageBytes is the largest accepted upload, 5 MiB.
const DefaultMaxImageBytes = 5 * 1024 * 1024

// DefaultAllowedImageTypes lists the accepted upload content types.
var DefaultAllowedImageTypes = []string{"image/png", "image/jpeg", "image/jpg", "image/webp"}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Secrets and connection strings usually arrive under their conventional names.
	_ = v.BindEnv("cache.url", "REDIS_URL")
	_ = v.BindEnv("cache.driver", "CACHE_DRIVER")
	_ = v.BindEnv("database.url", "DATABASE_URL")
	_ = v.BindEnv("reasoning.provider", "REASONING_PROVIDER")
	_ = v.BindEnv("reasoning.providers.openai.api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("reasoning.providers.openai.base_url", "OPENAI_BASE_URL")
	_ = v.BindEnv("reasoning.providers.gemini.api_key", "GOOGLE_API_KEY")
	_ = v.BindEnv("reasoning.providers.bedrock.region", "AWS_REGION")
	_ = v.BindEnv("storage.access_key", "S3_ACCESS_KEY")
	_ = v.BindEnv("storage.secret_key", "S3_SECRET_KEY")
	_ = v.BindEnv("storage.endpoint", "S3_ENDPOINT")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	for name, p := range cfg.Reasoning.Providers {
		p.ResolveEnvVars()
		cfg.Reasoning.Providers[name] = p
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})

	v.SetDefault("cache.driver", "redis")
	v.SetDefault("cache.url", "redis://localhost:6379/0")
	v.SetDefault("cache.ttl", time.Hour)
	v.SetDefault("cache.key_prefix", "")
	v.SetDefault("cache.max_entries", 1000)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/carbonbite.db")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("reasoning.provider", "openai")
	v.SetDefault("reasoning.timeout", 60*time.Second)
	v.SetDefault("reasoning.max_tokens", 4096)
	v.SetDefault("reasoning.temperature", 0.0)
	v.SetDefault("reasoning.providers.openai.model", DefaultOpenAIModel)
	v.SetDefault("reasoning.providers.openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("reasoning.providers.openai.api_key_env", "OPENAI_API_KEY")
	v.SetDefault("reasoning.providers.gemini.model", DefaultGeminiModel)
	v.SetDefault("reasoning.providers.gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("reasoning.providers.gemini.api_key_env", "GOOGLE_API_KEY")
	v.SetDefault("reasoning.providers.bedrock.model", DefaultBedrockModel)
	v.SetDefault("reasoning.providers.bedrock.region", "us-east-1")

	v.SetDefault("image.max_bytes", DefaultMaxImageBytes)
	v.SetDefault("image.allowed_types", DefaultAllowedImageTypes)

	v.SetDefault("storage.enabled", false)
	v.SetDefault("storage.bucket", "dish-images")
	v.SetDefault("storage.prefix", "uploads")

	v.SetDefault("warmup.workers", 4)
	v.SetDefault("warmup.batch_size", 10)
	v.SetDefault("warmup.dish_list", "")
}

// Validate checks the settings that would otherwise fail at request time.
func (c *Config) Validate() error {
	switch c.Cache.Driver {
	case "redis", "postgres", "sqlite", "memory", "none":
	default:
		return fmt.Errorf("cache: unknown driver %q", c.Cache.Driver)
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache: ttl must be positive, got %s", c.Cache.TTL)
	}
	if c.Image.MaxBytes <= 0 {
		return fmt.Errorf("image: max_bytes must be positive")
	}
	if len(c.Image.AllowedTypes) == 0 {
		return fmt.Errorf("image: allowed_types must not be empty")
	}
	return c.Reasoning.Validate()
}
