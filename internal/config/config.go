package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// EnvConfigPath names the variable consulted when no config path is given
const EnvConfigPath = "CONFIG_PATH"

type Config struct {
	Env     string  `yaml:"env" env:"APP_ENV" env-default:"local"`
	HTTP    HTTP    `yaml:"http"`
	SQLite  SQLite  `yaml:"sqlite"`
	Assets  Assets  `yaml:"assets"`
	Session Session `yaml:"session"`
	Log     Log     `yaml:"log"`
}

type HTTP struct {
	Addr            string        `yaml:"addr" env:"HTTP_ADDR" env-default:":8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type SQLite struct {
	Path string `yaml:"path" env:"SQLITE_DB_PATH" env-default:"./catalog.db"`
}

// Assets locates uploaded product images on disk and on the web
type Assets struct {
	Dir       string `yaml:"dir" env:"ASSETS_DIR" env-default:"./public/image"`
	URLPrefix string `yaml:"url_prefix" env:"ASSETS_URL_PREFIX" env-default:"/image"`
}

type Session struct {
	Secret string `yaml:"secret" env:"SESSION_SECRET" env-default:"catalog-development-secret-change-me"`
}

type Log struct {
	Level      string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format     string `yaml:"format" env:"LOG_FORMAT" env-default:"console"`
	File       string `yaml:"file" env:"LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb" env:"LOG_MAX_SIZE_MB" env-default:"64"`
	MaxBackups int    `yaml:"max_backups" env:"LOG_MAX_BACKUPS" env-default:"7"`
	MaxAgeDays int    `yaml:"max_age_days" env:"LOG_MAX_AGE_DAYS" env-default:"7"`
}

// Load reads configuration from path, or from $CONFIG_PATH when path is empty.
// Without a file only environment variables and defaults apply.
// A .env file in the working directory is loaded first if present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}

	var cfg Config
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read config from environment: %w", err)
		}
	} else {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Assets.Dir == "" {
		return fmt.Errorf("assets.dir cannot be empty")
	}
	if c.Assets.URLPrefix == "" || c.Assets.URLPrefix[0] != '/' {
		return fmt.Errorf("assets.url_prefix must start with /, got %q", c.Assets.URLPrefix)
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		return fmt.Errorf("http.shutdown_timeout must be positive")
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	return nil
}
