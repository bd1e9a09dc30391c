package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Env  string `env:"APP_ENV" envDefault:"production"`
	Port string `env:"PORT" envDefault:"8080"`

	// sqlite | mongo
	StoreDriver string `env:"STORE_DRIVER" envDefault:"sqlite"`
	DBDSN       string `env:"DB_DSN" envDefault:"kustomkeys.db"`
	MongoURL    string `env:"MONGO_URL" envDefault:"mongodb://localhost:27017"`
	MongoDB     string `env:"MONGO_DB" envDefault:"kustomkeys"`

	// disk | nats
	ImageBackend string `env:"IMAGE_BACKEND" envDefault:"disk"`
	MediaDir     string `env:"MEDIA_DIR" envDefault:"./web/media"`
	NATSURL      string `env:"NATS_URL" envDefault:"nats://localhost:4222"`
	NATSBucket   string `env:"NATS_BUCKET" envDefault:"product-images"`
	ThumbWidth   int    `env:"THUMB_WIDTH" envDefault:"400"`
	ThumbHeight  int    `env:"THUMB_HEIGHT" envDefault:"400"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`

	CSRF bool `env:"CSRF_ENABLED" envDefault:"true"`
}

// Development reports whether error pages may show internal detail.
func (c Config) Development() bool { return c.Env == "development" }

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.StoreDriver {
	case "sqlite", "mongo":
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	switch c.ImageBackend {
	case "disk", "nats":
	default:
		return fmt.Errorf("unknown IMAGE_BACKEND %q", c.ImageBackend)
	}
	if c.ThumbWidth <= 0 || c.ThumbHeight <= 0 {
		return errors.New("THUMB_WIDTH and THUMB_HEIGHT must be positive")
	}
	return nil
}
