package config

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the server configuration, read from the environment with an
// optional .env file layered underneath.
type Config struct {
	Port         int      `envconfig:"PORT" default:"8080"`
	DatabaseURL  string   `envconfig:"DATABASE_URL"`  // empty selects the in-memory store
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS"` // empty disables event publishing
	KafkaTopic   string   `envconfig:"KAFKA_TOPIC" default:"movement_recorded"`
	LogLevel     string   `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads the configuration. A missing .env file is not an error.
func Load(logger *slog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file, using process environment")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
