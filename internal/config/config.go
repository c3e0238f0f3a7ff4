package config

import (
	"fmt"
	"time"

	"ctchen222/Time-Travel-Tic-Tac-Toe/internal/validator"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	HTTP      HTTP      `yaml:"http"`
	Log       Log       `yaml:"log"`
	Session   Session   `yaml:"session"`
	Telemetry Telemetry `yaml:"telemetry"`
}

type HTTP struct {
	Addr            string        `yaml:"addr" env:"HTTP_ADDR" env-default:":8080" validate:"required"`
	ShutdownTimeout time.Duration `yaml:"shutdown-timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s" validate:"min=1ms"`
	GinMode         string        `yaml:"gin-mode" env:"GIN_MODE" env-default:"release" validate:"oneof=debug release test"`
}

type Log struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text" validate:"oneof=text json"`
}

// Session bounds the live games held by the hub.
type Session struct {
	MaxSessions       int           `yaml:"max-sessions" env:"MAX_SESSIONS" env-default:"1000" validate:"min=1"`
	HeartbeatInterval time.Duration `yaml:"heartbeat-interval" env:"HEARTBEAT_INTERVAL" env-default:"10s" validate:"min=1ms"`
}

type Telemetry struct {
	// Exporter selects where traces, metrics and logs go.
	Exporter       string `yaml:"exporter" env:"OTEL_EXPORTER" env-default:"none" validate:"oneof=none stdout otlp"`
	Endpoint       string `yaml:"endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT" env-default:"otel-collector:4317" validate:"required_if=Exporter otlp"`
	ServiceName    string `yaml:"service-name" env:"OTEL_SERVICE_NAME" env-default:"time-travel-tic-tac-toe" validate:"required"`
	ServiceVersion string `yaml:"service-version" env:"SERVICE_VERSION" env-default:"v0.1.0"`
}

// Load reads the configuration from the YAML file at path, overridden by the
// environment. With an empty path only the environment is read.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	var err error
	if path == "" {
		err = cleanenv.ReadEnv(cfg)
	} else {
		err = cleanenv.ReadConfig(path, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}

	if err := validator.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad is like Load but panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}
