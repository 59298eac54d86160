package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/msp993/backlog-zenith-project/internal/jobs"
	"github.com/msp993/backlog-zenith-project/internal/realtime"
	"github.com/msp993/backlog-zenith-project/internal/repository"
	"github.com/msp993/backlog-zenith-project/internal/service"
)

type Config struct {
	repository.PostgresCfg
	Realtime realtime.Cfg
	Jobs     jobs.Cfg
	Service  service.Cfg

	HTTPPort string `env:"PORT"    env-default:"8080"`
	AppEnv   string `env:"APP_ENV" env-default:"prod"`
}

// NewConfig reads the env file at ENV_PATH (./config/.env by default) and
// overlays the process environment. A missing file falls back to the
// environment alone.
func NewConfig() (*Config, error) {
	var cfg Config

	path := os.Getenv("ENV_PATH")
	if path == "" {
		path = "./config/.env"
	}

	err := cleanenv.ReadConfig(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return &cfg, nil
}
