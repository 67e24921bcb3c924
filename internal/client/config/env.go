package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const EnvPrefix = "AKHMADS_"

// parseEnv loads dotenv (".env" when empty; a missing file is fine) into the
// process environment, then overlays cfg with the AKHMADS_* variables that
// are set. Variables already in the environment win over the file.
func parseEnv(cfg *Config, dotenv string) {
	files := []string{}
	if dotenv != "" {
		files = append(files, dotenv)
	}
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(fmt.Errorf("load .env file: %w", err))
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		panic(fmt.Errorf("parse environment: %w", err))
	}
}
