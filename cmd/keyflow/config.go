package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	configDirEnv     = "KEYFLOW_CONFIG_DIR"
	defaultConfigDir = "."
)

// Config holds defaults for flags that the user did not pass.
type Config struct {
	MasterKey string `env:"KEYFLOW_MASTER_KEY"`
	KeyInfo   string `env:"KEYFLOW_KEY_INFO"`
	LogLevel  string `env:"KEYFLOW_LOG_LEVEL" env-default:"warn"`
	Strict    bool   `env:"KEYFLOW_STRICT" env-default:"false"`

	GauldothKey   string `env:"KEYFLOW_GAULDOTH_KEY"`
	GauldothIVKey string `env:"KEYFLOW_GAULDOTH_IV_KEY"`
}

// LoadConfig loads an optional .env file from KEYFLOW_CONFIG_DIR and then
// reads the process environment. Variables already set win over the file.
// The returned path names the .env file that was loaded, if any.
func LoadConfig() (*Config, string, error) {
	dir := os.Getenv(configDirEnv)
	if dir == "" {
		dir = defaultConfigDir
	}

	path := filepath.Join(dir, ".env")
	if err := godotenv.Load(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, "", err
		}
		path = ""
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, "", err
	}
	return &cfg, path, nil
}
