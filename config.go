package hilt

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.trai.ch/zerr"
)

const (
	EnvLogLevel = "HILT_LOG_LEVEL"
	EnvRecord   = "HILT_RECORD"
)

// Config is the environment-driven part of a container's setup.
type Config struct {
	LogLevel slog.Level
	Record   bool
}

// LoadConfig loads the given .env files (".env" by default) and reads
// HILT_LOG_LEVEL and HILT_RECORD. Missing files are skipped. Variables already
// set in the environment win over the files.
func LoadConfig(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, zerr.With(zerr.Wrap(err, "failed to load env file"), "file", f)
		}
	}

	cfg := &Config{LogLevel: slog.LevelInfo}

	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "invalid log level"), "var", EnvLogLevel)
		}
	}

	if v, ok := os.LookupEnv(EnvRecord); ok && v != "" {
		record, err := strconv.ParseBool(v)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "invalid boolean"), "var", EnvRecord)
		}
		cfg.Record = record
	}

	return cfg, nil
}

// Options converts the config into container options. The logger writes text
// to stderr at the configured level.
func (cfg *Config) Options() []Option {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	opts := []Option{WithLogger(logger)}
	if cfg.Record {
		opts = append(opts, WithRecording())
	}
	return opts
}
