package logging_test

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/garrisonhq/garrison/pkg/logging"
)

func TestDefaultConfig(t *testing.T) {
	cfg := logging.DefaultConfig()
	if cfg.Level != "info" {
		t.Errorf("Expected default level info, got %s", cfg.Level)
	}
	if cfg.Format != "auto" {
		t.Errorf("Expected default format auto, got %s", cfg.Format)
	}
	if cfg.Output != "stderr" {
		t.Errorf("Expected default output stderr, got %s", cfg.Output)
	}
}

func TestNewLoggerFromConfig(t *testing.T) {
	tests := []struct {
		name  string
		cfg   *logging.Config
		level zerolog.Level
	}{
		{
			name:  "nil config falls back to defaults",
			cfg:   nil,
			level: zerolog.InfoLevel,
		},
		{
			name:  "debug level",
			cfg:   &logging.Config{Level: "debug", Format: "json"},
			level: zerolog.DebugLevel,
		},
		{
			name:  "unknown level falls back to info",
			cfg:   &logging.Config{Level: "shouting", Format: "json"},
			level: zerolog.InfoLevel,
		},
		{
			name:  "warn level",
			cfg:   &logging.Config{Level: "warn", Format: "json"},
			level: zerolog.WarnLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := logging.NewLoggerFromConfig(tt.cfg)
			if logger.GetLevel() != tt.level {
				t.Errorf("Expected level %s, got %s", tt.level, logger.GetLevel())
			}
		})
	}
}
