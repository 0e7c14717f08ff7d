package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Settings are process-wide options read from SEIRB_* environment
// variables.
type Settings struct {
	LogLevel  string        `envconfig:"LOG_LEVEL" default:"info"`
	OutputDir string        `envconfig:"OUTPUT_DIR" default:"."`
	Timeout   time.Duration `envconfig:"TIMEOUT" default:"30s"`
}

func LoadSettings() (*Settings, error) {
	var s Settings
	if err := envconfig.Process("SEIRB", &s); err != nil {
		return nil, err
	}
	return &s, nil
}
