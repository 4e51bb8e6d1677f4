package store

import (
	"github.com/rez-go/stev"
)

const EnvPrefixDefault = "STORAGE_"

// ServiceDefault is used when no backend is named in the configuration.
const ServiceDefault = "s3"

type Config struct {
	// Enabled selects the real client. A disabled configuration yields a
	// client whose operations only log.
	Enabled      bool   `env:"ENABLED" yaml:"enabled" json:"enabled"`
	StoreService string `env:"SERVICE" yaml:"store_service" json:"store_service"`

	// DetectContentType sniffs the content type of uploads made without
	// an explicit MIME type.
	DetectContentType bool   `env:"DETECT_CONTENT_TYPE" yaml:"detect_content_type" json:"detect_content_type"`
	NameGenerationKey string `env:"FILENAME_GENERATION_KEY" yaml:"filename_generation_key" json:"filename_generation_key"`

	Modules map[string]any `env:",map,squash" yaml:",omitempty,flow"`
}

// ParseConfigFromEnv populate the configuration by looking up the environment variables.
func ParseConfigFromEnv(prefix string) (cfg Config, err error) {
	cfg = ConfigSkeleton()
	err = stev.LoadEnv(prefix, &cfg)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ConfigSkeleton returns a disabled configuration holding the config
// skeleton of every registered module.
func ConfigSkeleton() Config {
	return Config{
		StoreService: ServiceDefault,
		Modules:      ModuleConfigSkeletons(),
	}
}

// ServiceConfig returns the configuration of the selected backend.
func (cfg Config) ServiceConfig() ServiceConfig {
	if cfg.Modules == nil {
		return nil
	}
	return cfg.Modules[cfg.serviceName()]
}

func (cfg Config) serviceName() string {
	if cfg.StoreService == "" {
		return ServiceDefault
	}
	return cfg.StoreService
}
