package internal

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/hbomb79/mediagrab/internal/api"
	"github.com/hbomb79/mediagrab/internal/http/autolink"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/mitchellh/go-homedir"
)

// Config is the struct used to contain the
// various user config supplied by file, or
// by the environment.
type Config struct {
	RestConfig api.RestConfig  `yaml:"api"`
	Autolink   autolink.Config `yaml:"autolink"`
	LogLevel   string          `yaml:"log_level" env:"LOG_LEVEL" env-default:"info" validate:"oneof=verbose debug info warn warning error fatal"`
}

// LoadConfig populates a Config from the YAML file at the path provided (a
// leading '~' is expanded to the users home directory), with environment
// variables taking precedence. If no path is provided, only the environment
// is consulted. The resulting configuration is validated before being returned.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	if configPath != "" {
		if err := config.LoadFromFile(configPath); err != nil {
			return nil, err
		}
	} else if err := cleanenv.ReadEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load configuration from environment - %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Loads a configuration file formatted in YAML in to a
// Config struct
func (config *Config) LoadFromFile(configPath string) error {
	path, err := homedir.Expand(configPath)
	if err != nil {
		return fmt.Errorf("failed to expand configuration path %s - %w", configPath, err)
	}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return fmt.Errorf("failed to load configuration from %s - %w", path, err)
	}

	return nil
}

// Validate checks the values of the configuration (and all nested configurations)
// against the constraints in their 'validate' struct tags.
func (config *Config) Validate() error {
	if err := validator.New().Struct(config); err != nil {
		return fmt.Errorf("configuration is invalid - %w", err)
	}

	return nil
}
