package config

import (
	"github.com/spf13/viper"

	"github.com/kochabx/vaxios/core/validator"
)

const (
	DefaultName      = "vaxios.yaml"
	DefaultEnvPrefix = "VAXIOS"
)

// Config loads a configuration file once into target.
// The result is not watched, a facade's configuration is fixed after construction.
type Config struct {
	viper     *viper.Viper        // viper instance for configuration management
	validate  validator.Validator // validator for configuration validation
	target    any                 // target is the destination where the configuration will be unmarshalled
	loader    Loader              // loader is responsible for loading configuration
	defaults  map[string]any      // defaults keyed by dotted path
	envPrefix string
}

// New creates a new Config instance with the given options
// If no loader is provided, a default FileLoader will be created with:
//   - filename: "vaxios.yaml"
//   - paths: ["."]
func New(target any, opts ...Option) *Config {
	c := &Config{
		viper:     viper.New(),
		validate:  validator.Validate,
		target:    target,
		envPrefix: DefaultEnvPrefix,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.loader == nil {
		c.loader = NewFileLoader(DefaultName, []string{"."}, c.viper, c.validate,
			WithFileDefaults(c.defaults), WithFileEnvPrefix(c.envPrefix))
	}

	return c
}

// Load reads the configuration using the configured loader
func (c *Config) Load() error {
	return c.loader.Load(c.target)
}

// GetViper returns the underlying viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.viper
}
