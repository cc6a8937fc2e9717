package config

import (
	"path"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/kochabx/vaxios/core/validator"
	"github.com/kochabx/vaxios/errors"
)

// FileLoader loads configuration from file
type FileLoader struct {
	viper     *viper.Viper
	validate  validator.Validator
	name      string
	paths     []string
	defaults  map[string]any
	envPrefix string
}

// FileOption configures a FileLoader
type FileOption func(*FileLoader)

// WithFileDefaults registers defaults for keys absent from the file
func WithFileDefaults(defaults map[string]any) FileOption {
	return func(l *FileLoader) {
		l.defaults = defaults
	}
}

// WithFileEnvPrefix sets the environment variable prefix
func WithFileEnvPrefix(prefix string) FileOption {
	return func(l *FileLoader) {
		l.envPrefix = prefix
	}
}

// NewFileLoader creates a new file loader. The config type is taken from
// the extension of name.
func NewFileLoader(name string, paths []string, v *viper.Viper, validate validator.Validator, opts ...FileOption) *FileLoader {
	l := &FileLoader{
		viper:    v,
		paths:    paths,
		name:     name,
		validate: validate,
	}
	for _, opt := range opts {
		opt(l)
	}

	extension := path.Ext(name)
	configType := strings.TrimPrefix(extension, ".")

	for _, configPath := range paths {
		v.AddConfigPath(configPath)
	}

	v.SetConfigName(strings.TrimSuffix(name, extension))
	v.SetConfigType(configType)

	// 环境变量只覆盖已知的 key, defaults 让所有 key 都已知
	for key, value := range l.defaults {
		v.SetDefault(key, value)
	}
	if l.envPrefix != "" {
		v.SetEnvPrefix(l.envPrefix)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return l
}

// Load implements Loader interface
func (l *FileLoader) Load(target any) error {
	if err := l.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return errors.NotFound("config file not found: %v", err)
		}
		return errors.Internal("config read error: %v", err)
	}

	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
	))
	if err := l.viper.Unmarshal(target, hook); err != nil {
		return errors.Internal("config parse error: %v", err)
	}

	if l.validate != nil {
		if err := l.validate.Struct(target); err != nil {
			return errors.BadRequest("config validation failed: %v", err).WithCause(err)
		}
	}

	return nil
}
