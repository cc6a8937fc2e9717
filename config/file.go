package config

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/kochabx/vaxios/core/net/http/resty"
	"github.com/kochabx/vaxios/core/validator"
	"github.com/kochabx/vaxios/errors"
	"github.com/kochabx/vaxios/facade"
	"github.com/kochabx/vaxios/log"
)

// 可选的 transport 与日志输出
const (
	TransportDefault = "default"
	TransportResty   = "resty"

	OutputConsole = "console"
	OutputFile    = "file"
	OutputMulti   = "multi"
)

// File is the on-disk form of the facade configuration
type File struct {
	ThrowRawMessage bool                    `mapstructure:"throw_raw_message"`
	Prefix          string                  `mapstructure:"prefix"`
	Transport       string                  `mapstructure:"transport" validate:"oneof=default resty"`
	Debug           facade.DebugConfig      `mapstructure:"debug"`
	Connection      facade.ConnectionConfig `mapstructure:"connection"`
	Log             LogConfig               `mapstructure:"log"`
}

// LogConfig selects where debug output goes
type LogConfig struct {
	Output string         `mapstructure:"output" validate:"oneof=console file multi"`
	Level  string         `mapstructure:"level" validate:"oneof=trace debug info warn error"`
	File   log.FileConfig `mapstructure:"file"`
}

// Defaults returns the value of every known key
func Defaults() map[string]any {
	return map[string]any{
		"throw_raw_message":   false,
		"prefix":              facade.DefaultPrefix,
		"transport":           TransportDefault,
		"debug.get_debug":     false,
		"debug.post_debug":    false,
		"debug.put_debug":     false,
		"debug.patch_debug":   false,
		"debug.delete_debug":  false,
		"connection.base_url": facade.DefaultBaseURL,
		"connection.timeout":  time.Duration(0),
		"log.output":          OutputConsole,
		"log.level":           "info",
		"log.file.filepath":   "log",
		"log.file.filename":   "vaxios",
		"log.file.file_ext":   "log",
	}
}

// Load reads name from paths, with VAXIOS_* environment overrides
func Load(name string, paths ...string) (*File, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	f := new(File)
	v := viper.New()
	loader := NewFileLoader(name, paths, v, validator.Validate,
		WithFileDefaults(Defaults()), WithFileEnvPrefix(DefaultEnvPrefix))
	if err := New(f, WithViper(v), WithLoader(loader)).Load(); err != nil {
		return nil, err
	}

	return f, nil
}

// Logger builds the logger described by the log section
func (f *File) Logger() (*log.Logger, error) {
	level, err := zerolog.ParseLevel(f.Log.Level)
	if err != nil {
		return nil, errors.BadRequest("invalid log level %q", f.Log.Level).WithCause(err)
	}

	switch f.Log.Output {
	case OutputFile:
		return log.NewFile(f.Log.File, log.WithLevel(level))
	case OutputMulti:
		return log.NewMulti(f.Log.File, log.WithLevel(level))
	default:
		return log.New(log.WithLevel(level)), nil
	}
}

// Options converts the file into facade options. The logger is created
// here, close it through the facade's Config().Logger when done.
func (f *File) Options() ([]facade.Option, error) {
	logger, err := f.Logger()
	if err != nil {
		return nil, err
	}

	opts := []facade.Option{
		facade.WithThrowRawMessage(f.ThrowRawMessage),
		facade.WithPrefix(f.Prefix),
		facade.WithDebug(f.Debug),
		facade.WithConnection(f.Connection),
		facade.WithLogger(logger),
	}

	if f.Transport == TransportResty {
		opts = append(opts, facade.WithClient(resty.New(f.Connection.BaseURL,
			resty.WithTimeout(f.Connection.Timeout))))
	}

	return opts, nil
}
