package facade

import (
	"time"

	vhttp "github.com/kochabx/vaxios/core/net/http"
	"github.com/kochabx/vaxios/log"
)

const (
	DefaultBaseURL = "http://127.0.0.1:8080/api"
	DefaultPrefix  = "$"
)

// DebugConfig enables diagnostic output per verb
type DebugConfig struct {
	Get    bool `mapstructure:"get_debug"`
	Post   bool `mapstructure:"post_debug"`
	Put    bool `mapstructure:"put_debug"`
	Patch  bool `mapstructure:"patch_debug"`
	Delete bool `mapstructure:"delete_debug"`
}

// ConnectionConfig is used to build the default client when no custom
// client is supplied. A zero Timeout means no timeout.
type ConnectionConfig struct {
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

// Config is fixed once the facade is built
type Config struct {
	// Client overrides the client built from Connection
	Client vhttp.Clienter
	// ThrowRawMessage replaces transport errors carrying a server response
	// with an error holding only the response's "message" field
	ThrowRawMessage bool
	Debug           DebugConfig
	Connection      ConnectionConfig
	// Prefix is prepended to method names registered by Install
	Prefix      string
	Logger      *log.Logger
	Middlewares []vhttp.Middleware
}

// DefaultConfig returns the documented defaults
func DefaultConfig() Config {
	return Config{
		Connection: ConnectionConfig{
			BaseURL: DefaultBaseURL,
		},
		Prefix: DefaultPrefix,
	}
}

// Option overrides part of the default configuration
type Option func(*Config)

// WithClient sets a custom client. Connection is then ignored.
func WithClient(client vhttp.Clienter) Option {
	return func(c *Config) {
		c.Client = client
	}
}

// WithThrowRawMessage toggles message unwrapping of transport errors
func WithThrowRawMessage(enable bool) Option {
	return func(c *Config) {
		c.ThrowRawMessage = enable
	}
}

// WithDebug replaces all per-verb debug flags
func WithDebug(debug DebugConfig) Option {
	return func(c *Config) {
		c.Debug = debug
	}
}

// WithBaseURL sets the base URL of the default client
func WithBaseURL(baseURL string) Option {
	return func(c *Config) {
		c.Connection.BaseURL = baseURL
	}
}

// WithTimeout sets the timeout of the default client
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Connection.Timeout = timeout
	}
}

// WithConnection replaces the connection settings
func WithConnection(conn ConnectionConfig) Option {
	return func(c *Config) {
		c.Connection = conn
	}
}

// WithPrefix sets the prefix of registered method names
func WithPrefix(prefix string) Option {
	return func(c *Config) {
		c.Prefix = prefix
	}
}

// WithLogger sets the logger used for debug output
func WithLogger(logger *log.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithMiddleware wraps the client, first middleware innermost
func WithMiddleware(mws ...vhttp.Middleware) Option {
	return func(c *Config) {
		c.Middlewares = append(c.Middlewares, mws...)
	}
}
