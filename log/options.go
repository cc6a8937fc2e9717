package log

import (
	"github.com/rs/zerolog"
)

// Option Logger 选项函数
type Option func(*Logger)

// WithLevel 设置日志级别
func WithLevel(level zerolog.Level) Option {
	return func(l *Logger) {
		l.Logger = l.Logger.Level(level)
	}
}

// WithCaller 记录调用位置
func WithCaller() Option {
	return func(l *Logger) {
		l.Logger = l.Logger.With().Caller().Logger()
	}
}

// WithField 为所有日志附加固定字段
func WithField(key, value string) Option {
	return func(l *Logger) {
		l.Logger = l.Logger.With().Str(key, value).Logger()
	}
}
