package log

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"

	"github.com/kochabx/vaxios/log/writer"
)

// Logger 诊断日志记录器
type Logger struct {
	zerolog.Logger
	closer io.Closer // 文件 writer 需要关闭
}

// Close 释放底层 writer
func (l *Logger) Close() error {
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

func init() {
	zerolog.TimeFieldFormat = time.DateTime
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
}

// newLogger 统一的 Logger 构建方法
func newLogger(w io.Writer, opts ...Option) *Logger {
	logger := &Logger{
		Logger: zerolog.New(w).With().Timestamp().Logger(),
	}

	for _, opt := range opts {
		opt(logger)
	}

	return logger
}

// New 创建输出到 stderr 的 Logger
func New(opts ...Option) *Logger {
	return newLogger(writer.Console(), opts...)
}

// NewWriter 创建输出到任意 writer 的 JSON Logger
func NewWriter(w io.Writer, opts ...Option) *Logger {
	return newLogger(w, opts...)
}

// Nop 创建丢弃所有输出的 Logger
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// NewFile 创建文件输出的 Logger
func NewFile(c FileConfig, opts ...Option) (*Logger, error) {
	c.applyDefaults()

	w, err := writer.Open(c.rotation())
	if err != nil {
		return nil, fmt.Errorf("failed to create file writer: %w", err)
	}

	logger := newLogger(w, opts...)
	logger.closer = w
	return logger, nil
}

// NewMulti 创建同时输出到文件和 stderr 的 Logger
func NewMulti(c FileConfig, opts ...Option) (*Logger, error) {
	c.applyDefaults()

	fw, err := writer.Open(c.rotation())
	if err != nil {
		return nil, fmt.Errorf("failed to create file writer: %w", err)
	}

	logger := newLogger(zerolog.MultiLevelWriter(fw, writer.Console()), opts...)
	logger.closer = fw
	return logger, nil
}
