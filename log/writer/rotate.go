package writer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"gopkg.in/natefinch/lumberjack.v2"
)

// RotateMode 日志轮转模式
type RotateMode int

const (
	// RotateModeTime 按时间轮转
	RotateModeTime RotateMode = iota
	// RotateModeSize 按大小轮转
	RotateModeSize
)

func (m RotateMode) String() string {
	switch m {
	case RotateModeTime:
		return "time"
	case RotateModeSize:
		return "size"
	default:
		return "unknown"
	}
}

// MarshalText 与 UnmarshalText 对称
func (m RotateMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText 解析 "time" 或 "size", 空值视为 time
func (m *RotateMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "", "time":
		*m = RotateModeTime
	case "size":
		*m = RotateModeSize
	default:
		return fmt.Errorf("unknown rotate mode: %q", text)
	}
	return nil
}

// Rotation 描述一个轮转日志文件 <Dir>/<Name>.<Ext>
type Rotation struct {
	Dir  string
	Name string
	Ext  string
	Mode RotateMode

	// RotateModeTime
	Every time.Duration // 轮转间隔
	Keep  time.Duration // 旧文件保留时长

	// RotateModeSize
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Open 打开轮转文件, Dir 不存在时创建
func Open(r Rotation) (io.WriteCloser, error) {
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir %s: %w", r.Dir, err)
	}

	switch r.Mode {
	case RotateModeTime:
		w, err := rotatelogs.New(
			r.path("%Y%m%d%H%M"),
			rotatelogs.WithLinkName(r.path("")),
			rotatelogs.WithMaxAge(r.Keep),
			rotatelogs.WithRotationTime(r.Every),
		)
		if err != nil {
			return nil, fmt.Errorf("create time rotate writer: %w", err)
		}
		return w, nil
	case RotateModeSize:
		return &lumberjack.Logger{
			Filename:   r.path(""),
			MaxSize:    r.MaxSizeMB,
			MaxBackups: r.MaxBackups,
			MaxAge:     r.MaxAgeDays,
			Compress:   r.Compress,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported rotate mode: %v", r.Mode)
	}
}

// path 时间轮转时 layout 为 strftime 格式, 插在文件名与扩展名之间
func (r Rotation) path(layout string) string {
	name := r.Name
	if layout != "" {
		name += "." + layout
	}
	return filepath.Join(r.Dir, name+"."+r.Ext)
}
