package rate

import (
	"context"
	_ "embed"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	//go:embed tokenbucket.lua
	tokenBucketLua string
	//go:embed slidingwindow.lua
	slidingWindowLua string

	tokenBucketScript   = redis.NewScript(tokenBucketLua)
	slidingWindowScript = redis.NewScript(slidingWindowLua)
)

type Option func(*scriptLimiter)

// WithClock 替换时间来源, 脚本按秒计算
func WithClock(now func() time.Time) Option {
	return func(l *scriptLimiter) {
		if now != nil {
			l.now = now
		}
	}
}

// scriptLimiter 在 redis 中原子地执行限流脚本
// 脚本参数为 args..., now, n, 返回 1 表示放行
type scriptLimiter struct {
	client redis.Scripter
	key    string
	script *redis.Script
	args   []any
	now    func() time.Time
}

func newScriptLimiter(client redis.Scripter, key string, script *redis.Script, args []any, opts []Option) *scriptLimiter {
	l := &scriptLimiter{
		client: client,
		key:    key,
		script: script,
		args:   args,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *scriptLimiter) Allow(ctx context.Context, n int) (bool, error) {
	args := append(slices.Clone(l.args), l.now().Unix(), n)
	result, err := l.script.Run(ctx, l.client, []string{l.key}, args...).Int64()
	if err != nil {
		return false, err
	}
	return result == 1, nil
}

// NewTokenBucket 每秒补充 perSecond 个令牌, 最多积累 capacity 个
func NewTokenBucket(client redis.Scripter, key string, capacity, perSecond int, opts ...Option) Limiter {
	return newScriptLimiter(client, key, tokenBucketScript, []any{capacity, max(perSecond, 1)}, opts)
}

// NewSlidingWindow 任意 window 时长内最多放行 limit 个
func NewSlidingWindow(client redis.Scripter, key string, window time.Duration, limit int, opts ...Option) Limiter {
	seconds := max(int(window/time.Second), 1)
	return newScriptLimiter(client, key, slidingWindowScript, []any{seconds, limit}, opts)
}
