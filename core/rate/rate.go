// Package rate 为出站请求限流, 计数保存在 redis 中以便多个进程共享
package rate

import "context"

// Limiter 决定一次调用能否发出
type Limiter interface {
	// Allow 申请 n 个配额
	Allow(ctx context.Context, n int) (bool, error)
}
