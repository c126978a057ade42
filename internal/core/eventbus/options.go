// Package eventbus 实现事件总线
package eventbus

import pkgif "github.com/dep2p/go-flowbus/pkg/interfaces"

// ============================================================================
// 总线选项
// ============================================================================

const (
	// DefaultBufferSize 默认订阅缓冲区大小
	DefaultBufferSize = 64

	// DefaultDropWarnEvery 每丢弃多少个事件告警一次
	DefaultDropWarnEvery = 100
)

// Option 总线构造选项
type Option func(*Bus)

// WithBufferSize 设置默认订阅缓冲区大小
func WithBufferSize(size int) Option {
	return func(b *Bus) {
		if size > 0 {
			b.bufSize = size
		}
	}
}

// WithDropWarnEvery 设置慢消费者告警频率
func WithDropWarnEvery(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.dropWarnEvery = n
		}
	}
}

// WithMetrics 设置指标收集器
func WithMetrics(m *Metrics) Option {
	return func(b *Bus) {
		if m != nil {
			b.metrics = m
		}
	}
}

// ============================================================================
// 本地选项函数
// ============================================================================

// Sticky 粘性发布
//
// 这是一个便利函数，与 pkg/interfaces.Sticky 等效
func Sticky() pkgif.PostOpt {
	return pkgif.Sticky()
}

// Once 单次订阅
//
// 这是一个便利函数，与 pkg/interfaces.Once 等效
func Once() pkgif.SubscriptionOpt {
	return pkgif.Once()
}

// BufSize 设置订阅缓冲区大小
//
// 这是一个便利函数，与 pkg/interfaces.BufSize 等效
func BufSize(size int) pkgif.SubscriptionOpt {
	return pkgif.BufSize(size)
}

// Match 设置投递时的运行时匹配检查
//
// 这是一个便利函数，与 pkg/interfaces.Match 等效
func Match(fn pkgif.MatchFunc) pkgif.SubscriptionOpt {
	return pkgif.Match(fn)
}
