package app

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-flowbus/config"
)

// BootstrapOption Bootstrap 配置选项
type BootstrapOption func(*Bootstrap)

// WithConfig 设置配置
func WithConfig(cfg *config.Config) BootstrapOption {
	return func(b *Bootstrap) {
		b.config = cfg
	}
}

// WithRegistry 设置指标注册表
//
// 未设置时 Bootstrap 创建独立的 prometheus.Registry。
func WithRegistry(reg *prometheus.Registry) BootstrapOption {
	return func(b *Bootstrap) {
		b.registry = reg
	}
}

// WithFxOptions 追加用户自定义 Fx 选项
func WithFxOptions(opts ...fx.Option) BootstrapOption {
	return func(b *Bootstrap) {
		b.extra = append(b.extra, opts...)
	}
}

// WithStartTimeout 设置 Fx 启动超时
func WithStartTimeout(d time.Duration) BootstrapOption {
	return func(b *Bootstrap) {
		if d > 0 {
			b.startTimeout = d
		}
	}
}

// WithStopTimeout 设置 Fx 停止超时
func WithStopTimeout(d time.Duration) BootstrapOption {
	return func(b *Bootstrap) {
		if d > 0 {
			b.stopTimeout = d
		}
	}
}

const (
	// DefaultStartTimeout 默认启动超时
	DefaultStartTimeout = 30 * time.Second

	// DefaultStopTimeout 默认停止超时
	DefaultStopTimeout = 30 * time.Second
)
