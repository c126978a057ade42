package flowbus

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-flowbus/config"
	"github.com/dep2p/go-flowbus/pkg/types"
)

// Option 用户配置选项函数
type Option func(*options) error

// options 内部选项结构
type options struct {
	// 配置（选项按顺序修改）
	config *config.Config

	// 指标注册表，nil 表示由运行时创建
	registry *prometheus.Registry

	// 用户自定义 Fx 选项
	fxOptions []fx.Option
}

func newOptions() *options {
	return &options{
		config: config.NewConfig(),
	}
}

func (o *options) apply(opts ...Option) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(o); err != nil {
			return err
		}
	}
	return nil
}

// ════════════════════════════════════════════════════════════════════════════
//                              配置来源
// ════════════════════════════════════════════════════════════════════════════

// WithConfig 使用完整配置
//
// 配置被复制，之后修改 cfg 不影响运行时。
// 在它之后的选项继续在副本上修改。
func WithConfig(cfg *config.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return fmt.Errorf("%w: config is nil", types.ErrInvalidConfig)
		}
		o.config = config.CloneConfig(cfg)
		return nil
	}
}

// WithConfigFile 从文件加载配置（.json / .yaml / .yml）
func WithConfigFile(path string) Option {
	return func(o *options) error {
		cfg, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		o.config = cfg
		return nil
	}
}

// WithPreset 应用预设
func WithPreset(preset *Preset) Option {
	return func(o *options) error {
		if preset == nil {
			return fmt.Errorf("%w: preset is nil", types.ErrInvalidConfig)
		}
		preset.Apply(o.config)
		return nil
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              单项配置
// ════════════════════════════════════════════════════════════════════════════

// WithBufferSize 设置每个订阅的默认缓冲区大小
func WithBufferSize(size int) Option {
	return func(o *options) error {
		if size <= 0 {
			return fmt.Errorf("%w: buffer size must be positive, got %d", types.ErrInvalidConfig, size)
		}
		o.config.EventBus.BufferSize = size
		return nil
	}
}

// WithShutdownTimeout 设置关闭时等待投递任务退出的最长时间
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *options) error {
		o.config.EventBus.ShutdownTimeout = config.Duration(d)
		return nil
	}
}

// WithLogLevel 设置日志级别（仅写入配置，由调用方决定是否 Apply）
func WithLogLevel(level string) Option {
	return func(o *options) error {
		o.config.Log.Level = level
		return nil
	}
}

// WithMetricsNamespace 设置指标名前缀
func WithMetricsNamespace(ns string) Option {
	return func(o *options) error {
		o.config.Metrics.Enabled = true
		o.config.Metrics.Namespace = ns
		return nil
	}
}

// DisableMetrics 关闭指标统计
func DisableMetrics() Option {
	return func(o *options) error {
		o.config.Metrics.Enabled = false
		return nil
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              扩展
// ════════════════════════════════════════════════════════════════════════════

// WithRegistry 使用外部 Prometheus 注册表
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) error {
		o.registry = reg
		return nil
	}
}

// WithFxOptions 追加 Fx 选项
//
// 用于把自己的组件装配进同一个 Fx 应用，例如 fx.Invoke 注入 flowbus.EventBus。
func WithFxOptions(opts ...fx.Option) Option {
	return func(o *options) error {
		o.fxOptions = append(o.fxOptions, opts...)
		return nil
	}
}
