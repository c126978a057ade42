// Package eventbus 实现事件总线
package eventbus

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-flowbus/config"
	pkgif "github.com/dep2p/go-flowbus/pkg/interfaces"
)

// ============================================================================
// Fx 模块
// ============================================================================

// Params Fx 模块输入参数
type Params struct {
	fx.In

	Config     *config.Config        `optional:"true"`
	Registerer prometheus.Registerer `optional:"true"`
}

// Result Fx 模块输出结果
type Result struct {
	fx.Out

	Bus      *Bus
	EventBus pkgif.EventBus
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("eventbus",
		fx.Provide(ProvideEventBus),
		fx.Invoke(registerLifecycle),
	)
}

// ProvideEventBus 提供 EventBus 实例
//
// 未注入配置时使用默认配置；未注入 Registerer 时指标只在内存中统计。
func ProvideEventBus(p Params) (Result, error) {
	cfg := p.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if err := cfg.EventBus.Validate(); err != nil {
		return Result{}, err
	}

	opts := []Option{
		WithBufferSize(cfg.EventBus.BufferSize),
		WithDropWarnEvery(cfg.EventBus.DropWarnEvery),
	}
	if cfg.Metrics.Enabled {
		m, err := NewMetrics(cfg.Metrics.Namespace, p.Registerer)
		if err != nil {
			return Result{}, fmt.Errorf("register eventbus metrics: %w", err)
		}
		opts = append(opts, WithMetrics(m))
	}

	bus := NewBus(opts...)
	return Result{
		Bus:      bus,
		EventBus: bus,
	}, nil
}

// lifecycleInput 生命周期输入参数
type lifecycleInput struct {
	fx.In
	LC     fx.Lifecycle
	Bus    *Bus
	Config *config.Config `optional:"true"`
}

// registerLifecycle 注册生命周期
func registerLifecycle(input lifecycleInput) {
	timeout := config.DefaultEventBusConfig().ShutdownTimeout.Duration()
	if input.Config != nil {
		timeout = input.Config.EventBus.ShutdownTimeout.Duration()
	}

	input.LC.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			logger.Debug("事件总线启动")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return closeWithTimeout(ctx, input.Bus, timeout)
		},
	})
}

// closeWithTimeout 关闭总线，最多等待 timeout（0 表示只受 ctx 约束）
func closeWithTimeout(ctx context.Context, bus *Bus, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	done := make(chan struct{})
	go func() {
		_ = bus.Close()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		logger.Warn("等待投递任务退出超时，仍有回调在执行", "timeout", timeout)
		return fmt.Errorf("close eventbus: %w", ctx.Err())
	}
}

// ============================================================================
// 模块元信息
// ============================================================================

const (
	// Version 模块版本
	Version = "1.0.0"
	// Name 模块名称
	Name = "eventbus"
	// Description 模块描述
	Description = "进程内事件总线，按类型标签发布订阅，支持粘性事件"
)
