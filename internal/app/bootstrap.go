// Package app 提供 FlowBus 应用编排层
//
// app 包负责：
// - fx 模块组装
// - 依赖注入协调
// - 生命周期管理
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-flowbus/config"
	"github.com/dep2p/go-flowbus/internal/core/eventbus"
	pkgif "github.com/dep2p/go-flowbus/pkg/interfaces"
	"github.com/dep2p/go-flowbus/pkg/lib/log"
)

var logger = log.Logger("app/bootstrap")

// Bootstrap 应用引导程序
//
// Bootstrap 负责：
// - 校验配置
// - 组装 fx 模块
// - 管理应用生命周期
type Bootstrap struct {
	config   *config.Config
	registry *prometheus.Registry
	extra    []fx.Option

	startTimeout time.Duration
	stopTimeout  time.Duration

	fxApp    *fx.App
	eventBus pkgif.EventBus
	bus      *eventbus.Bus
}

// NewBootstrap 创建引导程序
func NewBootstrap(opts ...BootstrapOption) *Bootstrap {
	b := &Bootstrap{
		startTimeout: DefaultStartTimeout,
		stopTimeout:  DefaultStopTimeout,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.config == nil {
		b.config = config.NewConfig()
	}
	if b.registry == nil {
		b.registry = prometheus.NewRegistry()
	}
	return b
}

// BuildRuntime 构建并启动运行时，返回可 Stop 的句柄。
//
// Runtime.Stop() 会触发 fx OnStop，确保各模块按生命周期关闭。
func (b *Bootstrap) BuildRuntime(ctx context.Context) (*Runtime, error) {
	if err := b.config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	if b.fxApp != nil {
		return nil, fmt.Errorf("bootstrap already built")
	}

	modules := b.setupModules()
	modules = append(modules,
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: b.fxZapLogger()}
		}),
		fx.Populate(&b.eventBus, &b.bus),
	)
	app := fx.New(modules...)
	if err := app.Err(); err != nil {
		return nil, fmt.Errorf("构建应用失败: %w", err)
	}

	startCtx, cancel := context.WithTimeout(ctx, b.startTimeout)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return nil, fmt.Errorf("启动应用失败: %w", err)
	}
	b.fxApp = app
	logger.Debug("运行时已启动", "buffer_size", b.config.EventBus.BufferSize, "metrics", b.config.Metrics.Enabled)

	return &Runtime{
		EventBus: b.eventBus,
		Bus:      b.bus,
		Config:   b.config,
		Gatherer: b.registry,
		stop:     b.Stop,
	}, nil
}

// Stop 停止应用
func (b *Bootstrap) Stop(ctx context.Context) error {
	if b.fxApp == nil {
		return nil
	}

	stopCtx, cancel := context.WithTimeout(ctx, b.stopTimeout)
	defer cancel()

	return b.fxApp.Stop(stopCtx)
}

// setupModules 组装所有 fx 模块
func (b *Bootstrap) setupModules() []fx.Option {
	modules := []fx.Option{
		// 配置模块（Tier 0）
		ConfigModule(b.config),

		// 指标模块（Tier 1）
		MetricsModule(b.registry),

		// 核心模块（Tier 2）
		CoreModules(),
	}
	return append(modules, b.extra...)
}

// fxZapLogger Fx 事件日志
//
// 只有 debug 级别时输出 Fx 自身的装配日志，避免干扰用户日志。
func (b *Bootstrap) fxZapLogger() *zap.Logger {
	level, err := log.ParseLevel(b.config.Log.Level)
	if err != nil || level > slog.LevelDebug {
		return zap.NewNop()
	}
	zl, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return zl
}
