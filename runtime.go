package flowbus

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dep2p/go-flowbus/config"
	"github.com/dep2p/go-flowbus/internal/app"
	pkgif "github.com/dep2p/go-flowbus/pkg/interfaces"
	"github.com/dep2p/go-flowbus/pkg/lib/log"
	"github.com/dep2p/go-flowbus/pkg/types"
)

var logger = log.Logger("flowbus")

// ════════════════════════════════════════════════════════════════════════════
//                              运行时状态
// ════════════════════════════════════════════════════════════════════════════

// State 运行时状态
type State int

const (
	// StateIdle 已创建，未启动
	StateIdle State = iota

	// StateRunning 运行中
	StateRunning

	// StateStopped 已停止（不能再次启动）
	StateStopped
)

// String 返回状态的字符串表示
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// ════════════════════════════════════════════════════════════════════════════
//                              Runtime
// ════════════════════════════════════════════════════════════════════════════

// Runtime FlowBus 运行时
//
// 持有 Fx 应用和事件总线，本身实现 EventBus 接口：
// 启动前 Post/Subscribe 返回 ErrNotStarted，停止后返回 ErrBusClosed。
type Runtime struct {
	mu    sync.RWMutex
	state State

	bootstrap *app.Bootstrap
	rt        *app.Runtime
	config    *config.Config
	registry  *prometheus.Registry
}

var _ pkgif.EventBus = (*Runtime)(nil)

// New 创建运行时（不启动）
//
// 配置在此处校验，Start 时组装 Fx 应用。
func New(opts ...Option) (*Runtime, error) {
	o := newOptions()
	if err := o.apply(opts...); err != nil {
		return nil, err
	}
	if err := o.config.Validate(); err != nil {
		return nil, err
	}
	if o.registry == nil {
		o.registry = prometheus.NewRegistry()
	}

	return &Runtime{
		config:   o.config,
		registry: o.registry,
		bootstrap: app.NewBootstrap(
			app.WithConfig(o.config),
			app.WithRegistry(o.registry),
			app.WithFxOptions(o.fxOptions...),
			app.WithStopTimeout(o.config.EventBus.ShutdownTimeout.Duration()),
		),
	}, nil
}

// Start 创建并启动运行时
func Start(ctx context.Context, opts ...Option) (*Runtime, error) {
	r, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := r.Start(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// Start 启动运行时
func (r *Runtime) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch r.state {
	case StateRunning:
		return ErrAlreadyStarted
	case StateStopped:
		return ErrRuntimeClosed
	}

	rt, err := r.bootstrap.BuildRuntime(ctx)
	if err != nil {
		return err
	}
	r.rt = rt
	r.state = StateRunning
	logger.Info("FlowBus 已启动", "version", Version, "buffer_size", r.config.EventBus.BufferSize)
	return nil
}

// Stop 停止运行时
//
// 触发 Fx OnStop 关闭事件总线。未启动时直接进入停止状态。可以多次调用。
func (r *Runtime) Stop(ctx context.Context) error {
	r.mu.Lock()
	if r.state == StateStopped {
		r.mu.Unlock()
		return nil
	}
	wasRunning := r.state == StateRunning
	r.state = StateStopped
	rt := r.rt
	r.mu.Unlock()

	if !wasRunning {
		return nil
	}

	// 不持锁等待：回调里仍可能调用 Post
	err := rt.Stop(ctx)
	logger.Info("FlowBus 已停止")
	return err
}

// Close 停止运行时（EventBus 接口）
func (r *Runtime) Close() error {
	return r.Stop(context.Background())
}

// State 返回当前状态
func (r *Runtime) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Config 返回运行时使用的配置
func (r *Runtime) Config() *config.Config {
	return r.config
}

// Gatherer 返回指标采集器，可交给 promhttp 暴露
func (r *Runtime) Gatherer() prometheus.Gatherer {
	return r.registry
}

// EventBus 返回底层事件总线，未启动时返回 nil
func (r *Runtime) EventBus() pkgif.EventBus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.rt == nil {
		return nil
	}
	return r.rt.EventBus
}

// Stats 返回各事件通道的统计
func (r *Runtime) Stats() []ChannelStats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.rt == nil {
		return nil
	}
	return r.rt.Bus.Stats()
}

// ════════════════════════════════════════════════════════════════════════════
//                              EventBus 代理
// ════════════════════════════════════════════════════════════════════════════

func (r *Runtime) bus() (pkgif.EventBus, error) {
	if b := r.EventBus(); b != nil {
		return b, nil
	}
	return nil, ErrNotStarted
}

// Post 发布事件
func (r *Runtime) Post(evt types.Event, opts ...pkgif.PostOpt) error {
	b, err := r.bus()
	if err != nil {
		return err
	}
	return b.Post(evt, opts...)
}

// Subscribe 订阅事件
func (r *Runtime) Subscribe(ctx context.Context, typ types.EventType, handler pkgif.Handler, opts ...pkgif.SubscriptionOpt) error {
	b, err := r.bus()
	if err != nil {
		return err
	}
	return b.Subscribe(ctx, typ, handler, opts...)
}

// ClearSticky 清除粘性事件
func (r *Runtime) ClearSticky(typ types.EventType) {
	if b, err := r.bus(); err == nil {
		b.ClearSticky(typ)
	}
}

// Sticky 返回粘性事件
func (r *Runtime) Sticky(typ types.EventType) (types.Event, bool) {
	b, err := r.bus()
	if err != nil {
		return nil, false
	}
	return b.Sticky(typ)
}

// EventTypes 返回所有已创建通道的事件类型
func (r *Runtime) EventTypes() []types.EventType {
	b, err := r.bus()
	if err != nil {
		return nil
	}
	return b.EventTypes()
}
