package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/multierr"
)

// App FlowBus 应用接口
//
// App 提供应用级别的生命周期管理
type App interface {
	// Runtime 返回底层运行时
	Runtime() *Runtime

	// Wait 等待退出信号或 ctx 结束，然后停止应用
	Wait(ctx context.Context) error

	// Stop 停止应用
	Stop() error
}

// internalApp App 的内部实现
type internalApp struct {
	bootstrap *Bootstrap
	runtime   *Runtime
	hooks     *LifecycleManager
	stopOnce  sync.Once
	stopped   chan struct{}
	stopErr   error
}

// SetupFunc 在运行时启动后、启动钩子执行前调用
//
// 用于登记依赖运行时的组件（例如需要 EventBus 的发布者）。
type SetupFunc func(rt *Runtime, hooks *LifecycleManager) error

// RunApp 运行 FlowBus 应用
//
// 这是一个便捷函数：
// - 构建并启动运行时
// - 调用 setup 登记生命周期钩子，然后依次执行启动钩子
// - Wait 返回时逆序执行停止钩子并关闭运行时
//
// 示例:
//
//	a, err := app.RunApp(ctx, app.NewBootstrap(app.WithConfig(cfg)), func(rt *app.Runtime, hooks *app.LifecycleManager) error {
//	    hooks.AddHook(newPublisher(rt.EventBus).hook())
//	    return nil
//	})
//	if err != nil {
//	    return err
//	}
//	return a.Wait(ctx)
func RunApp(ctx context.Context, bootstrap *Bootstrap, setup SetupFunc) (App, error) {
	rt, err := bootstrap.BuildRuntime(ctx)
	if err != nil {
		return nil, fmt.Errorf("启动应用失败: %w", err)
	}

	hooks := NewLifecycleManager()
	if setup != nil {
		if err := setup(rt, hooks); err != nil {
			_ = bootstrap.Stop(context.Background())
			return nil, err
		}
	}
	if err := hooks.Start(ctx); err != nil {
		_ = bootstrap.Stop(context.Background())
		return nil, err
	}

	return &internalApp{
		bootstrap: bootstrap,
		runtime:   rt,
		hooks:     hooks,
		stopped:   make(chan struct{}),
	}, nil
}

// Runtime 返回底层运行时
func (a *internalApp) Runtime() *Runtime {
	return a.runtime
}

// Wait 等待应用收到退出信号
func (a *internalApp) Wait(ctx context.Context) error {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	select {
	case sig := <-signals:
		logger.Info("收到信号，正在退出", "signal", sig.String())
	case <-ctx.Done():
	case <-a.stopped:
		return a.stopErr
	}

	return a.Stop()
}

// Stop 停止应用
func (a *internalApp) Stop() error {
	a.stopOnce.Do(func() {
		defer close(a.stopped)

		ctx, cancel := context.WithTimeout(context.Background(), a.bootstrap.stopTimeout)
		defer cancel()

		// 先停业务钩子，再停运行时
		a.stopErr = multierr.Append(a.hooks.Stop(ctx), a.bootstrap.Stop(ctx))
	})
	return a.stopErr
}

// ============================================================================
//                              生命周期钩子
// ============================================================================

// LifecycleHook 生命周期钩子
type LifecycleHook struct {
	// Name 钩子名称，用于日志和错误信息
	Name string

	// OnStart 启动时调用
	OnStart func(context.Context) error

	// OnStop 停止时调用
	OnStop func(context.Context) error
}

// LifecycleManager 生命周期管理器
type LifecycleManager struct {
	hooks []LifecycleHook
	mu    sync.Mutex
}

// NewLifecycleManager 创建生命周期管理器
func NewLifecycleManager() *LifecycleManager {
	return &LifecycleManager{
		hooks: make([]LifecycleHook, 0),
	}
}

// AddHook 添加生命周期钩子
func (m *LifecycleManager) AddHook(hook LifecycleHook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, hook)
}

func (m *LifecycleManager) snapshot() []LifecycleHook {
	m.mu.Lock()
	defer m.mu.Unlock()
	hooks := make([]LifecycleHook, len(m.hooks))
	copy(hooks, m.hooks)
	return hooks
}

// Start 执行所有启动钩子
//
// 某个钩子失败时逆序停止已启动的钩子。
func (m *LifecycleManager) Start(ctx context.Context) error {
	hooks := m.snapshot()

	for i, hook := range hooks {
		if hook.OnStart == nil {
			continue
		}
		if err := hook.OnStart(ctx); err != nil {
			// 回滚已启动的钩子
			for j := i - 1; j >= 0; j-- {
				if hooks[j].OnStop != nil {
					_ = hooks[j].OnStop(ctx)
				}
			}
			return fmt.Errorf("启动钩子 %s 失败: %w", hook.Name, err)
		}
	}
	return nil
}

// Stop 执行所有停止钩子（逆序）
//
// 所有钩子都会执行，返回合并后的错误。
func (m *LifecycleManager) Stop(ctx context.Context) error {
	hooks := m.snapshot()

	var err error
	for i := len(hooks) - 1; i >= 0; i-- {
		if hooks[i].OnStop == nil {
			continue
		}
		if stopErr := hooks[i].OnStop(ctx); stopErr != nil {
			err = multierr.Append(err, fmt.Errorf("停止钩子 %s 失败: %w", hooks[i].Name, stopErr))
		}
	}
	return err
}
