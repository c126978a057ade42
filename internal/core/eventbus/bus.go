// Package eventbus 实现事件总线
package eventbus

import (
	"context"
	"sync"
	"sync/atomic"

	pkgif "github.com/dep2p/go-flowbus/pkg/interfaces"
	"github.com/dep2p/go-flowbus/pkg/lib/log"
	"github.com/dep2p/go-flowbus/pkg/types"
)

var logger = log.Logger("core/eventbus")

// ============================================================================
// 错误定义
// ============================================================================

var (
	// ErrClosed 事件总线已关闭
	ErrClosed = types.ErrBusClosed
	// ErrInvalidEventType 无效的事件类型
	ErrInvalidEventType = types.ErrInvalidEventType
	// ErrNilEvent 事件为空
	ErrNilEvent = types.ErrNilEvent
	// ErrNilContext 缺少执行上下文
	ErrNilContext = types.ErrNilContext
	// ErrNilHandler 缺少回调
	ErrNilHandler = types.ErrNilHandler
)

// ============================================================================
// Bus 实现
// ============================================================================

// Bus 事件总线
//
// 零值不可用，使用 NewBus 创建。同一进程通常只创建一个实例并通过依赖注入共享。
type Bus struct {
	reg *registry

	bufSize       int
	dropWarnEvery int
	metrics       *Metrics

	// mu 串行化订阅登记与 Close，保证 wg.Add 不会发生在 wg.Wait 之后
	mu        sync.RWMutex
	closed    atomic.Bool
	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// NewBus 创建新的事件总线
func NewBus(opts ...Option) *Bus {
	b := &Bus{
		bufSize:       DefaultBufferSize,
		dropWarnEvery: DefaultDropWarnEvery,
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.reg = newRegistry(func(typ types.EventType) *channel {
		b.metrics.channelCreated()
		logger.Debug("创建事件通道", "type", typ)
		return newChannel(typ, b.dropWarnEvery)
	})
	return b
}

// ============================================================================
// EventBus 接口实现
// ============================================================================

// Post 发布事件
//
// evt 为 nil 接口，或为 Type() 无法求值的类型化 nil 指针时返回 ErrNilEvent。
func (b *Bus) Post(evt types.Event, opts ...pkgif.PostOpt) error {
	typ, ok := eventType(evt)
	if !ok {
		return ErrNilEvent
	}
	if !typ.IsValid() {
		return ErrInvalidEventType
	}
	if b.closed.Load() {
		return ErrClosed
	}

	settings := &postSettings{}
	for _, opt := range opts {
		opt(settings)
	}

	c := b.reg.getOrCreate(typ)
	_, dropped := c.publish(evt, settings.Sticky)
	b.metrics.postedEvent(typ, settings.Sticky, dropped)

	return nil
}

// Subscribe 订阅事件
func (b *Bus) Subscribe(ctx context.Context, typ types.EventType, handler pkgif.Handler, opts ...pkgif.SubscriptionOpt) error {
	if ctx == nil {
		return ErrNilContext
	}
	if !typ.IsValid() {
		return ErrInvalidEventType
	}
	if handler == nil {
		return ErrNilHandler
	}

	settings := &subscriptionSettings{}
	for _, opt := range opts {
		opt(settings)
	}
	if settings.Buffer <= 0 {
		settings.Buffer = b.bufSize
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed.Load() {
		return ErrClosed
	}

	c := b.reg.getOrCreate(typ)
	sub := newSubscription(typ, handler, settings)

	// 挂载在返回前完成：Subscribe 返回之后的发布一定能被该订阅看到
	c.attach(sub)
	b.metrics.subscriptionOpened()
	logger.Debug("订阅事件", "type", typ, "subscription", sub.id, "once", sub.once, "buffer", settings.Buffer)

	b.wg.Add(1)
	go b.dispatch(ctx, c, sub)

	return nil
}

// ClearSticky 清除粘性事件
func (b *Bus) ClearSticky(typ types.EventType) {
	if c, ok := b.reg.lookup(typ); ok {
		c.clearSticky()
	}
}

// Sticky 返回粘性事件
func (b *Bus) Sticky(typ types.EventType) (types.Event, bool) {
	c, ok := b.reg.lookup(typ)
	if !ok {
		return nil, false
	}
	return c.sticky()
}

// EventTypes 返回所有已注册的事件类型
func (b *Bus) EventTypes() []types.EventType {
	return b.reg.types()
}

// Close 关闭事件总线
//
// 通知所有投递 goroutine 退出并等待。注册表和粘性事件保留，
// 但之后的 Post/Subscribe 返回 ErrClosed。可以多次调用。
func (b *Bus) Close() error {
	b.closeOnce.Do(func() {
		b.mu.Lock()
		b.closed.Store(true)
		close(b.done)
		b.mu.Unlock()

		b.wg.Wait()
		logger.Debug("事件总线已关闭", "channels", b.reg.len())
	})
	return nil
}

// ============================================================================
// 诊断
// ============================================================================

// ChannelStats 单个通道的统计
type ChannelStats struct {
	Type        types.EventType
	Subscribers int
	Dropped     int64
	HasSticky   bool
}

// Stats 返回所有通道的统计（按类型排序）
func (b *Bus) Stats() []ChannelStats {
	typs := b.reg.types()
	out := make([]ChannelStats, 0, len(typs))
	for _, typ := range typs {
		c, ok := b.reg.lookup(typ)
		if !ok {
			continue
		}
		_, hasSticky := c.sticky()
		out = append(out, ChannelStats{
			Type:        typ,
			Subscribers: c.subscribers(),
			Dropped:     c.dropped(),
			HasSticky:   hasSticky,
		})
	}
	return out
}

// eventType 取事件的类型标签
//
// 类型化 nil 指针经由值接收者方法（如嵌入的 BaseEvent）求值时会 panic，此时视为空事件。
func eventType(evt types.Event) (typ types.EventType, ok bool) {
	if evt == nil {
		return "", false
	}
	defer func() {
		if r := recover(); r != nil {
			typ, ok = "", false
		}
	}()
	return evt.Type(), true
}
