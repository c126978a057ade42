package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/dep2p/go-flowbus/pkg/interfaces"
	"github.com/dep2p/go-flowbus/pkg/types"
)

// MockEventBus 模拟 EventBus 接口实现
//
// 用于测试需要事件总线依赖的组件。默认行为是同步投递：
// Post 在调用方 goroutine 中直接调用匹配的回调，便于断言。
type MockEventBus struct {
	mu sync.RWMutex

	// 存储
	subscriptions map[types.EventType][]*MockSubscription
	sticky        map[types.EventType]types.Event
	closed        bool

	// 可覆盖的方法
	PostFunc      func(evt types.Event, opts ...interfaces.PostOpt) error
	SubscribeFunc func(ctx context.Context, typ types.EventType, handler interfaces.Handler, opts ...interfaces.SubscriptionOpt) error
	CloseFunc     func() error

	// 调用记录
	PostCalls        []PostCall
	SubscribeCalls   []types.EventType
	ClearStickyCalls []types.EventType
}

// PostCall 一次 Post 调用
type PostCall struct {
	Event  types.Event
	Sticky bool
}

// MockSubscription 模拟订阅
type MockSubscription struct {
	ctx      context.Context
	typ      types.EventType
	handler  interfaces.Handler
	settings interfaces.SubscriptionSettings

	mu        sync.Mutex
	delivered int
	done      bool
}

// NewMockEventBus 创建带有默认值的 MockEventBus
func NewMockEventBus() *MockEventBus {
	return &MockEventBus{
		subscriptions: make(map[types.EventType][]*MockSubscription),
		sticky:        make(map[types.EventType]types.Event),
	}
}

// Post 发布事件
func (m *MockEventBus) Post(evt types.Event, opts ...interfaces.PostOpt) error {
	settings := &interfaces.PostSettings{}
	for _, opt := range opts {
		opt(settings)
	}

	m.mu.Lock()
	m.PostCalls = append(m.PostCalls, PostCall{Event: evt, Sticky: settings.Sticky})
	m.mu.Unlock()

	if m.PostFunc != nil {
		return m.PostFunc(evt, opts...)
	}
	if evt == nil {
		return types.ErrNilEvent
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return types.ErrBusClosed
	}
	if settings.Sticky {
		m.ensureMaps()
		m.sticky[evt.Type()] = evt
	}
	subs := append([]*MockSubscription(nil), m.subscriptions[evt.Type()]...)
	m.mu.Unlock()

	for _, sub := range subs {
		sub.deliver(evt)
	}
	return nil
}

// Subscribe 订阅事件
//
// 若存在粘性事件，在返回前同步投递给回调。
func (m *MockEventBus) Subscribe(ctx context.Context, typ types.EventType, handler interfaces.Handler, opts ...interfaces.SubscriptionOpt) error {
	m.mu.Lock()
	m.SubscribeCalls = append(m.SubscribeCalls, typ)
	m.mu.Unlock()

	if m.SubscribeFunc != nil {
		return m.SubscribeFunc(ctx, typ, handler, opts...)
	}
	if ctx == nil {
		return types.ErrNilContext
	}
	if handler == nil {
		return types.ErrNilHandler
	}

	sub := &MockSubscription{ctx: ctx, typ: typ, handler: handler}
	for _, opt := range opts {
		opt(&sub.settings)
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return types.ErrBusClosed
	}
	m.ensureMaps()
	m.subscriptions[typ] = append(m.subscriptions[typ], sub)
	last, hasLast := m.sticky[typ]
	m.mu.Unlock()

	if hasLast {
		sub.deliver(last)
	}
	return nil
}

// ClearSticky 清除粘性事件
func (m *MockEventBus) ClearSticky(typ types.EventType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearStickyCalls = append(m.ClearStickyCalls, typ)
	if m.sticky != nil {
		delete(m.sticky, typ)
	}
}

// Sticky 返回粘性事件
func (m *MockEventBus) Sticky(typ types.EventType) (types.Event, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	evt, ok := m.sticky[typ]
	return evt, ok
}

// EventTypes 返回订阅过或粘性发布过的事件类型
func (m *MockEventBus) EventTypes() []types.EventType {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[types.EventType]struct{})
	for typ := range m.subscriptions {
		seen[typ] = struct{}{}
	}
	for typ := range m.sticky {
		seen[typ] = struct{}{}
	}
	out := make([]types.EventType, 0, len(seen))
	for typ := range seen {
		out = append(out, typ)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Close 关闭
func (m *MockEventBus) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// ensureMaps 零值 MockEventBus 也可直接使用（调用方持有 m.mu）
func (m *MockEventBus) ensureMaps() {
	if m.subscriptions == nil {
		m.subscriptions = make(map[types.EventType][]*MockSubscription)
	}
	if m.sticky == nil {
		m.sticky = make(map[types.EventType]types.Event)
	}
}

// ============================================================================
// MockSubscription 方法
// ============================================================================

// deliver 同步投递，遵守 ctx、Match 和 Once
func (s *MockSubscription) deliver(evt types.Event) {
	s.mu.Lock()
	if s.done || s.ctx.Err() != nil {
		s.mu.Unlock()
		return
	}
	if evt.Type() != s.typ || (s.settings.Match != nil && !s.settings.Match(evt)) {
		s.mu.Unlock()
		return
	}
	s.delivered++
	if s.settings.Once {
		s.done = true
	}
	s.mu.Unlock()

	s.handler(evt)
}

// Delivered 返回已投递次数
func (s *MockSubscription) Delivered() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.delivered
}

// ============================================================================
// 测试辅助方法
// ============================================================================

// GetSubscribers 返回指定事件类型的订阅者数量
func (m *MockEventBus) GetSubscribers(typ types.EventType) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscriptions[typ])
}

// Subscriptions 返回指定事件类型的订阅
func (m *MockEventBus) Subscriptions(typ types.EventType) []*MockSubscription {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*MockSubscription(nil), m.subscriptions[typ]...)
}

// Posted 返回 Post 调用记录的副本
func (m *MockEventBus) Posted() []PostCall {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]PostCall(nil), m.PostCalls...)
}

// 确保实现接口
var _ interfaces.EventBus = (*MockEventBus)(nil)
