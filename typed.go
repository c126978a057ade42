package flowbus

import (
	"context"

	pkgif "github.com/dep2p/go-flowbus/pkg/interfaces"
	"github.com/dep2p/go-flowbus/pkg/types"
)

// SubscribeAs 订阅事件并把回调参数断言为 T
//
// 标签相同但 Go 类型不是 T 的事件会被跳过，不会触发回调。
// 对 Once 订阅而言，被跳过的事件不算作首次投递。
func SubscribeAs[T types.Event](ctx context.Context, bus pkgif.EventBus, typ types.EventType, handler func(T), opts ...pkgif.SubscriptionOpt) error {
	if bus == nil {
		return ErrNotStarted
	}
	if handler == nil {
		return ErrNilHandler
	}

	all := make([]pkgif.SubscriptionOpt, 0, len(opts)+1)
	all = append(all, opts...)
	all = append(all, pkgif.Match(func(evt types.Event) bool {
		_, ok := evt.(T)
		return ok
	}))

	return bus.Subscribe(ctx, typ, func(evt types.Event) {
		handler(evt.(T))
	}, all...)
}

// StickyAs 返回断言为 T 的粘性事件
//
// 不存在或类型不是 T 时返回零值和 false。
func StickyAs[T types.Event](bus pkgif.EventBus, typ types.EventType) (T, bool) {
	var zero T
	if bus == nil {
		return zero, false
	}
	evt, ok := bus.Sticky(typ)
	if !ok {
		return zero, false
	}
	v, ok := evt.(T)
	if !ok {
		return zero, false
	}
	return v, true
}
