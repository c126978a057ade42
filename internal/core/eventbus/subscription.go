// Package eventbus 实现事件总线
package eventbus

import (
	"context"

	"github.com/google/uuid"

	pkgif "github.com/dep2p/go-flowbus/pkg/interfaces"
	"github.com/dep2p/go-flowbus/pkg/types"
)

// ============================================================================
// Subscription 实现
// ============================================================================

// subscription 单个订阅者
type subscription struct {
	id      string
	typ     types.EventType
	once    bool
	handler pkgif.Handler
	match   pkgif.MatchFunc
	in      chan types.Event
}

func newSubscription(typ types.EventType, handler pkgif.Handler, settings *subscriptionSettings) *subscription {
	return &subscription{
		id:      uuid.NewString(),
		typ:     typ,
		once:    settings.Once,
		handler: handler,
		match:   settings.Match,
		in:      make(chan types.Event, settings.Buffer),
	}
}

// accepts 投递时的类型检查
//
// 通道已按标签选择，这里再检查事件自身的标签和 Match 条件。
func (s *subscription) accepts(evt types.Event) bool {
	if evt == nil || evt.Type() != s.typ {
		return false
	}
	return s.match == nil || s.match(evt)
}

// deliver 调用回调
//
// 回调 panic 时返回 false，由调用方结束该订阅。
func (s *subscription) deliver(evt types.Event) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("订阅回调 panic，结束订阅",
				"type", s.typ,
				"subscription", s.id,
				"panic", r)
			ok = false
		}
	}()

	s.handler(evt)
	return true
}

// dispatch 投递循环
//
// 在独立 goroutine 中运行，直到：
//   - ctx 结束
//   - 总线关闭
//   - Once 订阅完成首次投递
//   - 回调 panic
//
// 退出时把订阅从通道上移除。
func (b *Bus) dispatch(ctx context.Context, c *channel, s *subscription) {
	defer b.wg.Done()
	defer func() {
		c.detach(s)
		b.metrics.subscriptionClosed()
		logger.Debug("订阅结束", "type", s.typ, "subscription", s.id)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-b.done:
			return
		case evt := <-s.in:
			// select 随机选择就绪分支，回调前再确认一次
			if ctx.Err() != nil || b.closed.Load() {
				return
			}
			if !s.accepts(evt) {
				continue
			}
			if !s.deliver(evt) {
				b.metrics.handlerPanicked(s.typ)
				return
			}
			b.metrics.delivered(s.typ)
			if s.once {
				return
			}
		}
	}
}
