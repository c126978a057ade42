// Package eventbus 实现事件总线
package eventbus

import (
	"sync"
	"sync/atomic"

	"golang.org/x/time/rate"

	"github.com/dep2p/go-flowbus/pkg/types"
)

// ============================================================================
// 多播通道
// ============================================================================

// channel 单个事件类型的投递状态
type channel struct {
	typ types.EventType

	lk    sync.Mutex
	sinks []*subscription // 已挂载的订阅
	last  types.Event     // 粘性槽位，nil 表示空

	dropCount atomic.Int64 // 丢弃事件计数（用于慢消费者警告）
	dropWarn  *rate.Sometimes
}

func newChannel(typ types.EventType, dropWarnEvery int) *channel {
	if dropWarnEvery <= 0 {
		dropWarnEvery = DefaultDropWarnEvery
	}
	return &channel{
		typ:      typ,
		sinks:    make([]*subscription, 0),
		dropWarn: &rate.Sometimes{First: 1, Every: dropWarnEvery},
	}
}

// publish 发布事件到所有订阅者
//
// 发送是非阻塞的：订阅者缓冲区满时该订阅者丢弃此事件。
// 粘性槽位的更新与是否丢弃无关，总是成功。
// 返回成功入队和被丢弃的订阅者数量。
func (c *channel) publish(evt types.Event, sticky bool) (queued, dropped int) {
	c.lk.Lock()
	if sticky {
		c.last = evt
	}
	for _, sub := range c.sinks {
		select {
		case sub.in <- evt:
			queued++
		default:
			// 缓冲区满，丢弃事件
			dropped++
		}
	}
	c.lk.Unlock()

	if dropped > 0 {
		total := c.dropCount.Add(int64(dropped))
		// 首次丢弃告警一次，之后按频率告警，避免日志泛滥
		c.dropWarn.Do(func() {
			logger.Warn("慢消费者检测",
				"type", c.typ,
				"dropped", total,
				"reason", "subscriber buffer full")
		})
	}
	return queued, dropped
}

// attach 挂载订阅
//
// 若粘性槽位非空，先把缓存的事件放入该订阅的缓冲区，
// 因此它总是先于之后的任何实时事件被投递。
func (c *channel) attach(sub *subscription) {
	c.lk.Lock()
	defer c.lk.Unlock()

	if c.last != nil {
		select {
		case sub.in <- c.last:
		default:
			// 新订阅的缓冲区至少为 1，不会走到这里
		}
	}
	c.sinks = append(c.sinks, sub)
}

// detach 移除订阅
func (c *channel) detach(sub *subscription) bool {
	c.lk.Lock()
	defer c.lk.Unlock()

	for i, s := range c.sinks {
		if s == sub {
			c.sinks = append(c.sinks[:i], c.sinks[i+1:]...)
			return true
		}
	}
	return false
}

// sticky 返回粘性事件
func (c *channel) sticky() (types.Event, bool) {
	c.lk.Lock()
	defer c.lk.Unlock()
	return c.last, c.last != nil
}

// clearSticky 清空粘性槽位
func (c *channel) clearSticky() {
	c.lk.Lock()
	c.last = nil
	c.lk.Unlock()
}

// subscribers 返回当前挂载的订阅数量
func (c *channel) subscribers() int {
	c.lk.Lock()
	defer c.lk.Unlock()
	return len(c.sinks)
}

// dropped 返回累计丢弃数量
func (c *channel) dropped() int64 {
	return c.dropCount.Load()
}
