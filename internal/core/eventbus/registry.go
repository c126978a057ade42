// Package eventbus 实现事件总线
package eventbus

import (
	"sort"
	"sync"

	"github.com/dep2p/go-flowbus/pkg/types"
)

// ============================================================================
// 通道注册表
// ============================================================================

// registry 类型标签到通道的映射
//
// 通道首次访问时创建，之后在进程生命周期内一直保留，
// 注册表大小只随出现过的不同事件类型数量增长。
type registry struct {
	mu       sync.RWMutex
	channels map[types.EventType]*channel

	// newChannel 创建新通道，在写锁内调用
	newChannel func(typ types.EventType) *channel
}

func newRegistry(newChannel func(typ types.EventType) *channel) *registry {
	return &registry{
		channels:   make(map[types.EventType]*channel),
		newChannel: newChannel,
	}
}

// getOrCreate 获取或创建通道
//
// 同一类型的并发首次访问只会创建一个通道，所有调用者得到同一实例。
func (r *registry) getOrCreate(typ types.EventType) *channel {
	r.mu.RLock()
	c, ok := r.channels[typ]
	r.mu.RUnlock()
	if ok {
		return c
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// 双重检查
	if c, ok = r.channels[typ]; ok {
		return c
	}
	c = r.newChannel(typ)
	r.channels[typ] = c
	return c
}

// lookup 查找通道，不存在时不创建
func (r *registry) lookup(typ types.EventType) (*channel, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.channels[typ]
	return c, ok
}

// types 返回所有已注册的类型（已排序）
func (r *registry) types() []types.EventType {
	r.mu.RLock()
	out := make([]types.EventType, 0, len(r.channels))
	for typ := range r.channels {
		out = append(out, typ)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// len 返回通道数量
func (r *registry) len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.channels)
}
