// Package interfaces 定义 FlowBus 公共接口
//
// 本文件定义 EventBus 接口，提供进程内事件发布订阅功能。
package interfaces

import (
	"context"

	"github.com/dep2p/go-flowbus/pkg/types"
)

// EventBus 定义事件总线接口
//
// 事件按显式类型标签（types.EventType）路由：
// 发布方按事件自身的 Type() 选择通道，订阅方按声明的标签选择通道，
// 两者必须完全一致才会投递。
type EventBus interface {
	// Post 发布事件
	//
	// 非阻塞、尽力投递：订阅者缓冲区满时事件被静默丢弃。
	// 使用 Sticky() 选项时，事件同时写入该类型的粘性槽位。
	Post(evt types.Event, opts ...PostOpt) error

	// Subscribe 订阅指定类型的事件
	//
	// ctx 决定订阅的生命周期：ctx 结束后不再回调。
	// 若存在粘性事件，新订阅者会先收到它，再收到后续实时事件。
	// 不返回句柄，取消订阅的唯一方式是取消 ctx（Once 订阅在首次投递后自行结束）。
	Subscribe(ctx context.Context, typ types.EventType, handler Handler, opts ...SubscriptionOpt) error

	// ClearSticky 清除指定类型的粘性事件
	//
	// 通道不存在时为空操作。
	ClearSticky(typ types.EventType)

	// Sticky 返回指定类型当前的粘性事件
	Sticky(typ types.EventType) (types.Event, bool)

	// EventTypes 返回所有已创建通道的事件类型
	EventTypes() []types.EventType

	// Close 停止所有投递任务并等待其退出
	Close() error
}

// Handler 事件回调
type Handler func(evt types.Event)

// MatchFunc 投递时的运行时匹配检查
type MatchFunc func(evt types.Event) bool

// ============================================================================
//                              选项
// ============================================================================

// PostOpt 发布选项函数类型
type PostOpt func(*PostSettings)

// SubscriptionOpt 订阅选项函数类型
type SubscriptionOpt func(*SubscriptionSettings)

// PostSettings 发布设置（导出以供实现使用）
type PostSettings struct {
	Sticky bool
}

// SubscriptionSettings 订阅设置（导出以供实现使用）
type SubscriptionSettings struct {
	// Buffer 订阅缓冲区大小，0 表示使用总线默认值
	Buffer int

	// Once 首次投递后结束订阅
	Once bool

	// Match 额外的运行时匹配检查，nil 表示全部匹配
	Match MatchFunc
}

// Sticky 将事件同时保存为该类型的粘性事件
func Sticky() PostOpt {
	return func(s *PostSettings) {
		s.Sticky = true
	}
}

// BufSize 设置订阅缓冲区大小
func BufSize(size int) SubscriptionOpt {
	return func(s *SubscriptionSettings) {
		s.Buffer = size
	}
}

// Once 只接收一次事件
func Once() SubscriptionOpt {
	return func(s *SubscriptionSettings) {
		s.Once = true
	}
}

// Match 设置运行时匹配检查
//
// 多次调用时所有检查都必须通过。
func Match(fn MatchFunc) SubscriptionOpt {
	return func(s *SubscriptionSettings) {
		if fn == nil {
			return
		}
		prev := s.Match
		if prev == nil {
			s.Match = fn
			return
		}
		s.Match = func(evt types.Event) bool {
			return prev(evt) && fn(evt)
		}
	}
}
