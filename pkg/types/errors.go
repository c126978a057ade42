// Package types 定义 FlowBus 的基础类型
//
// 本文件定义所有公共错误类型。
package types

import "errors"

// ============================================================================
//                              事件总线相关错误
// ============================================================================

var (
	// ErrBusClosed 事件总线已关闭
	ErrBusClosed = errors.New("eventbus closed")

	// ErrNilEvent 事件为空
	ErrNilEvent = errors.New("nil event")

	// ErrInvalidEventType 无效的事件类型标签
	ErrInvalidEventType = errors.New("invalid event type")

	// ErrNilContext 订阅缺少执行上下文
	ErrNilContext = errors.New("subscribe called with nil context")

	// ErrNilHandler 订阅缺少回调
	ErrNilHandler = errors.New("subscribe called with nil handler")
)

// ============================================================================
//                              配置相关错误
// ============================================================================

var (
	// ErrInvalidConfig 无效配置
	ErrInvalidConfig = errors.New("invalid config")

	// ErrUnsupportedConfigFormat 不支持的配置文件格式
	ErrUnsupportedConfigFormat = errors.New("unsupported config format")
)
