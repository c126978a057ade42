// Package types 定义 FlowBus 公共类型
//
// 本文件定义事件相关类型。
package types

import (
	"time"
)

// ============================================================================
//                              EventType - 事件类型标签
// ============================================================================

// EventType 事件类型标签
//
// 由应用显式提供，既用于选择事件通道，也作为事件载荷的变体标签。
// 同一标签总是映射到同一通道，不同标签之间互不干扰。
type EventType string

// String 返回标签字符串
func (t EventType) String() string {
	return string(t)
}

// IsValid 检查标签是否有效（非空）
func (t EventType) IsValid() bool {
	return t != ""
}

// ============================================================================
//                              Event - 事件接口
// ============================================================================

// Event 基础事件接口
type Event interface {
	// Type 返回事件类型标签
	Type() EventType
}

// TimedEvent 带时间戳的事件
type TimedEvent interface {
	Event

	// Timestamp 返回事件时间戳
	Timestamp() time.Time
}

// BaseEvent 基础事件实现
//
// 嵌入到具体事件结构体中即可满足 Event 和 TimedEvent 接口。
type BaseEvent struct {
	EventType EventType
	Time      time.Time
}

// Type 返回事件类型
func (e BaseEvent) Type() EventType {
	return e.EventType
}

// Timestamp 返回事件时间戳
func (e BaseEvent) Timestamp() time.Time {
	return e.Time
}

// NewBaseEvent 创建基础事件
func NewBaseEvent(eventType EventType) BaseEvent {
	return BaseEvent{
		EventType: eventType,
		Time:      time.Now(),
	}
}

// ============================================================================
//                              内置事件
// ============================================================================

const (
	// EvtAppStarted 应用启动完成（粘性发布，迟到的订阅者也能收到）
	EvtAppStarted EventType = "app.started"

	// EvtHeartbeat 周期心跳
	EvtHeartbeat EventType = "app.heartbeat"
)

// AppStarted 应用启动事件
type AppStarted struct {
	BaseEvent
	Version string
	PID     int
}

// Heartbeat 心跳事件
type Heartbeat struct {
	BaseEvent
	Seq uint64
}
