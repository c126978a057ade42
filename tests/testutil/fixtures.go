// Package testutil 提供测试辅助工具
package testutil

import "github.com/dep2p/go-flowbus/pkg/types"

// 测试数据固件
//
// 提供测试中常用的常量值，确保测试一致性。

const (
	// DefaultTimeoutSeconds 默认等待超时（秒）
	DefaultTimeoutSeconds = 2

	// DefaultTestEventType 默认测试事件类型
	DefaultTestEventType types.EventType = "test.event"
)

// TestEvent 通用测试事件
type TestEvent struct {
	types.BaseEvent
	Seq   int
	Value string
}

// NewTestEvent 创建 DefaultTestEventType 类型的测试事件
func NewTestEvent(seq int, value string) TestEvent {
	return TestEvent{
		BaseEvent: types.NewBaseEvent(DefaultTestEventType),
		Seq:       seq,
		Value:     value,
	}
}
