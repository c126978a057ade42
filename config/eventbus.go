// Package config 提供统一的配置管理
package config

import (
	"fmt"
	"time"

	"github.com/dep2p/go-flowbus/pkg/types"
)

// EventBusConfig 事件总线配置
type EventBusConfig struct {
	// BufferSize 每个订阅的默认缓冲区大小
	// 缓冲区满时新事件对该订阅者被丢弃
	// 默认值: 64
	BufferSize int `json:"buffer_size" yaml:"buffer_size"`

	// DropWarnEvery 慢消费者告警频率：首次丢弃告警一次，之后每 N 次告警一次
	// 默认值: 100
	DropWarnEvery int `json:"drop_warn_every" yaml:"drop_warn_every"`

	// ShutdownTimeout 关闭时等待投递任务退出的最长时间
	// 默认值: 5s
	ShutdownTimeout Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// DefaultEventBusConfig 返回默认的事件总线配置
func DefaultEventBusConfig() EventBusConfig {
	return EventBusConfig{
		BufferSize:      64,
		DropWarnEvery:   100,
		ShutdownTimeout: Duration(5 * time.Second),
	}
}

// Validate 验证事件总线配置
func (c EventBusConfig) Validate() error {
	if c.BufferSize <= 0 {
		return fmt.Errorf("%w: event_bus.buffer_size must be positive, got %d", types.ErrInvalidConfig, c.BufferSize)
	}
	if c.DropWarnEvery <= 0 {
		return fmt.Errorf("%w: event_bus.drop_warn_every must be positive, got %d", types.ErrInvalidConfig, c.DropWarnEvery)
	}
	if c.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: event_bus.shutdown_timeout must not be negative", types.ErrInvalidConfig)
	}
	return nil
}

// WithBufferSize 设置默认订阅缓冲区大小
func (c EventBusConfig) WithBufferSize(size int) EventBusConfig {
	c.BufferSize = size
	return c
}

// WithShutdownTimeout 设置关闭超时
func (c EventBusConfig) WithShutdownTimeout(d time.Duration) EventBusConfig {
	c.ShutdownTimeout = Duration(d)
	return c
}
