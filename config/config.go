// Package config 提供统一的配置管理
//
// 本包采用与各组件一一对应的配置模式：
//   - 主 Config 结构体嵌入所有子配置
//   - 每个子配置在独立文件中定义，提供 DefaultXxxConfig 和 Validate
//   - 支持从 JSON / YAML 加载，Duration 字段接受 "5s" 这样的字符串
//
// 使用示例：
//
//	// 创建默认配置
//	cfg := config.NewConfig()
//	cfg.EventBus.BufferSize = 128
//
//	// 从文件加载（按扩展名选择 JSON 或 YAML）
//	cfg, err := config.LoadFile("flowbus.yaml")
package config

import (
	"fmt"

	"go.uber.org/multierr"

	"github.com/dep2p/go-flowbus/pkg/types"
)

// Config 是 FlowBus 的完整配置结构
//
// 配置按照功能模块组织：
//   - EventBus: 事件总线（缓冲区、慢消费者告警、关闭超时）
//   - Log: 日志输出
//   - Metrics: Prometheus 指标
type Config struct {
	// EventBus 事件总线配置
	EventBus EventBusConfig `json:"event_bus" yaml:"event_bus"`

	// Log 日志配置
	Log LogConfig `json:"log" yaml:"log"`

	// Metrics 指标配置
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
}

// NewConfig 创建默认配置
//
// 返回的配置使用所有组件的默认值，适用于大多数场景。
func NewConfig() *Config {
	return &Config{
		EventBus: DefaultEventBusConfig(),
		Log:      DefaultLogConfig(),
		Metrics:  DefaultMetricsConfig(),
	}
}

// Validate 验证配置的有效性
//
// 检查所有子配置，返回合并后的全部错误。
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: config is nil", types.ErrInvalidConfig)
	}
	return multierr.Combine(
		c.EventBus.Validate(),
		c.Log.Validate(),
		c.Metrics.Validate(),
	)
}
