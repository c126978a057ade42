package flowbus

import (
	"time"

	"github.com/dep2p/go-flowbus/config"
)

// ════════════════════════════════════════════════════════════════════════════
//                              预设配置
// ════════════════════════════════════════════════════════════════════════════

// 预设名称常量
const (
	// PresetNameDefault 默认预设名称
	PresetNameDefault = "default"

	// PresetNameHighThroughput 高吞吐预设名称
	PresetNameHighThroughput = "high-throughput"

	// PresetNameLowMemory 低内存预设名称
	PresetNameLowMemory = "low-memory"
)

// Preset 事件总线预设
//
// 只覆盖事件总线相关字段，日志和指标配置保持不变。
type Preset struct {
	// Name 预设名称
	Name string

	// Description 预设描述
	Description string

	// BufferSize 每个订阅的默认缓冲区大小
	BufferSize int

	// DropWarnEvery 慢消费者告警频率
	DropWarnEvery int

	// ShutdownTimeout 关闭超时
	ShutdownTimeout time.Duration
}

var (
	// PresetDefault 默认预设
	PresetDefault = &Preset{
		Name:            PresetNameDefault,
		Description:     "适用于大多数应用",
		BufferSize:      64,
		DropWarnEvery:   100,
		ShutdownTimeout: 5 * time.Second,
	}

	// PresetHighThroughput 高吞吐预设
	//
	// 较大的缓冲区，容忍短时间的慢消费者。
	PresetHighThroughput = &Preset{
		Name:            PresetNameHighThroughput,
		Description:     "大缓冲区，适用于突发流量",
		BufferSize:      1024,
		DropWarnEvery:   1000,
		ShutdownTimeout: 10 * time.Second,
	}

	// PresetLowMemory 低内存预设
	PresetLowMemory = &Preset{
		Name:            PresetNameLowMemory,
		Description:     "小缓冲区，适用于资源受限环境",
		BufferSize:      8,
		DropWarnEvery:   10,
		ShutdownTimeout: time.Second,
	}
)

// Apply 把预设写入配置
func (p *Preset) Apply(cfg *config.Config) {
	if p == nil || cfg == nil {
		return
	}
	cfg.EventBus.BufferSize = p.BufferSize
	cfg.EventBus.DropWarnEvery = p.DropWarnEvery
	cfg.EventBus.ShutdownTimeout = config.Duration(p.ShutdownTimeout)
}

// PresetByName 按名称查找预设
func PresetByName(name string) (*Preset, bool) {
	switch name {
	case PresetNameDefault, "":
		return PresetDefault, true
	case PresetNameHighThroughput:
		return PresetHighThroughput, true
	case PresetNameLowMemory:
		return PresetLowMemory, true
	default:
		return nil, false
	}
}
