package flowbus

import (
	"github.com/dep2p/go-flowbus/internal/core/eventbus"
	pkgif "github.com/dep2p/go-flowbus/pkg/interfaces"
	"github.com/dep2p/go-flowbus/pkg/types"
)

// ════════════════════════════════════════════════════════════════════════════
//                              版本信息
// ════════════════════════════════════════════════════════════════════════════

// Version 当前版本
const Version = "v0.1.0"

// BuildInfo 构建信息（通过 ldflags 注入）
var (
	// GitCommit Git 提交哈希
	GitCommit string

	// BuildDate 构建日期
	BuildDate string
)

// VersionInfo 返回完整版本信息字符串
func VersionInfo() string {
	info := "FlowBus " + Version
	if GitCommit != "" {
		info += " (" + GitCommit[:min(8, len(GitCommit))] + ")"
	}
	if BuildDate != "" {
		info += " built " + BuildDate
	}
	return info
}

// ════════════════════════════════════════════════════════════════════════════
//                              类型别名
// ════════════════════════════════════════════════════════════════════════════

type (
	// Event 事件
	Event = types.Event

	// EventType 事件类型标签
	EventType = types.EventType

	// Handler 事件回调
	Handler = pkgif.Handler

	// EventBus 事件总线接口
	EventBus = pkgif.EventBus

	// ChannelStats 单个事件通道的统计
	ChannelStats = eventbus.ChannelStats
)

// ════════════════════════════════════════════════════════════════════════════
//                              投递选项
// ════════════════════════════════════════════════════════════════════════════

// Sticky 粘性发布
func Sticky() pkgif.PostOpt { return pkgif.Sticky() }

// Once 只接收一次事件
func Once() pkgif.SubscriptionOpt { return pkgif.Once() }

// BufSize 设置订阅缓冲区大小
func BufSize(size int) pkgif.SubscriptionOpt { return pkgif.BufSize(size) }

// Match 设置投递时的运行时匹配检查
func Match(fn pkgif.MatchFunc) pkgif.SubscriptionOpt { return pkgif.Match(fn) }
