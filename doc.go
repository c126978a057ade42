// Package flowbus 提供进程内、按类型标签路由的事件总线
//
// # 核心概念
//
//   - Event: 携带类型标签的事件值，标签即路由键
//   - Post: 非阻塞、尽力投递；可选粘性发布，缓存该类型最近一次的值
//   - Subscribe: 订阅某个标签，回调在独立 goroutine 中按发布顺序执行
//   - Sticky: 每个类型一个粘性槽位，后来的订阅者先收到它
//
// # 快速开始
//
//	import "github.com/dep2p/go-flowbus"
//
//	rt, err := flowbus.Start(ctx, flowbus.WithPreset(flowbus.PresetDefault))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close()
//
//	// 订阅：ctx 结束后不再回调
//	err = flowbus.SubscribeAs(ctx, rt, types.EvtHeartbeat, func(hb types.Heartbeat) {
//	    fmt.Println("heartbeat", hb.Seq)
//	})
//
//	// 粘性发布：之后订阅的组件也会收到
//	err = rt.Post(types.AppStarted{BaseEvent: types.NewBaseEvent(types.EvtAppStarted)}, flowbus.Sticky())
//
// # 投递语义
//
//	┌──────────┐  Post   ┌───────────────┐  缓冲区（每个订阅一个）  ┌────────────┐
//	│ 发布者   │ ──────▶ │ 通道（按标签） │ ─────────────────────▶ │ 投递循环    │ ─▶ 回调
//	└──────────┘         │ + 粘性槽位     │   满时丢弃，不阻塞      └────────────┘
//	                     └───────────────┘
//
//   - 同一类型内，每个订阅者按发布顺序收到事件；不同类型之间无顺序保证
//   - 缓冲区满时事件对该订阅者丢弃（计数并限频告警），发布方不感知
//   - 回调 panic 只结束该订阅
//
// # 文件组织
//
//   - runtime.go: Runtime 生命周期与 EventBus 代理
//   - options.go: 用户配置选项
//   - presets.go: 预设配置
//   - typed.go: 泛型订阅辅助函数
//   - errors.go: 公共错误
package flowbus
