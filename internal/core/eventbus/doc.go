// Package eventbus 实现进程内事件总线
//
// 按显式类型标签路由的发布/订阅机制，支持：
//
//   - 多订阅者，每个订阅独立缓冲（默认 64）
//   - 非阻塞发布，缓冲区满时静默丢弃
//   - 粘性事件（Sticky）：每种类型缓存最近一次粘性发布，迟到的订阅者先收到它
//   - 单次订阅（Once）与持续订阅
//   - 订阅生命周期由调用方的 context.Context 决定
//
// # 快速开始
//
//	bus := eventbus.NewBus()
//	defer bus.Close()
//
//	// 粘性发布
//	_ = bus.Post(MyEvent{BaseEvent: types.NewBaseEvent(EvtMy)}, eventbus.Sticky())
//
//	// 订阅，ctx 取消后停止回调
//	_ = bus.Subscribe(ctx, EvtMy, func(evt types.Event) {
//		e := evt.(MyEvent)
//		// 处理事件
//	})
//
//	// 只接收一次
//	_ = bus.Subscribe(ctx, EvtMy, onFirst, eventbus.Once())
//
// # Fx 模块
//
//	app := fx.New(
//		eventbus.Module(),
//		fx.Invoke(func(bus pkgif.EventBus) {
//			// ...
//		}),
//	)
//
// # 结构
//
//   - registry：类型标签 → 通道，首次发布或订阅时创建，之后永不删除
//   - channel：订阅者列表 + 单槽粘性缓存
//   - subscription：每个订阅一个投递 goroutine
//
// 通道按发布事件的 Type() 和订阅声明的标签选择，两者必须完全一致。
// Match 选项是投递时额外的运行时检查，两个条件都满足才会回调。
//
// # 并发安全
//
//   - 注册表：sync.RWMutex，读路径无写锁，创建路径双重检查
//   - 通道：sync.Mutex 保护订阅者列表和粘性槽位，发送均为非阻塞
//   - 回调在任何内部锁之外执行
//
// # 回调 panic
//
// 回调 panic 会被投递 goroutine 恢复并记录，仅结束该订阅，不影响其他订阅者。
package eventbus
