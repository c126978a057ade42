// Package types 定义 FlowBus 的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他 flowbus 内部包。
//
// # 文件组织
//
//   - events.go - EventType 类型标签、Event 接口、BaseEvent、内置事件
//   - errors.go - 公共错误定义
//
// # 事件类型标签
//
// 事件总线按应用提供的显式类型标签（EventType）路由事件，不依赖反射：
//
//	const EvtOrderCreated types.EventType = "order.created"
//
//	type OrderCreated struct {
//	    types.BaseEvent
//	    OrderID string
//	}
//
//	evt := OrderCreated{BaseEvent: types.NewBaseEvent(EvtOrderCreated), OrderID: "42"}
package types
