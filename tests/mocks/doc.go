// Package mocks 提供统一的测试 Mock 实现
//
// # 核心 Mock
//
//   - MockEventBus: 模拟 interfaces.EventBus，同步投递，记录 Post/Subscribe 调用
//
// # 设计原则
//
// 1. 函数式注入: 通过 XxxFunc 字段注入自定义行为
// 2. 调用记录: 记录调用历史，便于验证测试行为
// 3. 同步投递: Post 直接在调用方 goroutine 中执行回调，测试无需等待
//
// # 使用示例
//
// 基础用法:
//
//	import "github.com/dep2p/go-flowbus/tests/mocks"
//
//	func TestPublisher(t *testing.T) {
//	    bus := mocks.NewMockEventBus()
//	    publishSomething(bus)
//	    if len(bus.Posted()) != 1 {
//	        t.Error("expected one Post")
//	    }
//	}
//
// 自定义行为:
//
//	bus := &mocks.MockEventBus{
//	    PostFunc: func(evt types.Event, opts ...interfaces.PostOpt) error {
//	        return types.ErrBusClosed
//	    },
//	}
package mocks
