// Package interfaces 定义 FlowBus 的公共接口
//
// # 文件组织
//
//   - eventbus.go - 事件总线（Post / Subscribe / ClearSticky）及其选项
//
// 实现位于 internal/core/eventbus，通过 Fx 模块注入。
// 依赖此接口的组件可以在测试中使用 tests/mocks.MockEventBus。
package interfaces
