package flowbus

import (
	"errors"

	"github.com/dep2p/go-flowbus/pkg/types"
)

// 公共错误定义
var (
	// ────────────────────────────────────────────────────────────────────────
	// 运行时生命周期错误
	// ────────────────────────────────────────────────────────────────────────

	// ErrNotStarted 运行时未启动
	ErrNotStarted = errors.New("runtime not started")

	// ErrAlreadyStarted 运行时已启动
	ErrAlreadyStarted = errors.New("runtime already started")

	// ErrRuntimeClosed 运行时已停止，不能再次启动
	ErrRuntimeClosed = errors.New("runtime closed")

	// ────────────────────────────────────────────────────────────────────────
	// 事件总线错误（来自 pkg/types）
	// ────────────────────────────────────────────────────────────────────────

	// ErrBusClosed 事件总线已关闭
	ErrBusClosed = types.ErrBusClosed

	// ErrNilEvent 事件为空
	ErrNilEvent = types.ErrNilEvent

	// ErrInvalidEventType 无效的事件类型
	ErrInvalidEventType = types.ErrInvalidEventType

	// ErrNilHandler 缺少回调
	ErrNilHandler = types.ErrNilHandler
)
