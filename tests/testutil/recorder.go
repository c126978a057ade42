package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/dep2p/go-flowbus/pkg/types"
)

// Recorder 记录回调收到的事件
//
// Handle 可直接作为 interfaces.Handler 传给 Subscribe。
type Recorder struct {
	mu     sync.Mutex
	events []types.Event
}

// NewRecorder 创建 Recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Handle 记录事件
func (r *Recorder) Handle(evt types.Event) {
	r.mu.Lock()
	r.events = append(r.events, evt)
	r.mu.Unlock()
}

// Events 返回已记录事件的副本
func (r *Recorder) Events() []types.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]types.Event(nil), r.events...)
}

// Len 返回已记录事件数
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// WaitN 等待至少 n 个事件
func (r *Recorder) WaitN(t testing.TB, n int) []types.Event {
	t.Helper()
	Eventually(t, DefaultTimeoutSeconds*time.Second, func() bool {
		return r.Len() >= n
	}, "等待事件")
	return r.Events()
}
