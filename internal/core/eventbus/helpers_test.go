package eventbus

import (
	"sync"
	"testing"
	"time"

	"github.com/dep2p/go-flowbus/pkg/types"
)

// ============================================================================
// 测试辅助
// ============================================================================

const (
	evtA types.EventType = "test.a"
	evtB types.EventType = "test.b"
)

// testEvent 测试事件
type testEvent struct {
	types.BaseEvent
	Value string
}

func newTestEvent(typ types.EventType, value string) testEvent {
	return testEvent{BaseEvent: types.NewBaseEvent(typ), Value: value}
}

// otherEvent 与 testEvent 共用标签但 Go 类型不同
type otherEvent struct {
	types.BaseEvent
	N int
}

// recorder 记录回调收到的事件
type recorder struct {
	mu     sync.Mutex
	events []types.Event
	notify chan struct{}
}

func newRecorder() *recorder {
	return &recorder{notify: make(chan struct{}, 1024)}
}

func (r *recorder) handle(evt types.Event) {
	r.mu.Lock()
	r.events = append(r.events, evt)
	r.mu.Unlock()
	r.notify <- struct{}{}
}

func (r *recorder) snapshot() []types.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]types.Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *recorder) values() []string {
	var out []string
	for _, evt := range r.snapshot() {
		if e, ok := evt.(testEvent); ok {
			out = append(out, e.Value)
		}
	}
	return out
}

// waitN 等待至少 n 次回调
func (r *recorder) waitN(t *testing.T, n int) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for len(r.snapshot()) < n {
		select {
		case <-r.notify:
		case <-deadline:
			t.Fatalf("timeout waiting for %d events, got %d", n, len(r.snapshot()))
		}
	}
}

// assertQuiet 确认一段时间内没有新的回调
func (r *recorder) assertQuiet(t *testing.T, want int) {
	t.Helper()
	time.Sleep(50 * time.Millisecond)
	if got := len(r.snapshot()); got != want {
		t.Fatalf("received %d events, want %d", got, want)
	}
}

// waitFor 轮询等待条件成立
func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timeout: %s", msg)
		}
		time.Sleep(time.Millisecond)
	}
}

// subscribers 返回某类型当前挂载的订阅数
func subscribers(b *Bus, typ types.EventType) int {
	c, ok := b.reg.lookup(typ)
	if !ok {
		return 0
	}
	return c.subscribers()
}
