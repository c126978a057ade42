package eventbus

import (
	"context"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-flowbus/pkg/types"
)

// ============================================================================
// 单次订阅测试
// ============================================================================

// TestSubscription_OnceAtMostOnce 单次订阅最多回调一次
func TestSubscription_OnceAtMostOnce(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	var calls atomic.Int32
	done := make(chan struct{}, 10)
	require.NoError(t, bus.Subscribe(context.Background(), evtA, func(types.Event) {
		calls.Add(1)
		done <- struct{}{}
	}, Once()))

	for i := 0; i < 10; i++ {
		require.NoError(t, bus.Post(newTestEvent(evtA, strconv.Itoa(i))))
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("once subscription never fired")
	}
	waitFor(t, func() bool { return subscribers(bus, evtA) == 0 }, "once subscription detached")

	for i := 0; i < 10; i++ {
		require.NoError(t, bus.Post(newTestEvent(evtA, "late")))
	}
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

// TestSubscription_OnceReceivesFirst 单次订阅收到的是订阅后的第一个事件
func TestSubscription_OnceReceivesFirst(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	rec := newRecorder()
	require.NoError(t, bus.Subscribe(context.Background(), evtB, rec.handle, Once()))

	require.NoError(t, bus.Post(newTestEvent(evtB, "first")))
	require.NoError(t, bus.Post(newTestEvent(evtB, "second")))

	rec.waitN(t, 1)
	rec.assertQuiet(t, 1)
	assert.Equal(t, []string{"first"}, rec.values())
}

// ============================================================================
// 持续订阅与取消测试
// ============================================================================

// TestSubscription_ContinuousInOrder 持续订阅按发布顺序收到所有事件
func TestSubscription_ContinuousInOrder(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	const n = 50
	rec := newRecorder()
	require.NoError(t, bus.Subscribe(ctx, evtA, rec.handle, BufSize(n)))

	want := make([]string, 0, n)
	for i := 0; i < n; i++ {
		v := strconv.Itoa(i)
		want = append(want, v)
		require.NoError(t, bus.Post(newTestEvent(evtA, v)))
	}

	rec.waitN(t, n)
	assert.Equal(t, want, rec.values())
}

// TestSubscription_CancelStopsDelivery 取消 ctx 后不再回调
func TestSubscription_CancelStopsDelivery(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())

	rec := newRecorder()
	require.NoError(t, bus.Subscribe(ctx, evtA, rec.handle))

	require.NoError(t, bus.Post(newTestEvent(evtA, "before")))
	rec.waitN(t, 1)

	cancel()
	waitFor(t, func() bool { return subscribers(bus, evtA) == 0 }, "cancelled subscription detached")

	require.NoError(t, bus.Post(newTestEvent(evtA, "after")))
	rec.assertQuiet(t, 1)
	assert.Equal(t, []string{"before"}, rec.values())
}

// TestSubscription_CancelledContext 已取消的 ctx 不会收到任何事件（包括缓存事件）
func TestSubscription_CancelledContext(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	require.NoError(t, bus.Post(newTestEvent(evtA, "cached"), Sticky()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := newRecorder()
	require.NoError(t, bus.Subscribe(ctx, evtA, rec.handle))
	waitFor(t, func() bool { return subscribers(bus, evtA) == 0 }, "subscription detached")
	rec.assertQuiet(t, 0)
}

// TestSubscription_CancelWhileBlocked 回调执行中取消，缓冲区中剩余的事件不再投递
func TestSubscription_CancelWhileBlocked(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())

	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	var calls atomic.Int32
	require.NoError(t, bus.Subscribe(ctx, evtA, func(types.Event) {
		if calls.Add(1) == 1 {
			entered <- struct{}{}
			<-release
		}
	}))

	require.NoError(t, bus.Post(newTestEvent(evtA, "1")))
	<-entered
	require.NoError(t, bus.Post(newTestEvent(evtA, "2")))
	require.NoError(t, bus.Post(newTestEvent(evtA, "3")))

	cancel()
	close(release)

	waitFor(t, func() bool { return subscribers(bus, evtA) == 0 }, "subscription detached")
	assert.Equal(t, int32(1), calls.Load())
}

// ============================================================================
// 运行时匹配测试
// ============================================================================

// TestSubscription_Match 通道选择和运行时检查都满足才回调
func TestSubscription_Match(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := newRecorder()
	require.NoError(t, bus.Subscribe(ctx, evtA, rec.handle,
		Match(func(evt types.Event) bool {
			_, ok := evt.(testEvent)
			return ok
		}),
		Match(func(evt types.Event) bool {
			return evt.(testEvent).Value != "skip"
		}),
	))

	require.NoError(t, bus.Post(otherEvent{BaseEvent: types.NewBaseEvent(evtA), N: 1}))
	require.NoError(t, bus.Post(newTestEvent(evtA, "skip")))
	require.NoError(t, bus.Post(newTestEvent(evtA, "keep")))

	rec.waitN(t, 1)
	rec.assertQuiet(t, 1)
	assert.Equal(t, []string{"keep"}, rec.values())
}

// ============================================================================
// 回调 panic 测试
// ============================================================================

// TestSubscription_PanicEndsOnlyThatSubscription 回调 panic 只结束该订阅
func TestSubscription_PanicEndsOnlyThatSubscription(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var panics atomic.Int32
	require.NoError(t, bus.Subscribe(ctx, evtA, func(types.Event) {
		panics.Add(1)
		panic("boom")
	}))

	healthy := newRecorder()
	require.NoError(t, bus.Subscribe(ctx, evtA, healthy.handle))

	require.NoError(t, bus.Post(newTestEvent(evtA, "1")))
	healthy.waitN(t, 1)
	waitFor(t, func() bool { return subscribers(bus, evtA) == 1 }, "panicking subscription detached")

	require.NoError(t, bus.Post(newTestEvent(evtA, "2")))
	healthy.waitN(t, 2)
	assert.Equal(t, int32(1), panics.Load())
	assert.Equal(t, []string{"1", "2"}, healthy.values())
}

// ============================================================================
// 缓冲区测试
// ============================================================================

// TestSubscription_PostNeverBlocks 慢消费者不会阻塞发布方
func TestSubscription_PostNeverBlocks(t *testing.T) {
	bus := NewBus(WithBufferSize(4))
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	release := make(chan struct{})
	defer close(release)
	require.NoError(t, bus.Subscribe(ctx, evtA, func(types.Event) { <-release }))

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			_ = bus.Post(newTestEvent(evtA, strconv.Itoa(i)))
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Post blocked on a slow subscriber")
	}

	// 最多 1 个在回调中 + 4 个在缓冲区
	assert.GreaterOrEqual(t, bus.Stats()[0].Dropped, int64(1000-5))
}
