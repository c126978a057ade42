package eventbus

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-flowbus/pkg/types"
)

// ============================================================================
// 指标测试
// ============================================================================

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics("test", reg)
	require.NoError(t, err)

	bus := NewBus(WithMetrics(m), WithBufferSize(1))
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())

	rec := newRecorder()
	require.NoError(t, bus.Subscribe(ctx, evtA, rec.handle))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.subscriptions))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.channels))

	require.NoError(t, bus.Post(newTestEvent(evtA, "1"), Sticky()))
	rec.waitN(t, 1)
	require.NoError(t, bus.Post(newTestEvent(evtB, "b")))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.posted.WithLabelValues(string(evtA), "true")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.posted.WithLabelValues(string(evtB), "false")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.channels))
	waitFor(t, func() bool {
		return testutil.ToFloat64(m.deliveredVec.WithLabelValues(string(evtA))) == 1
	}, "delivered counter")

	cancel()
	waitFor(t, func() bool { return testutil.ToFloat64(m.subscriptions) == 0 }, "subscription gauge")
}

func TestMetrics_DropsAndPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics("test", reg)
	require.NoError(t, err)

	bus := NewBus(WithMetrics(m))
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 不消费的通道：回调阻塞
	release := make(chan struct{})
	defer close(release)
	entered := make(chan struct{}, 1)
	require.NoError(t, bus.Subscribe(ctx, evtA, func(types.Event) {
		select {
		case entered <- struct{}{}:
		default:
		}
		<-release
	}, BufSize(1)))

	require.NoError(t, bus.Post(newTestEvent(evtA, "1")))
	<-entered
	require.NoError(t, bus.Post(newTestEvent(evtA, "2")))
	require.NoError(t, bus.Post(newTestEvent(evtA, "3")))
	require.NoError(t, bus.Post(newTestEvent(evtA, "4")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.dropped.WithLabelValues(string(evtA))))

	require.NoError(t, bus.Subscribe(ctx, evtB, func(types.Event) { panic("boom") }))
	require.NoError(t, bus.Post(newTestEvent(evtB, "x")))
	waitFor(t, func() bool {
		return testutil.ToFloat64(m.panics.WithLabelValues(string(evtB))) == 1
	}, "panic counter")
}

func TestMetrics_RegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	m1, err := NewMetrics("dup", reg)
	require.NoError(t, err)
	m2, err := NewMetrics("dup", reg)
	require.NoError(t, err)

	m1.channelCreated()
	assert.Equal(t, float64(1), testutil.ToFloat64(m2.channels), "重复注册应复用已有收集器")
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.postedEvent(evtA, true, 1)
		m.delivered(evtA)
		m.handlerPanicked(evtA)
		m.channelCreated()
		m.subscriptionOpened()
		m.subscriptionClosed()
	})
}
