package main

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgif "github.com/dep2p/go-flowbus/pkg/interfaces"
	"github.com/dep2p/go-flowbus/pkg/types"
	"github.com/dep2p/go-flowbus/tests/mocks"
	"github.com/dep2p/go-flowbus/tests/testutil"
)

func TestDemo_StartPostsStickyAndHeartbeats(t *testing.T) {
	mock := clock.NewMock()
	bus := mocks.NewMockEventBus()

	d := newDemo(mock, time.Second)
	d.bind(bus)
	require.NoError(t, d.start(context.Background()))
	defer d.stop(context.Background())

	// 启动事件：粘性发布，单次订阅者收到
	posted := bus.Posted()
	require.Len(t, posted, 1)
	assert.True(t, posted[0].Sticky)
	assert.Equal(t, types.EvtAppStarted, posted[0].Event.Type())
	assert.True(t, d.started.Load())
	assert.Equal(t, []types.EventType{types.EvtAppStarted, types.EvtHeartbeat}, bus.SubscribeCalls)

	for i := 1; i <= 3; i++ {
		mock.Add(time.Second)
		want := uint64(i)
		testutil.Eventually(t, 2*time.Second, func() bool {
			return d.heartbeat.Load() == want
		}, "等待心跳")
	}

	posted = bus.Posted()
	require.Len(t, posted, 4)
	for i, call := range posted[1:] {
		hb := call.Event.(types.Heartbeat)
		assert.Equal(t, uint64(i+1), hb.Seq)
		assert.False(t, call.Sticky)
		assert.True(t, hb.Time.Equal(mock.Now().Add(time.Duration(i-2)*time.Second)), "seq %d at %s", hb.Seq, hb.Time)
	}
}

func TestDemo_StopEndsLoop(t *testing.T) {
	mock := clock.NewMock()
	bus := mocks.NewMockEventBus()

	d := newDemo(mock, time.Second)
	d.bind(bus)
	require.NoError(t, d.start(context.Background()))
	require.NoError(t, d.stop(context.Background()))

	mock.Add(5 * time.Second)
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, d.seq.Load())
	assert.Zero(t, d.heartbeat.Load())
}

func TestDemo_NotBound(t *testing.T) {
	d := newDemo(clock.NewMock(), time.Second)
	assert.ErrorIs(t, d.start(context.Background()), errNotBound)
	assert.NoError(t, d.stop(context.Background()))
}

func TestDemo_PostFailure(t *testing.T) {
	bus := &mocks.MockEventBus{
		PostFunc: func(types.Event, ...pkgif.PostOpt) error { return types.ErrBusClosed },
	}

	d := newDemo(clock.NewMock(), time.Second)
	d.bind(bus)
	assert.ErrorIs(t, d.start(context.Background()), types.ErrBusClosed)
	assert.Nil(t, d.cancel, "失败时不启动心跳")

	// 订阅随之取消
	for _, sub := range bus.Subscriptions(types.EvtHeartbeat) {
		assert.Zero(t, sub.Delivered())
	}
}
