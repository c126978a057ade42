package flowbus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-flowbus/pkg/types"
)

// imposter 与 Heartbeat 共用标签但 Go 类型不同
type imposter struct {
	types.BaseEvent
}

func TestSubscribeAs(t *testing.T) {
	rt := newStarted(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan types.Heartbeat, 4)
	require.NoError(t, SubscribeAs(ctx, rt, types.EvtHeartbeat, func(hb types.Heartbeat) {
		got <- hb
	}))

	require.NoError(t, rt.Post(imposter{types.NewBaseEvent(types.EvtHeartbeat)}))
	require.NoError(t, rt.Post(heartbeat(7)))

	select {
	case hb := <-got:
		assert.Equal(t, uint64(7), hb.Seq)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for typed event")
	}
	select {
	case hb := <-got:
		t.Fatalf("unexpected event %+v", hb)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscribeAs_OnceSkipsMismatch(t *testing.T) {
	rt := newStarted(t)
	require.NoError(t, rt.Post(imposter{types.NewBaseEvent(types.EvtHeartbeat)}, Sticky()))

	got := make(chan types.Heartbeat, 4)
	require.NoError(t, SubscribeAs(context.Background(), rt, types.EvtHeartbeat, func(hb types.Heartbeat) {
		got <- hb
	}, Once()))

	require.NoError(t, rt.Post(heartbeat(1)))
	require.NoError(t, rt.Post(heartbeat(2)))

	select {
	case hb := <-got:
		assert.Equal(t, uint64(1), hb.Seq)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for once delivery")
	}
	select {
	case hb := <-got:
		t.Fatalf("once subscription delivered twice: %+v", hb)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscribeAs_Invalid(t *testing.T) {
	rt := newStarted(t)

	assert.ErrorIs(t, SubscribeAs[types.Heartbeat](context.Background(), nil, types.EvtHeartbeat, func(types.Heartbeat) {}), ErrNotStarted)
	assert.ErrorIs(t, SubscribeAs[types.Heartbeat](context.Background(), rt, types.EvtHeartbeat, nil), ErrNilHandler)
	assert.ErrorIs(t, SubscribeAs(context.Background(), rt, "", func(types.Heartbeat) {}), ErrInvalidEventType)
}

func TestStickyAs(t *testing.T) {
	rt := newStarted(t)

	_, ok := StickyAs[types.Heartbeat](rt, types.EvtHeartbeat)
	assert.False(t, ok)

	require.NoError(t, rt.Post(heartbeat(3), Sticky()))
	hb, ok := StickyAs[types.Heartbeat](rt, types.EvtHeartbeat)
	require.True(t, ok)
	assert.Equal(t, uint64(3), hb.Seq)

	_, ok = StickyAs[types.AppStarted](rt, types.EvtHeartbeat)
	assert.False(t, ok, "类型不符")

	_, ok = StickyAs[types.Heartbeat](nil, types.EvtHeartbeat)
	assert.False(t, ok)
}
