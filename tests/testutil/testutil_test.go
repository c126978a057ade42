package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-flowbus"
)

func TestStartRuntimeAndRecorder(t *testing.T) {
	rt := StartRuntime(t, flowbus.DisableMetrics())
	rec := NewRecorder()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, rt.Subscribe(ctx, DefaultTestEventType, rec.Handle))

	for i := 0; i < 3; i++ {
		require.NoError(t, rt.Post(NewTestEvent(i, "v")))
	}

	events := rec.WaitN(t, 3)
	for i, evt := range events {
		assert.Equal(t, i, evt.(TestEvent).Seq)
	}
}

func TestWaitForCondition(t *testing.T) {
	assert.True(t, WaitForCondition(t, time.Second, time.Millisecond, func() bool { return true }))
	assert.False(t, WaitForCondition(t, 10*time.Millisecond, time.Millisecond, func() bool { return false }))

	start := time.Now()
	Eventually(t, time.Second, func() bool { return time.Since(start) > 10*time.Millisecond }, "延迟条件")
}
