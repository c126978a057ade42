package eventbus

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-flowbus/config"
	pkgif "github.com/dep2p/go-flowbus/pkg/interfaces"
	"github.com/dep2p/go-flowbus/pkg/types"
)

// ============================================================================
// Fx 模块测试
// ============================================================================

// TestModule_Load 测试 Fx 模块加载
func TestModule_Load(t *testing.T) {
	var (
		loadedBus pkgif.EventBus
		concrete  *Bus
	)

	app := fxtest.New(t,
		Module(),
		fx.Populate(&loadedBus, &concrete),
	)
	app.RequireStart()

	require.NotNil(t, loadedBus, "EventBus not injected by Fx")
	assert.Same(t, concrete, loadedBus.(*Bus))

	app.RequireStop()

	err := loadedBus.Post(newTestEvent(evtA, "after stop"))
	assert.ErrorIs(t, err, ErrClosed, "OnStop 应关闭总线")
}

// TestModule_UsesConfig 测试注入配置与指标注册
func TestModule_UsesConfig(t *testing.T) {
	cfg := config.NewConfig()
	cfg.EventBus.BufferSize = 8
	cfg.Metrics.Namespace = "fxtest"
	reg := prometheus.NewRegistry()

	var bus *Bus
	app := fxtest.New(t,
		fx.Supply(cfg),
		fx.Provide(func() prometheus.Registerer { return reg }),
		Module(),
		fx.Populate(&bus),
	)
	app.RequireStart()
	defer app.RequireStop()

	assert.Equal(t, 8, bus.bufSize)
	require.NotNil(t, bus.metrics)

	require.NoError(t, bus.Post(newTestEvent(evtA, "x")))
	count, err := testutil.GatherAndCount(reg, "fxtest_eventbus_posted_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

// ============================================================================
// ProvideEventBus 测试
// ============================================================================

func TestProvideEventBus_Defaults(t *testing.T) {
	result, err := ProvideEventBus(Params{})
	require.NoError(t, err)
	defer result.Bus.Close()

	assert.NotNil(t, result.EventBus)
	assert.Same(t, result.Bus, result.EventBus.(*Bus))
	assert.Equal(t, DefaultBufferSize, result.Bus.bufSize)
	assert.NotNil(t, result.Bus.metrics, "默认启用指标（未注册）")
}

func TestProvideEventBus_MetricsDisabled(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Metrics.Enabled = false

	result, err := ProvideEventBus(Params{Config: cfg})
	require.NoError(t, err)
	defer result.Bus.Close()

	assert.Nil(t, result.Bus.metrics)
}

func TestProvideEventBus_InvalidConfig(t *testing.T) {
	cfg := config.NewConfig()
	cfg.EventBus.BufferSize = 0

	_, err := ProvideEventBus(Params{Config: cfg})
	assert.ErrorIs(t, err, types.ErrInvalidConfig)
}

// ============================================================================
// 关闭超时测试
// ============================================================================

func TestCloseWithTimeout(t *testing.T) {
	t.Run("正常关闭", func(t *testing.T) {
		bus := NewBus()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		require.NoError(t, bus.Subscribe(ctx, evtA, func(types.Event) {}))

		require.NoError(t, closeWithTimeout(context.Background(), bus, time.Second))
		assert.Equal(t, 0, subscribers(bus, evtA))
	})

	t.Run("回调阻塞时超时", func(t *testing.T) {
		bus := NewBus()
		release := make(chan struct{})
		entered := make(chan struct{})
		require.NoError(t, bus.Subscribe(context.Background(), evtA, func(types.Event) {
			close(entered)
			<-release
		}))
		require.NoError(t, bus.Post(newTestEvent(evtA, "block")))
		<-entered

		err := closeWithTimeout(context.Background(), bus, 20*time.Millisecond)
		assert.True(t, errors.Is(err, context.DeadlineExceeded), "got %v", err)

		close(release)
		require.NoError(t, bus.Close())
	})
}
