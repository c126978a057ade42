package main

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/dep2p/go-flowbus"
	"github.com/dep2p/go-flowbus/internal/app"
	pkgif "github.com/dep2p/go-flowbus/pkg/interfaces"
	"github.com/dep2p/go-flowbus/pkg/types"
)

var errNotBound = errors.New("demo: event bus not bound")

// demo 演示组件
//
// 启动时注册订阅者、粘性发布 app.started，然后按 interval 发布心跳。
type demo struct {
	clock    clock.Clock
	interval time.Duration
	bus      pkgif.EventBus

	seq       atomic.Uint64
	heartbeat atomic.Uint64 // 订阅者收到的心跳数
	started   atomic.Bool   // 单次订阅者是否收到启动事件

	cancel context.CancelFunc
	done   chan struct{}
}

func newDemo(clk clock.Clock, interval time.Duration) *demo {
	return &demo{
		clock:    clk,
		interval: interval,
	}
}

func (d *demo) bind(bus pkgif.EventBus) {
	d.bus = bus
}

func (d *demo) hook() app.LifecycleHook {
	return app.LifecycleHook{
		Name:    "demo",
		OnStart: d.start,
		OnStop:  d.stop,
	}
}

func (d *demo) start(_ context.Context) error {
	if d.bus == nil {
		return errNotBound
	}

	// 订阅和心跳的生命周期跟随 demo，而不是启动钩子的 ctx
	ctx, cancel := context.WithCancel(context.Background())

	if err := flowbus.SubscribeAs(ctx, d.bus, types.EvtAppStarted, d.onStarted, flowbus.Once()); err != nil {
		cancel()
		return err
	}
	if err := flowbus.SubscribeAs(ctx, d.bus, types.EvtHeartbeat, d.onHeartbeat); err != nil {
		cancel()
		return err
	}

	started := types.AppStarted{
		BaseEvent: types.BaseEvent{EventType: types.EvtAppStarted, Time: d.clock.Now()},
		Version:   flowbus.Version,
		PID:       os.Getpid(),
	}
	if err := d.bus.Post(started, flowbus.Sticky()); err != nil {
		cancel()
		return err
	}

	// ticker 在返回前创建，之后推进时钟一定能触发
	ticker := d.clock.Ticker(d.interval)
	d.cancel = cancel
	d.done = make(chan struct{})
	go d.loop(ctx, ticker)

	logger.Info("心跳发布者已启动", "interval", d.interval)
	return nil
}

func (d *demo) loop(ctx context.Context, ticker *clock.Ticker) {
	defer close(d.done)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.beat()
		}
	}
}

func (d *demo) beat() {
	hb := types.Heartbeat{
		BaseEvent: types.BaseEvent{EventType: types.EvtHeartbeat, Time: d.clock.Now()},
		Seq:       d.seq.Add(1),
	}
	if err := d.bus.Post(hb); err != nil {
		logger.Warn("发布心跳失败", "seq", hb.Seq, "err", err)
	}
}

func (d *demo) stop(ctx context.Context) error {
	if d.cancel == nil {
		return nil
	}
	d.cancel()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *demo) onStarted(evt types.AppStarted) {
	d.started.Store(true)
	logger.Info("收到启动事件", "version", evt.Version, "pid", evt.PID, "at", evt.Time)
}

func (d *demo) onHeartbeat(evt types.Heartbeat) {
	d.heartbeat.Add(1)
	logger.Info("心跳", "seq", evt.Seq)
}
