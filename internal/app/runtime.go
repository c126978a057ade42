package app

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dep2p/go-flowbus/config"
	"github.com/dep2p/go-flowbus/internal/core/eventbus"
	pkgif "github.com/dep2p/go-flowbus/pkg/interfaces"
)

// Runtime 表示一个已通过 fx 组装完成的 FlowBus 运行时。
//
// 根包 flowbus 的 Runtime 组合本结构对外提供 API。
type Runtime struct {
	EventBus pkgif.EventBus
	Bus      *eventbus.Bus
	Config   *config.Config
	Gatherer prometheus.Gatherer

	stop func(ctx context.Context) error
}

// Stop 停止运行时（触发 fx 生命周期 OnStop）。
func (r *Runtime) Stop(ctx context.Context) error {
	if r.stop == nil {
		return nil
	}
	return r.stop(ctx)
}
