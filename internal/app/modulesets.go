// Package app 提供模块集合清单
//
// modulesets.go 集中维护 Bootstrap 组装的模块，是模块清单的唯一来源。
package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/dep2p/go-flowbus/config"
	"github.com/dep2p/go-flowbus/internal/core/eventbus"
)

// ConfigModule 配置模块 (Tier 0)
func ConfigModule(cfg *config.Config) fx.Option {
	return fx.Module("config",
		fx.Supply(cfg),
	)
}

// MetricsModule 指标模块 (Tier 1)
//
// 同一个 Registry 以 Registerer 和 Gatherer 两种身份提供。
func MetricsModule(reg *prometheus.Registry) fx.Option {
	return fx.Module("metrics",
		fx.Provide(
			func() prometheus.Registerer { return reg },
			func() prometheus.Gatherer { return reg },
		),
	)
}

// CoreModules 核心模块组合 (Tier 2)
//
// 目前只有事件总线。
func CoreModules() fx.Option {
	return fx.Options(
		eventbus.Module(),
	)
}
