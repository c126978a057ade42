// Package config 提供统一的配置管理
package config

import (
	"fmt"
	"net"

	"github.com/dep2p/go-flowbus/pkg/types"
)

// MetricsConfig Prometheus 指标配置
type MetricsConfig struct {
	// Enabled 是否启用指标
	// 默认值: true
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Namespace 指标名前缀
	// 默认值: flowbus
	Namespace string `json:"namespace" yaml:"namespace"`

	// ListenAddr /metrics 监听地址，空表示不对外提供
	ListenAddr string `json:"listen_addr,omitempty" yaml:"listen_addr,omitempty"`
}

// DefaultMetricsConfig 返回默认的指标配置
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:   true,
		Namespace: "flowbus",
	}
}

// Validate 验证指标配置
func (c MetricsConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Namespace == "" {
		return fmt.Errorf("%w: metrics.namespace is required when metrics are enabled", types.ErrInvalidConfig)
	}
	if c.ListenAddr != "" {
		if _, _, err := net.SplitHostPort(c.ListenAddr); err != nil {
			return fmt.Errorf("%w: metrics.listen_addr: %v", types.ErrInvalidConfig, err)
		}
	}
	return nil
}
