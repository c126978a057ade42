// Package eventbus 实现事件总线
package eventbus

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dep2p/go-flowbus/pkg/types"
)

// ============================================================================
// 指标
// ============================================================================

const metricsSubsystem = "eventbus"

// Metrics 事件总线指标
//
// 所有方法对 nil 接收者安全。
type Metrics struct {
	posted        *prometheus.CounterVec
	dropped       *prometheus.CounterVec
	deliveredVec  *prometheus.CounterVec
	panics        *prometheus.CounterVec
	channels      prometheus.Gauge
	subscriptions prometheus.Gauge
}

// NewMetrics 创建指标并注册到 reg
//
// reg 为 nil 时只创建不注册。重复注册时复用已注册的收集器。
func NewMetrics(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		posted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: metricsSubsystem,
			Name:      "posted_total",
			Help:      "Number of events posted, by event type.",
		}, []string{"type", "sticky"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: metricsSubsystem,
			Name:      "dropped_total",
			Help:      "Number of per-subscriber deliveries dropped because the buffer was full.",
		}, []string{"type"}),
		deliveredVec: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: metricsSubsystem,
			Name:      "delivered_total",
			Help:      "Number of handler invocations that completed.",
		}, []string{"type"}),
		panics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: metricsSubsystem,
			Name:      "handler_panics_total",
			Help:      "Number of handler panics; each one ends its subscription.",
		}, []string{"type"}),
		channels: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: metricsSubsystem,
			Name:      "channels",
			Help:      "Number of per-type channels in the registry.",
		}),
		subscriptions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: metricsSubsystem,
			Name:      "subscriptions",
			Help:      "Number of active subscriptions.",
		}),
	}

	if reg == nil {
		return m, nil
	}

	var err error
	if m.posted, err = register(reg, m.posted); err != nil {
		return nil, err
	}
	if m.dropped, err = register(reg, m.dropped); err != nil {
		return nil, err
	}
	if m.deliveredVec, err = register(reg, m.deliveredVec); err != nil {
		return nil, err
	}
	if m.panics, err = register(reg, m.panics); err != nil {
		return nil, err
	}
	if m.channels, err = register(reg, m.channels); err != nil {
		return nil, err
	}
	if m.subscriptions, err = register(reg, m.subscriptions); err != nil {
		return nil, err
	}
	return m, nil
}

// register 注册收集器，已注册时返回已有实例
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *Metrics) postedEvent(typ types.EventType, sticky bool, dropped int) {
	if m == nil {
		return
	}
	m.posted.WithLabelValues(string(typ), strconv.FormatBool(sticky)).Inc()
	if dropped > 0 {
		m.dropped.WithLabelValues(string(typ)).Add(float64(dropped))
	}
}

func (m *Metrics) delivered(typ types.EventType) {
	if m == nil {
		return
	}
	m.deliveredVec.WithLabelValues(string(typ)).Inc()
}

func (m *Metrics) handlerPanicked(typ types.EventType) {
	if m == nil {
		return
	}
	m.panics.WithLabelValues(string(typ)).Inc()
}

func (m *Metrics) channelCreated() {
	if m == nil {
		return
	}
	m.channels.Inc()
}

func (m *Metrics) subscriptionOpened() {
	if m == nil {
		return
	}
	m.subscriptions.Inc()
}

func (m *Metrics) subscriptionClosed() {
	if m == nil {
		return
	}
	m.subscriptions.Dec()
}
