package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dep2p/go-flowbus/internal/app"
)

// metricsServer 通过 HTTP 暴露 /metrics
type metricsServer struct {
	addr string
	srv  *http.Server
	ln   net.Listener
}

func newMetricsServer(addr string, g prometheus.Gatherer) *metricsServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))

	return &metricsServer{
		addr: addr,
		srv: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

func (m *metricsServer) hook() app.LifecycleHook {
	return app.LifecycleHook{
		Name:    "metrics",
		OnStart: m.start,
		OnStop:  m.stop,
	}
}

func (m *metricsServer) start(_ context.Context) error {
	ln, err := net.Listen("tcp", m.addr)
	if err != nil {
		return err
	}
	m.ln = ln

	go func() {
		if err := m.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("指标服务异常退出", "err", err)
		}
	}()
	logger.Info("指标服务已启动", "addr", ln.Addr().String())
	return nil
}

func (m *metricsServer) stop(ctx context.Context) error {
	if m.ln == nil {
		return nil
	}
	return m.srv.Shutdown(ctx)
}
