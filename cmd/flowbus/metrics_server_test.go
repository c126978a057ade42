package main

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServer(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "demo_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	srv := newMetricsServer("127.0.0.1:0", reg)
	require.NoError(t, srv.start(context.Background()))
	defer srv.stop(context.Background())

	resp, err := http.Get("http://" + srv.ln.Addr().String() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "demo_test_total 1")
}

func TestMetricsServer_StopWithoutStart(t *testing.T) {
	srv := newMetricsServer("127.0.0.1:0", prometheus.NewRegistry())
	assert.NoError(t, srv.stop(context.Background()))
}

func TestMetricsServer_BadAddr(t *testing.T) {
	srv := newMetricsServer("256.0.0.1:99999", prometheus.NewRegistry())
	assert.Error(t, srv.start(context.Background()))
}
