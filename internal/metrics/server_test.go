package metrics

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/inept/internal/event"
)

func newTestServer(t *testing.T, bus BusStats) (*Server, *Collector) {
	t.Helper()
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)
	return NewServer("127.0.0.1:0", reg, bus, zerolog.Nop()), c
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestServer_Healthz(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rr := get(t, s.Handler(), "/healthz")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}

func TestServer_Metrics(t *testing.T) {
	s, c := newTestServer(t, nil)
	c.ObserveFrame(5 * time.Millisecond)
	c.EventPublished(event.AppTick, false)

	rr := get(t, s.Handler(), "/metrics")
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "inept_loop_frames_total 1")
	assert.Contains(t, body, `inept_bus_events_published_total{mode="deferred",type="AppTick"} 1`)
}

func TestServer_DebugBus(t *testing.T) {
	bus := event.NewBus()
	defer bus.Close()
	bus.Subscribe(event.AppTick, func(*event.Event) {})
	bus.Publish(event.NewAppTick())
	bus.Publish(event.NewAppTick())
	bus.ProcessEvents()

	s, _ := newTestServer(t, bus)
	rr := get(t, s.Handler(), "/debug/bus")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var stats event.Stats
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &stats))
	assert.Equal(t, uint64(2), stats.Published)
	assert.Equal(t, uint64(2), stats.Delivered)
	assert.Equal(t, 1, stats.Subscribers)
	assert.Contains(t, rr.Body.String(), `"published":2`)
	assert.Contains(t, rr.Body.String(), `"handler_time":`)
}

func TestServer_DebugBusWithoutBus(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rr := get(t, s.Handler(), "/debug/bus")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestServer_CORS(t *testing.T) {
	s, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://example.test")
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)

	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_NotFound(t *testing.T) {
	s, _ := newTestServer(t, nil)
	assert.Equal(t, http.StatusNotFound, get(t, s.Handler(), "/nope").Code)
}

func TestServer_StartShutdown(t *testing.T) {
	s, _ := newTestServer(t, nil)

	require.NoError(t, s.Start())
	assert.Error(t, s.Start(), "second Start should fail")
	addr := s.Addr()
	assert.False(t, strings.HasSuffix(addr, ":0"), "Addr() should report the bound port, got %s", addr)

	resp, err := http.Get("http://" + addr + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
	assert.NoError(t, s.Shutdown(ctx), "second Shutdown is a no-op")
}

func TestServer_StartBadAddr(t *testing.T) {
	s := NewServer("256.0.0.1:bad", prometheus.NewRegistry(), nil, zerolog.Nop())
	assert.Error(t, s.Start())
}
