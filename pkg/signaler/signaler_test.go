package signaler

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/signalhop/signalhop/pkg/api"
	"github.com/signalhop/signalhop/pkg/logger"
)

// fakeSink records every envelope instead of delivering it.
type fakeSink struct {
	mu     sync.Mutex
	sent   []any
	closed bool
}

func (f *fakeSink) Send(envelope any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, envelope)
	return nil
}

func (f *fakeSink) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeSink) envelopes() []any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]any(nil), f.sent...)
}

func (f *fakeSink) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// kinds flattens the recorded envelopes to their discriminators.
func (f *fakeSink) kinds() []api.Kind {
	var out []api.Kind
	for _, e := range f.envelopes() {
		out = append(out, kindOf(e))
	}
	return out
}

func kindOf(envelope any) api.Kind {
	switch v := envelope.(type) {
	case api.RoomResponse:
		return v.T
	case api.RoomInfoResponse:
		return v.T
	case api.RelayResponse:
		return v.T
	case api.ByeResponse:
		return v.T
	case api.ErrorResponse:
		return v.T
	}
	return ""
}

type testRig struct {
	registry *Registry
	router   *Router
	metrics  *Metrics
}

func newTestRig() *testRig {
	log := logger.New(false)
	metrics := NewMetrics(prometheus.NewRegistry())
	registry := NewRegistry(log, metrics)
	return &testRig{
		registry: registry,
		router:   NewRouter(registry, metrics, log),
		metrics:  metrics,
	}
}

func (r *testRig) newSession() (*Session, *fakeSink) {
	sink := &fakeSink{}
	return NewSession(sink, logger.New(false)), sink
}
