// Package signaler implements a rendezvous service for exactly two
// peers: it pairs websocket connections into rooms keyed by their
// user id pair and relays opaque signaling envelopes between them
// until a direct peer-to-peer session is up.
package signaler

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/signalhop/signalhop/pkg/config"
	"github.com/signalhop/signalhop/pkg/logger"
	"github.com/signalhop/signalhop/pkg/monitoring"
	"github.com/signalhop/signalhop/pkg/service"
)

type Signaler struct {
	conf     config.Config
	log      *logger.Logger
	services service.Group
}

func New(conf config.Config, log *logger.Logger) (*Signaler, error) {
	metrics := NewMetrics(prometheus.DefaultRegisterer)
	registry := NewRegistry(log, metrics)
	router := NewRouter(registry, metrics, log)
	hub := NewHub(conf.Signaler, router, metrics, log)

	s := &Signaler{conf: conf, log: log}

	srv, err := NewHTTPServer(conf, log, hub)
	if err != nil {
		return nil, err
	}
	s.services.Add(srv)

	if conf.Signaler.Monitoring.IsEnabled() {
		mon, err := monitoring.New(conf.Signaler.Monitoring, log)
		if err != nil {
			return nil, err
		}
		s.services.Add(mon)
	}
	return s, nil
}

func (s *Signaler) Start() { s.services.Start() }

func (s *Signaler) Shutdown(ctx context.Context) error { return s.services.Shutdown(ctx) }
