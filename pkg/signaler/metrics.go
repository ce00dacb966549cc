package signaler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "signalhop"

type Metrics struct {
	Connections prometheus.Gauge
	Rooms       prometheus.Gauge
	Relayed     *prometheus.CounterVec
	Errors      *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Connections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections",
			Help:      "Number of live websocket connections.",
		}),
		Rooms: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rooms",
			Help:      "Number of live rooms.",
		}),
		Relayed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "envelopes_relayed_total",
			Help:      "Envelopes relayed between peers, by kind.",
		}, []string{"kind"}),
		Errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "protocol_errors_total",
			Help:      "Protocol violations seen on inbound envelopes, by reason.",
		}, []string{"reason"}),
	}
}
