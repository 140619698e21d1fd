// Package metrics exposes Prometheus instrumentation for the relay.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ConnectionsActive tracks currently open websocket connections.
	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "roomcast_connections_active",
		Help: "Number of currently open websocket connections.",
	})

	// MessagesRelayed counts messages appended and broadcast to a room.
	MessagesRelayed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roomcast_messages_relayed_total",
		Help: "Total messages durably appended and relayed.",
	})

	// BroadcastsDropped counts deliveries skipped because a subscriber's
	// event buffer was full.
	BroadcastsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roomcast_broadcasts_dropped_total",
		Help: "Total per-subscriber deliveries dropped due to backpressure.",
	})

	// StoreErrors counts failed room store calls.
	StoreErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "roomcast_store_errors_total",
		Help: "Total room store call failures.",
	})
)

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
