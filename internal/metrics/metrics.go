// Package metrics provides Prometheus metrics for the livebrowse client.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Directory loads
	loadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "livebrowse_directory_loads_total",
			Help: "Total directory loads by outcome",
		},
		[]string{"result"},
	)

	loadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "livebrowse_directory_load_duration_seconds",
			Help:    "Directory listing request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	staleLoadsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "livebrowse_stale_loads_dropped_total",
			Help: "Listing responses discarded because a newer load was issued",
		},
	)

	// Push channel
	pushMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "livebrowse_push_messages_total",
			Help: "Push messages received by type",
		},
		[]string{"type"},
	)

	reconnectsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "livebrowse_push_reconnects_scheduled_total",
			Help: "Reconnection attempts scheduled after a closed push connection",
		},
	)

	connectionState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "livebrowse_push_connection_state",
			Help: "1 for the current push connection state, 0 otherwise",
		},
		[]string{"state"},
	)

	// Random media
	randomMediaTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "livebrowse_random_media_requests_total",
			Help: "Random media requests by outcome",
		},
		[]string{"result"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

func result(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

// RecordLoad records a finished directory load.
func RecordLoad(success bool, duration time.Duration) {
	loadsTotal.WithLabelValues(result(success)).Inc()
	loadDuration.Observe(duration.Seconds())
}

// RecordStaleLoad records a listing response that arrived after a newer load was issued.
func RecordStaleLoad() {
	staleLoadsDropped.Inc()
}

// RecordPushMessage records an inbound push message. Unparsable payloads use type "malformed".
func RecordPushMessage(msgType string) {
	if msgType == "" {
		msgType = "unknown"
	}
	pushMessagesTotal.WithLabelValues(msgType).Inc()
}

// RecordReconnectScheduled records a scheduled reconnection.
func RecordReconnectScheduled() {
	reconnectsTotal.Inc()
}

var connectionStates = []string{"disconnected", "connecting", "connected"}

// SetConnectionState marks state as the current push connection state.
func SetConnectionState(state string) {
	for _, s := range connectionStates {
		v := 0.0
		if s == state {
			v = 1
		}
		connectionState.WithLabelValues(s).Set(v)
	}
}

// RecordRandomMedia records a random media request.
func RecordRandomMedia(success bool) {
	randomMediaTotal.WithLabelValues(result(success)).Inc()
}
