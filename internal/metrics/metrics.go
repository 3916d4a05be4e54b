package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TicksNormalized = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ticks_normalized_total", Help: "Ticks cleaned into the normalized series"},
		[]string{"symbol"},
	)
	BricksEmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "bricks_emitted_total", Help: "Renko bricks emitted"},
		[]string{"symbol", "direction"},
	)
	LabelsEmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "labels_emitted_total", Help: "Triple-barrier labels resolved"},
		[]string{"symbol", "value"},
	)
	SnapshotsDecoded = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "depth_snapshots_decoded_total", Help: "Depth snapshots decoded from the feed"},
	)
	FeedReconnects = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "feed_reconnects_total", Help: "Gateway feed reconnect attempts after a drop"},
	)
)

func init() {
	prometheus.MustRegister(TicksNormalized, BricksEmitted, LabelsEmitted, SnapshotsDecoded, FeedReconnects)
}

func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
