package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lens_sessions_active",
		Help: "Number of guidance sessions currently open.",
	})

	SessionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lens_sessions_total",
		Help: "Total guidance sessions accepted since start.",
	})

	FramesReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lens_frames_received_total",
		Help: "Client input frames received, by modality.",
	}, []string{"modality"})

	VideoFramesCoalesced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lens_video_frames_coalesced_total",
		Help: "Camera frames discarded because a newer frame replaced them.",
	})

	EventsRelayed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lens_events_relayed_total",
		Help: "Structured events forwarded to clients, by type.",
	}, []string{"type"})

	BargeIns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lens_barge_ins_total",
		Help: "Times the agent was interrupted by user speech.",
	})

	UpstreamErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lens_upstream_errors_total",
		Help: "Fatal upstream stream failures.",
	})

	FallbacksDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lens_fallbacks_delivered_total",
		Help: "Sessions that ended with the static fallback package.",
	})
)
