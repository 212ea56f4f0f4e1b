package heat

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	framesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "heatsim_frames_total",
		Help: "Total number of completed frames",
	})

	subStepsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "heatsim_sub_steps_total",
		Help: "Total number of completed heater+stencil sub-steps",
	})

	frameDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "heatsim_frame_duration_seconds",
		Help:    "Wall time of one frame of sub-steps",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~2s
	})

	frameFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "heatsim_frame_failures_total",
		Help: "Total number of frames that aborted the run",
	})
)
