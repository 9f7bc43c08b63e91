package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "piano_dispatch_events_received_total",
		Help: "Engagement events accepted for dispatch, labelled by event type.",
	}, []string{"event_type"})

	EventsEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "piano_dispatch_events_enqueued_total",
		Help: "Engagement events placed on the dispatch queue.",
	})

	EventsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "piano_dispatch_events_dropped_total",
		Help: "Engagement events rejected because the queue was full.",
	})

	OutputEventsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "piano_dispatch_output_events_total",
		Help: "Analytics events handed to the sender, labelled by event name and status.",
	}, []string{"event_name", "status"})

	SinkFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "piano_dispatch_sink_failures_total",
		Help: "Delivery failures, labelled by sink type.",
	}, []string{"sink"})

	DispatchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "piano_dispatch_duration_ms",
		Help:    "Time spent translating and sending one engagement event, in milliseconds.",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 25, 50, 100, 250, 1000},
	})

	QueueUtilization = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "piano_dispatch_queue_utilization_ratio",
		Help: "Current dispatch queue utilization (0-1).",
	})
)
