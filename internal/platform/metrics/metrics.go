// Package metrics declares the process prometheus collectors
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "addrcheck"

var (
	// Dispatcher
	Submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "dispatcher",
		Name:      "submissions_total",
		Help:      "Address submissions by verdict",
	}, []string{"status"})

	Choices = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "dispatcher",
		Name:      "choices_total",
		Help:      "Blockchain choices by outcome",
	}, []string{"blockchain", "status"})

	PendingRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "registry",
		Name:      "entries",
		Help:      "Requests currently held by the registry",
	})

	// Collaborator
	CheckLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "client",
		Name:      "call_duration_seconds",
		Help:      "Verification collaborator call duration",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"op", "result"})

	// Supervisor
	Polls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "supervisor",
		Name:      "polls_total",
		Help:      "Recheck polls by result",
	}, []string{"result"})

	ActivePollers = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "supervisor",
		Name:      "active_loops",
		Help:      "Poll loops currently running",
	})

	LoopExits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "supervisor",
		Name:      "loop_exits_total",
		Help:      "Poll loop terminations by reason",
	}, []string{"reason"})

	// Sinks
	Deliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "sink",
		Name:      "deliveries_total",
		Help:      "Result deliveries by sink and result",
	}, []string{"sink", "result"})
)

// Handler serves the default registry
func Handler() http.Handler { return promhttp.Handler() }
