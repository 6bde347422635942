package updater

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "start_page",
		Subsystem: "update",
		Name:      "operations_total",
		Help:      "Update operations by name and result.",
	}, []string{"operation", "result"})

	updateAvailable = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "start_page",
		Subsystem: "update",
		Name:      "available",
		Help:      "1 when the last check found a newer release.",
	})
)

func observe(operation string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	operationsTotal.WithLabelValues(operation, result).Inc()
}
