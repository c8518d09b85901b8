package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var noteOperations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "microdoc",
	Name:      "note_operations_total",
	Help:      "Note operations by kind and outcome.",
}, []string{"op", "result"})

var notesPurged = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "microdoc",
	Name:      "notes_purged_total",
	Help:      "Expired notes physically removed by the purge task.",
})

// observe records the outcome of one note operation
func observe(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	noteOperations.WithLabelValues(op, result).Inc()
}
