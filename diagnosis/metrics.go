package diagnosis

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	diagnosesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "liamed_diagnoses_total",
		Help: "Diagnoses created, labeled by provider tier.",
	}, []string{"tier"})

	dispatchErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "liamed_provider_dispatch_errors_total",
		Help: "Provider calls that failed and were embedded as error text.",
	})
)
