package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PaymentsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "beerlog_payments_recorded_total",
		Help: "Payments recorded through the API.",
	})

	AllocationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "beerlog_allocations_created_total",
		Help: "Allocation rows written by sweeps.",
	})

	CentsAllocated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "beerlog_cents_allocated_total",
		Help: "Total cents moved from payments to beer logs.",
	})

	LogsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "beerlog_logs_recorded_total",
		Help: "Beer logs created through the API.",
	})
)
