package service

import "github.com/prometheus/client_golang/prometheus"

var (
	paymentsRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "payments_recorded_total", Help: "Payment records by reconciliation outcome"},
		[]string{"outcome"}, // ok / partial / duplicate / failed
	)
	intentsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "payment_intents_total", Help: "Gateway payment intents by outcome"},
		[]string{"outcome"}, // ok / invalid / gateway_error / timeout / already_paid
	)
	sweepRepaired = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "payment_sweep_repaired_total", Help: "Payments whose booking/listing flags were repaired by the sweeper"},
	)
)

func init() { prometheus.MustRegister(paymentsRecorded, intentsCreated, sweepRepaired) }
