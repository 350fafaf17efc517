package verification

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// otpIssuedTotal tracks issuance attempts by outcome
	otpIssuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aquaadapt",
			Subsystem: "otp",
			Name:      "issued_total",
			Help:      "Total verification code issuance attempts",
		},
		[]string{"status"}, // success, invalid_request, storage_error, misconfigured, delivery_failed
	)

	// otpVerifyTotal tracks verification attempts by result
	otpVerifyTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "aquaadapt",
			Subsystem: "otp",
			Name:      "verify_total",
			Help:      "Total verification attempts",
		},
		[]string{"result"}, // accepted, rejected, error
	)

	// otpDeliveryLatency tracks provider hand-off latency
	otpDeliveryLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "aquaadapt",
			Subsystem: "otp",
			Name:      "delivery_latency_seconds",
			Help:      "Email provider hand-off latency in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
	)
)
