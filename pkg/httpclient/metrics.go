package httpclient

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	transfersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "transfer_client",
			Name:      "transfers_total",
			Help:      "Completed transfers by operation and completion code.",
		},
		[]string{"op", "code"},
	)

	transferDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "transfer_client",
			Name:      "transfer_duration_seconds",
			Help:      "Wall time of a transfer from handle creation to release.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 6},
		},
		[]string{"op"},
	)

	bytesReceivedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "transfer_client",
			Name:      "bytes_received_total",
			Help:      "Body bytes appended to output buffers.",
		},
		[]string{"op"},
	)
)
