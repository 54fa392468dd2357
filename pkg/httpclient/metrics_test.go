package httpclient

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestMetricsAreLabelledByOperation(t *testing.T) {
	if _, err := transfersTotal.GetMetricWith(prometheus.Labels{"op": "posts", "code": "0"}); err != nil {
		t.Fatalf("transfers_total: %v", err)
	}
	if _, err := transferDuration.GetMetricWith(prometheus.Labels{"op": "gets"}); err != nil {
		t.Fatalf("transfer_duration_seconds: %v", err)
	}
	if _, err := bytesReceivedTotal.GetMetricWith(prometheus.Labels{"op": "get"}); err != nil {
		t.Fatalf("bytes_received_total: %v", err)
	}
	if _, err := transfersTotal.GetMetricWith(prometheus.Labels{"method": "GET", "code": "0"}); err == nil {
		t.Fatalf("transfers_total still accepts a method label")
	}
}
