package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct{ in, want string }{
		{"/api/v1/places/123", "/api/v1/places/{id}"},
		{"/api/v1/users/7/", "/api/v1/users/{id}/"},
		{"/api/v1/bookings", "/api/v1/bookings"},
		{"/health", "/health"},
	}
	for _, tt := range tests {
		if got := NormalizePath(tt.in); got != tt.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestIncBookings(t *testing.T) {
	before := counterValue(t, BookingsTotal.WithLabelValues("created"))
	IncBookings("created")
	if got := counterValue(t, BookingsTotal.WithLabelValues("created")); got != before+1 {
		t.Errorf("bookings_total{created}: got %v, want %v", got, before+1)
	}
}
