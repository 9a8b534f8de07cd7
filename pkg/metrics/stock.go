package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StockMetrics records outcomes of stock ledger operations.
type StockMetrics struct {
	duration     *prometheus.HistogramVec
	allocations  prometheus.Counter
	consumptions prometheus.Counter
	rejections   *prometheus.CounterVec
}

// NewStockMetrics registers the stock ledger metrics on the provided registerer.
func NewStockMetrics(reg prometheus.Registerer) *StockMetrics {
	if reg == nil {
		return &StockMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stock_operation_duration_seconds",
		Help:    "Duration of stock ledger operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	allocations := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stock_allocations_total",
		Help: "Completed warehouse to clinic allocations.",
	})
	consumptions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stock_consumptions_total",
		Help: "Completed clinic stock consumptions.",
	})
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_rejections_total",
		Help: "Rejected stock operations by reason.",
	}, []string{"reason"})
	reg.MustRegister(duration, allocations, consumptions, rejections)
	return &StockMetrics{
		duration:     duration,
		allocations:  allocations,
		consumptions: consumptions,
		rejections:   rejections,
	}
}

// ObserveDuration records the duration for the named ledger operation.
func (s *StockMetrics) ObserveDuration(operation string, duration time.Duration) {
	if s == nil || s.duration == nil {
		return
	}
	s.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncAllocation increments the completed allocation counter.
func (s *StockMetrics) IncAllocation() {
	if s == nil || s.allocations == nil {
		return
	}
	s.allocations.Inc()
}

// IncConsumption increments the completed consumption counter.
func (s *StockMetrics) IncConsumption() {
	if s == nil || s.consumptions == nil {
		return
	}
	s.consumptions.Inc()
}

// IncRejection increments the rejection counter for the given reason.
func (s *StockMetrics) IncRejection(reason string) {
	if s == nil || s.rejections == nil {
		return
	}
	s.rejections.WithLabelValues(normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
