package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestStockMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewStockMetrics(reg)
	metrics.ObserveDuration("allocate", 150*time.Millisecond)
	metrics.IncAllocation()
	metrics.IncConsumption()
	metrics.IncRejection("insufficient_clinic_stock")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "stock_allocations_total", "", ""); err != nil {
		t.Fatalf("fetch allocations: %v", err)
	} else if got != 1 {
		t.Fatalf("expected allocations=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "stock_consumptions_total", "", ""); err != nil {
		t.Fatalf("fetch consumptions: %v", err)
	} else if got != 1 {
		t.Fatalf("expected consumptions=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "stock_rejections_total", "reason", "insufficient_clinic_stock"); err != nil {
		t.Fatalf("fetch rejections: %v", err)
	} else if got != 1 {
		t.Fatalf("expected rejections=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "stock_operation_duration_seconds", "operation", "allocate"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestStockMetricsNilRegistererIsNoop(t *testing.T) {
	metrics := NewStockMetrics(nil)
	metrics.ObserveDuration("consume", time.Millisecond)
	metrics.IncAllocation()
	metrics.IncConsumption()
	metrics.IncRejection("")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if label == "" || matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
