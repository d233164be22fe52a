package dbcmetrics

import (
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if r.FilesOpenedTotal == nil || r.RecordsDecodedTotal == nil || r.SegmentsParsedTotal == nil {
		t.Error("expected metrics not initialized")
	}
	if r.registry == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	r1 := DefaultRegistry()
	r2 := DefaultRegistry()
	if r1 != r2 {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordOpen(t *testing.T) {
	r := NewRegistry()
	r.RecordOpen("WDC1", "ok", 5*time.Millisecond)
	r.RecordOpen("WDC1", "ok", 7*time.Millisecond)
	r.RecordOpen("WDC1", "error", 1*time.Millisecond)

	counter, err := r.FilesOpenedTotal.GetMetricWithLabelValues("WDC1", "ok")
	if err != nil {
		t.Fatalf("GetMetricWithLabelValues: %v", err)
	}
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if metric.Counter.GetValue() != 2 {
		t.Errorf("ok counter = %v, want 2", metric.Counter.GetValue())
	}
}

func TestRecordDecode(t *testing.T) {
	r := NewRegistry()
	r.RecordDecode("WDB5", 2*time.Microsecond)
	r.RecordDecode("WDB5", 3*time.Microsecond)

	counter, err := r.RecordsDecodedTotal.GetMetricWithLabelValues("WDB5")
	if err != nil {
		t.Fatalf("GetMetricWithLabelValues: %v", err)
	}
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if metric.Counter.GetValue() != 2 {
		t.Errorf("decoded counter = %v, want 2", metric.Counter.GetValue())
	}
}

func TestRecordSegmentAndTruncation(t *testing.T) {
	r := NewRegistry()
	r.RecordSegment("StringBlock")
	r.RecordSegment("StringBlock")
	r.RecordTruncation("CommonData")

	segCounter, _ := r.SegmentsParsedTotal.GetMetricWithLabelValues("StringBlock")
	var metric dto.Metric
	if err := segCounter.Write(&metric); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if metric.Counter.GetValue() != 2 {
		t.Errorf("StringBlock segment counter = %v, want 2", metric.Counter.GetValue())
	}

	truncCounter, _ := r.TruncatedReadsTotal.GetMetricWithLabelValues("CommonData")
	if err := truncCounter.Write(&metric); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if metric.Counter.GetValue() != 1 {
		t.Errorf("CommonData truncation counter = %v, want 1", metric.Counter.GetValue())
	}
}

func TestPlanCacheCounters(t *testing.T) {
	r := NewRegistry()
	r.RecordPlanCacheBuild()
	r.RecordPlanCacheHit()
	r.RecordPlanCacheHit()

	var metric dto.Metric
	if err := r.PlanCacheBuildsTotal.Write(&metric); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if metric.Counter.GetValue() != 1 {
		t.Errorf("builds = %v, want 1", metric.Counter.GetValue())
	}
	if err := r.PlanCacheHitsTotal.Write(&metric); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if metric.Counter.GetValue() != 2 {
		t.Errorf("hits = %v, want 2", metric.Counter.GetValue())
	}
}

func TestMetricNaming(t *testing.T) {
	r := NewRegistry()
	promRegistry := r.GetPrometheusRegistry()

	metrics, err := promRegistry.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, m := range metrics {
		if !strings.HasPrefix(m.GetName(), "dbcdata_") {
			t.Errorf("metric %s does not have dbcdata_ prefix", m.GetName())
		}
	}
}

func BenchmarkRecordDecode(b *testing.B) {
	r := NewRegistry()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.RecordDecode("WDC1", time.Microsecond)
	}
}
