package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range metrics {
		if mf.GetName() == name {
			var total float64
			for _, m := range mf.GetMetric() {
				total += m.GetCounter().GetValue()
			}
			return total
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	if c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

// TestRecordReservationCreated_IncrementsCounter は予約作成カウンタが増加することを検証する。
func TestRecordReservationCreated_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordReservationCreated()
	c.RecordReservationCreated()

	if val := counterValue(t, reg, "reservatie_reservations_created_total"); val != 2 {
		t.Errorf("reservations_created_total = %v, want 2", val)
	}
}

// TestRecordReservationRejected_LabelsByReason は拒否理由別にカウントされることを検証する。
func TestRecordReservationRejected_LabelsByReason(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordReservationRejected("DATE_BLOCKED")
	c.RecordReservationRejected("DATE_BLOCKED")
	c.RecordReservationRejected("YEARLY_QUOTA_EXCEEDED")

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	for _, mf := range metrics {
		if mf.GetName() != "reservatie_reservations_rejected_total" {
			continue
		}
		if len(mf.GetMetric()) != 2 {
			t.Fatalf("expected 2 labeled series, got %d", len(mf.GetMetric()))
		}
		for _, m := range mf.GetMetric() {
			reason := m.GetLabel()[0].GetValue()
			val := m.GetCounter().GetValue()
			switch reason {
			case "DATE_BLOCKED":
				if val != 2 {
					t.Errorf("DATE_BLOCKED = %v, want 2", val)
				}
			case "YEARLY_QUOTA_EXCEEDED":
				if val != 1 {
					t.Errorf("YEARLY_QUOTA_EXCEEDED = %v, want 1", val)
				}
			default:
				t.Errorf("unexpected reason label %q", reason)
			}
		}
		return
	}
	t.Error("reservatie_reservations_rejected_total metric not found")
}

// TestRecordDateBlocked_IncrementsCounter は日付ブロックカウンタが増加することを検証する。
func TestRecordDateBlocked_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordDateBlocked()

	if val := counterValue(t, reg, "reservatie_dates_blocked_total"); val != 1 {
		t.Errorf("dates_blocked_total = %v, want 1", val)
	}
}

// TestRecordHTTPStatus_LabelsByStatusCode はステータスコード別にカウントされることを検証する。
func TestRecordHTTPStatus_LabelsByStatusCode(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(400)

	if val := counterValue(t, reg, "reservatie_http_status_total"); val != 3 {
		t.Errorf("http_status_total = %v, want 3", val)
	}
}

// TestRecordRequestLatency はレイテンシヒストグラムに観測値が記録されることを検証する。
func TestRecordRequestLatency(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordRequestLatency(150 * time.Millisecond)

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	for _, mf := range metrics {
		if mf.GetName() == "reservatie_request_latency_seconds" {
			if count := mf.GetMetric()[0].GetHistogram().GetSampleCount(); count != 1 {
				t.Errorf("sample count = %d, want 1", count)
			}
			return
		}
	}
	t.Error("reservatie_request_latency_seconds metric not found")
}
