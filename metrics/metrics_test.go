package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordOrderSides(t *testing.T) {
	RecordOrder("M_ORD", 5)
	RecordOrder("M_ORD", 5)
	RecordOrder("M_ORD", -3)

	if got := testutil.ToFloat64(OrdersEmitted.WithLabelValues("M_ORD", "buy")); got != 2 {
		t.Errorf("expected 2 buy orders, got %f", got)
	}
	if got := testutil.ToFloat64(OrdersEmitted.WithLabelValues("M_ORD", "sell")); got != 1 {
		t.Errorf("expected 1 sell order, got %f", got)
	}
}

func TestRecordSkip(t *testing.T) {
	RecordSkip("M_SKIP", "insufficient_history")
	if got := testutil.ToFloat64(InstrumentSkips.WithLabelValues("M_SKIP", "insufficient_history")); got != 1 {
		t.Errorf("expected 1 skip, got %f", got)
	}
}

func TestUpdateInstrument(t *testing.T) {
	UpdateInstrument("M_UPD", -7, 101.5, 0.25, 3, 9)

	if got := testutil.ToFloat64(Position.WithLabelValues("M_UPD")); got != -7 {
		t.Errorf("position gauge: got %f", got)
	}
	if got := testutil.ToFloat64(FairValue.WithLabelValues("M_UPD")); got != 101.5 {
		t.Errorf("fair value gauge: got %f", got)
	}
	if got := testutil.ToFloat64(Dispersion.WithLabelValues("M_UPD")); got != 0.25 {
		t.Errorf("dispersion gauge: got %f", got)
	}
	if got := testutil.ToFloat64(ProjectedVolume.WithLabelValues("M_UPD", "buy")); got != 3 {
		t.Errorf("buy volume gauge: got %f", got)
	}
	if got := testutil.ToFloat64(ProjectedVolume.WithLabelValues("M_UPD", "sell")); got != 9 {
		t.Errorf("sell volume gauge: got %f", got)
	}
}
