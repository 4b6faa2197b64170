package risk

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultWeights_SumToOne(t *testing.T) {
	w := DefaultWeights()
	var sum float64
	for _, d := range Domains {
		sum += w.For(d)
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("expected default weights to sum to 1, got %v", sum)
	}
}

func TestRiskWeights_Validate(t *testing.T) {
	if err := DefaultWeights().Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
	bad := []RiskWeights{
		{Pain: -0.1},
		{Health: math.NaN()},
		{Movement: math.Inf(1)},
	}
	for _, w := range bad {
		if err := w.Validate(); !errors.Is(err, ErrInvalidWeights) {
			t.Errorf("expected ErrInvalidWeights for %+v, got %v", w, err)
		}
	}
}

func TestRiskWeights_Normalized(t *testing.T) {
	if got := (RiskWeights{}).Normalized(); got != DefaultWeights() {
		t.Errorf("expected defaults for all-zero weights, got %+v", got)
	}
	custom := RiskWeights{Pain: 1}
	if got := custom.Normalized(); got != custom {
		t.Errorf("expected custom weights unchanged, got %+v", got)
	}
}

func TestWeightsFromSlice(t *testing.T) {
	w := WeightsFromSlice([6]float64{0.25, 0.15, 0.20, 0.15, 0.10, 0.15})
	if w != DefaultWeights() {
		t.Errorf("expected slice order to follow Domains, got %+v", w)
	}
}

func TestPrinterFor(t *testing.T) {
	if got := PrinterFor("").Sprintf(msgSleep, 5.5); got != "Average sleep 5.5 hours" {
		t.Errorf("expected English fallback, got %q", got)
	}
	if got := PrinterFor("fr-FR, sv;q=0.8").Sprintf(msgPainSpike, 9); got != "Smärttopp på 9/10" {
		t.Errorf("expected Swedish match, got %q", got)
	}
}
