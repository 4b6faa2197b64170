package screening

import (
	"sort"
	"testing"
)

func TestAssessPostoperativeDVTRisk(t *testing.T) {
	tests := []struct {
		name        string
		surgery     string
		days        int
		extra       bool
		known       bool
		current     RiskLevel
		prophylaxis bool
	}{
		{"hip replacement early", "total_hip_arthroplasty", 3, false, true, RiskVeryHigh, true},
		{"hip replacement past peak", "total_hip_arthroplasty", 20, false, true, RiskHigh, true},
		{"hip replacement after prophylaxis", "total_hip_arthroplasty", 40, false, true, RiskHigh, false},
		{"arthroscopy stays low past peak", "knee_arthroscopy", 30, false, true, RiskLow, false},
		{"arthroscopy with risk factors", "knee_arthroscopy", 2, true, true, RiskModerate, false},
		{"very high cannot go higher", "total_knee_arthroplasty", 1, true, true, RiskVeryHigh, true},
		{"extra factors and past peak cancel", "acl_reconstruction", 20, true, true, RiskModerate, false},
		{"unknown surgery uses default", "bunionectomy", 5, false, false, RiskModerate, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssessPostoperativeDVTRisk(tt.surgery, tt.days, tt.extra)
			if got.KnownSurgeryType != tt.known {
				t.Errorf("known: expected %v, got %v", tt.known, got.KnownSurgeryType)
			}
			if got.CurrentRisk != tt.current {
				t.Errorf("current: expected %s, got %s", tt.current, got.CurrentRisk)
			}
			if got.InProphylaxisWindow != tt.prophylaxis {
				t.Errorf("prophylaxis: expected %v, got %v", tt.prophylaxis, got.InProphylaxisWindow)
			}
			if got.DailyIncidencePercent != dailyIncidence[tt.current] {
				t.Errorf("incidence: expected %v, got %v", dailyIncidence[tt.current], got.DailyIncidencePercent)
			}
			if len(got.ExerciseGuidelines) == 0 {
				t.Error("expected guidelines")
			}
		})
	}
}

func TestAssessPostoperativeDVTRisk_GuidelinesByTier(t *testing.T) {
	high := AssessPostoperativeDVTRisk("hip_fracture", 1, false)
	low := AssessPostoperativeDVTRisk("meniscus_repair", 1, false)
	if len(high.ExerciseGuidelines) != len(highRiskGuidelines) {
		t.Errorf("expected high-risk guidelines, got %v", high.ExerciseGuidelines)
	}
	if len(low.ExerciseGuidelines) != len(standardGuidelines) {
		t.Errorf("expected standard guidelines, got %v", low.ExerciseGuidelines)
	}

	high.ExerciseGuidelines[0] = "mutated"
	if highRiskGuidelines[0] == "mutated" {
		t.Error("result must not alias the shared guideline table")
	}
}

func TestAssessPostoperativeDVTRisk_NegativeDays(t *testing.T) {
	got := AssessPostoperativeDVTRisk("spinal_fusion", -3, false)
	if got.DaysSinceSurgery != 0 || got.PastPeakWindow {
		t.Errorf("expected negative days clamped to 0, got %+v", got)
	}
}

func TestSurgeryTypes(t *testing.T) {
	types := SurgeryTypes()
	if len(types) != len(surgeryRiskTable) {
		t.Fatalf("expected %d types, got %d", len(surgeryRiskTable), len(types))
	}
	if !sort.StringsAreSorted(types) {
		t.Error("expected sorted surgery types")
	}
}
