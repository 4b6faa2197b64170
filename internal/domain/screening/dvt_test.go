package screening

import "testing"

func TestScreenDVT(t *testing.T) {
	tests := []struct {
		name   string
		in     DVTInput
		score  int
		level  RiskLevel
		urgent bool
	}{
		{"no findings", DVTInput{}, 0, RiskLow, false},
		{
			"unilateral swelling alone is high",
			DVTInput{Symptoms: DVTSymptoms{UnilateralSwelling: true, CalfSwelling: true}},
			3, RiskHigh, true,
		},
		{
			"bilateral swelling scores nothing",
			DVTInput{Symptoms: DVTSymptoms{CalfSwelling: true}},
			0, RiskLow, false,
		},
		{
			"calf pain after surgery is moderate",
			DVTInput{
				Symptoms:    DVTSymptoms{CalfPain: true},
				RiskFactors: DVTRiskFactors{RecentSurgery: true},
			},
			2, RiskModerate, false,
		},
		{
			"three minor findings reach high",
			DVTInput{
				Symptoms:    DVTSymptoms{Warmth: true, PittingEdema: true},
				RiskFactors: DVTRiskFactors{Immobilization: true},
			},
			3, RiskHigh, true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScreenDVT(tt.in)
			if got.WellsScore != tt.score {
				t.Errorf("score: expected %d, got %d", tt.score, got.WellsScore)
			}
			if got.RiskLevel != tt.level {
				t.Errorf("level: expected %s, got %s", tt.level, got.RiskLevel)
			}
			if got.RequiresUrgentAssessment != tt.urgent || got.StopTraining != tt.urgent {
				t.Errorf("urgent/stop: expected %v, got %v/%v", tt.urgent, got.RequiresUrgentAssessment, got.StopTraining)
			}
			if got.Recommendation == "" {
				t.Error("expected a recommendation")
			}
		})
	}
}

func TestScreenDVT_ListsFindings(t *testing.T) {
	got := ScreenDVT(DVTInput{
		Symptoms:    DVTSymptoms{CalfSwelling: true},
		RiskFactors: DVTRiskFactors{PreviousDVT: true, ActiveCancer: true},
	})
	if len(got.PresentSymptoms) != 1 || got.PresentSymptoms[0] != "calf swelling" {
		t.Errorf("expected bilateral swelling listed, got %v", got.PresentSymptoms)
	}
	if len(got.PresentRiskFactors) != 2 {
		t.Errorf("expected 2 risk factors, got %v", got.PresentRiskFactors)
	}
	if got.WellsScore != 2 {
		t.Errorf("expected score 2, got %d", got.WellsScore)
	}
}
