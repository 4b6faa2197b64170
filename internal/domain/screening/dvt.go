package screening

// DVTSymptoms are the clinical findings of a Wells-style DVT screen.
type DVTSymptoms struct {
	CalfSwelling            bool `json:"calf_swelling"`
	UnilateralSwelling      bool `json:"unilateral_swelling"`
	CalfPain                bool `json:"calf_pain"`
	Warmth                  bool `json:"warmth"`
	PittingEdema            bool `json:"pitting_edema"`
	DilatedSuperficialVeins bool `json:"dilated_superficial_veins"`
}

// DVTRiskFactors each add one point to the screen.
type DVTRiskFactors struct {
	RecentSurgery   bool `json:"recent_surgery"`
	Immobilization  bool `json:"immobilization"`
	PreviousDVT     bool `json:"previous_dvt"`
	ActiveCancer    bool `json:"active_cancer"`
	HormonalTherapy bool `json:"hormonal_therapy"`
}

type DVTInput struct {
	Symptoms    DVTSymptoms    `json:"symptoms"`
	RiskFactors DVTRiskFactors `json:"risk_factors"`
}

type DVTScreeningResult struct {
	WellsScore               int       `json:"wells_score"`
	RiskLevel                RiskLevel `json:"risk_level"`
	RequiresUrgentAssessment bool      `json:"requires_urgent_assessment"`
	StopTraining             bool      `json:"stop_training"`
	Recommendation           string    `json:"recommendation"`
	PresentSymptoms          []string  `json:"present_symptoms"`
	PresentRiskFactors       []string  `json:"present_risk_factors"`
}

const (
	unilateralSwellingPoints = 3
	dvtHighThreshold         = 3
	dvtModerateThreshold     = 1
)

type finding struct {
	present bool
	label   string
	points  int
}

// ScreenDVT scores a Wells-style DVT screen. Unilateral calf swelling counts
// three points; bilateral swelling is recorded but scores nothing.
func ScreenDVT(in DVTInput) DVTScreeningResult {
	s, rf := in.Symptoms, in.RiskFactors
	symptoms := []finding{
		{s.UnilateralSwelling, "unilateral calf swelling", unilateralSwellingPoints},
		{s.CalfSwelling && !s.UnilateralSwelling, "calf swelling", 0},
		{s.CalfPain, "calf pain or tenderness", 1},
		{s.Warmth, "warmth over the calf", 1},
		{s.PittingEdema, "pitting edema", 1},
		{s.DilatedSuperficialVeins, "dilated superficial veins", 1},
	}
	factors := []finding{
		{rf.RecentSurgery, "recent surgery", 1},
		{rf.Immobilization, "immobilization", 1},
		{rf.PreviousDVT, "previous DVT", 1},
		{rf.ActiveCancer, "active cancer", 1},
		{rf.HormonalTherapy, "hormonal therapy", 1},
	}

	res := DVTScreeningResult{
		PresentSymptoms:    []string{},
		PresentRiskFactors: []string{},
	}
	for _, f := range symptoms {
		if f.present {
			res.WellsScore += f.points
			res.PresentSymptoms = append(res.PresentSymptoms, f.label)
		}
	}
	for _, f := range factors {
		if f.present {
			res.WellsScore += f.points
			res.PresentRiskFactors = append(res.PresentRiskFactors, f.label)
		}
	}

	switch {
	case res.WellsScore >= dvtHighThreshold:
		res.RiskLevel = RiskHigh
		res.RequiresUrgentAssessment = true
		res.StopTraining = true
		res.Recommendation = "High probability of DVT. Stop training and seek emergency care immediately for ultrasound assessment."
	case res.WellsScore >= dvtModerateThreshold:
		res.RiskLevel = RiskModerate
		res.Recommendation = "Moderate probability of DVT. Contact your provider today before continuing leg exercises."
	default:
		res.RiskLevel = RiskLow
		res.Recommendation = "Low probability of DVT. Continue training and report any new calf swelling, pain or warmth."
	}
	return res
}
