package screening

import "sort"

// surgeryRisk is the baseline DVT profile of a surgery type.
type surgeryRisk struct {
	Label           string
	Baseline        RiskLevel
	PeakRiskDays    int
	ProphylaxisDays int
}

var surgeryRiskTable = map[string]surgeryRisk{
	"total_hip_arthroplasty":  {"Total hip arthroplasty", RiskVeryHigh, 14, 35},
	"total_knee_arthroplasty": {"Total knee arthroplasty", RiskVeryHigh, 14, 14},
	"hip_fracture":            {"Hip fracture surgery", RiskVeryHigh, 21, 35},
	"spinal_fusion":           {"Spinal fusion", RiskHigh, 14, 14},
	"achilles_repair":         {"Achilles tendon repair", RiskHigh, 28, 14},
	"ankle_fracture":          {"Ankle fracture fixation", RiskModerate, 21, 0},
	"acl_reconstruction":      {"ACL reconstruction", RiskModerate, 14, 0},
	"shoulder_arthroplasty":   {"Shoulder arthroplasty", RiskLow, 14, 0},
	"rotator_cuff_repair":     {"Rotator cuff repair", RiskLow, 7, 0},
	"meniscus_repair":         {"Meniscus repair", RiskLow, 7, 0},
	"knee_arthroscopy":        {"Knee arthroscopy", RiskLow, 7, 0},
}

// defaultSurgeryRisk applies to surgery types missing from the table.
var defaultSurgeryRisk = surgeryRisk{"Unspecified surgery", RiskModerate, 14, 0}

// dailyIncidence approximates symptomatic DVT incidence per day (percent)
// at each tier.
var dailyIncidence = map[RiskLevel]float64{
	RiskLow:      0.01,
	RiskModerate: 0.05,
	RiskHigh:     0.1,
	RiskVeryHigh: 0.2,
}

var highRiskGuidelines = []string{
	"Do ankle pumps (10 repetitions) every hour while awake.",
	"Avoid sitting still for more than 30 minutes; walk briefly every hour.",
	"Wear compression stockings as prescribed.",
	"Take anticoagulation exactly as prescribed and do not skip doses.",
	"Stop and report calf pain, swelling or warmth immediately.",
}

var standardGuidelines = []string{
	"Take short walks several times a day.",
	"Break up long periods of sitting.",
	"Stay well hydrated.",
	"Learn the signs of DVT: calf pain, swelling, warmth or redness.",
}

type PostoperativeRisk struct {
	SurgeryType           string    `json:"surgery_type"`
	SurgeryLabel          string    `json:"surgery_label"`
	KnownSurgeryType      bool      `json:"known_surgery_type"`
	DaysSinceSurgery      int       `json:"days_since_surgery"`
	BaselineRisk          RiskLevel `json:"baseline_risk"`
	CurrentRisk           RiskLevel `json:"current_risk"`
	PastPeakWindow        bool      `json:"past_peak_window"`
	InProphylaxisWindow   bool      `json:"in_prophylaxis_window"`
	DailyIncidencePercent float64   `json:"daily_incidence_percent"`
	ExerciseGuidelines    []string  `json:"exercise_guidelines"`
}

// AssessPostoperativeDVTRisk adjusts the surgery's baseline DVT tier for the
// time since surgery. Extra risk factors raise the tier one step; being past
// the peak window lowers it one step, never below low. Unknown surgery types
// use a moderate default.
func AssessPostoperativeDVTRisk(surgeryType string, daysSinceSurgery int, extraRiskFactors bool) PostoperativeRisk {
	if daysSinceSurgery < 0 {
		daysSinceSurgery = 0
	}
	sr, known := surgeryRiskTable[surgeryType]
	if !known {
		sr = defaultSurgeryRisk
	}

	res := PostoperativeRisk{
		SurgeryType:         surgeryType,
		SurgeryLabel:        sr.Label,
		KnownSurgeryType:    known,
		DaysSinceSurgery:    daysSinceSurgery,
		BaselineRisk:        sr.Baseline,
		PastPeakWindow:      daysSinceSurgery > sr.PeakRiskDays,
		InProphylaxisWindow: sr.ProphylaxisDays > 0 && daysSinceSurgery <= sr.ProphylaxisDays,
	}

	tier := sr.Baseline
	if extraRiskFactors {
		tier = tier.raise()
	}
	if res.PastPeakWindow {
		tier = tier.lower()
	}
	res.CurrentRisk = tier
	res.DailyIncidencePercent = dailyIncidence[tier]

	guidelines := standardGuidelines
	if tier == RiskHigh || tier == RiskVeryHigh {
		guidelines = highRiskGuidelines
	}
	res.ExerciseGuidelines = append([]string(nil), guidelines...)
	return res
}

// SurgeryTypes lists the surgery keys with a known baseline.
func SurgeryTypes() []string {
	keys := make([]string, 0, len(surgeryRiskTable))
	for k := range surgeryRiskTable {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
