package redflag

// Severity ranks a matched red flag.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

func (s Severity) rank() int {
	if s == SeverityCritical {
		return 0
	}
	return 1
}

// Urgency is how soon the patient should act on a flag.
type Urgency string

const (
	UrgencyImmediate Urgency = "immediate"
	UrgencySameDay   Urgency = "same_day"
	UrgencyWithin48h Urgency = "within_48h"
)

func (u Urgency) rank() int {
	switch u {
	case UrgencyImmediate:
		return 0
	case UrgencySameDay:
		return 1
	default:
		return 2
	}
}

// Recommendation texts for the report's top-level advice.
const (
	RecommendationEmergency = "Stop exercising immediately and contact emergency services (112) or go to the nearest emergency department."
	RecommendationContact   = "Pause your exercises and contact your healthcare provider within 24-48 hours."
	RecommendationContinue  = "No red flags identified. Continue your rehabilitation program as planned."
	RecommendationUnchecked = "Your symptoms could not be fully evaluated. Stop exercising and seek care if you are concerned."
)

// Check is one matched condition for a symptom.
type Check struct {
	Symptom         string   `json:"symptom"`
	Condition       string   `json:"condition"`
	Severity        Severity `json:"severity"`
	Action          string   `json:"action"`
	Urgency         Urgency  `json:"urgency"`
	MatchedKeywords []string `json:"matched_keywords"`
	Criteria        string   `json:"criteria,omitempty"`
	RiskFactors     []string `json:"risk_factors,omitempty"`
}

// Report is the de-duplicated, severity-ordered outcome of a red-flag scan.
// Critical checks always precede warning checks.
type Report struct {
	HasRedFlags     bool    `json:"has_red_flags"`
	Checks          []Check `json:"checks"`
	CriticalCount   int     `json:"critical_count"`
	WarningCount    int     `json:"warning_count"`
	Recommendation  string  `json:"recommendation"`
	Incomplete      bool    `json:"incomplete"`
	EvaluationError string  `json:"evaluation_error,omitempty"`
}

// MostSevere returns the single worst check, or nil when the report is clean.
func (r *Report) MostSevere() *Check {
	var worst *Check
	for i := range r.Checks {
		c := &r.Checks[i]
		if worst == nil ||
			c.Severity.rank() < worst.Severity.rank() ||
			(c.Severity == worst.Severity && c.Urgency.rank() < worst.Urgency.rank()) {
			worst = c
		}
	}
	return worst
}

// StopDecision is the exercise gate consulted before each session.
type StopDecision struct {
	ShouldStop bool    `json:"should_stop"`
	Reason     string  `json:"reason"`
	Report     *Report `json:"report"`
}
