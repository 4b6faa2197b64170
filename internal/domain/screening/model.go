package screening

// RiskLevel is the qualitative tier of a screen or postoperative model.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
	RiskVeryHigh RiskLevel = "very_high"
)

var riskOrder = []RiskLevel{RiskLow, RiskModerate, RiskHigh, RiskVeryHigh}

func (l RiskLevel) index() int {
	for i, r := range riskOrder {
		if r == l {
			return i
		}
	}
	return 1
}

func (l RiskLevel) raise() RiskLevel {
	i := l.index() + 1
	if i >= len(riskOrder) {
		i = len(riskOrder) - 1
	}
	return riskOrder[i]
}

func (l RiskLevel) lower() RiskLevel {
	i := l.index() - 1
	if i < 0 {
		i = 0
	}
	return riskOrder[i]
}

// CRPSLikelihood classifies a CRPS screen.
type CRPSLikelihood string

const (
	CRPSUnlikely CRPSLikelihood = "unlikely"
	CRPSPossible CRPSLikelihood = "possible"
	CRPSProbable CRPSLikelihood = "probable"
)

// ReferralUrgency is how soon a CRPS screen should be followed up.
type ReferralUrgency string

const (
	UrgencyRoutine ReferralUrgency = "routine"
	UrgencySoon    ReferralUrgency = "soon"
	UrgencyUrgent  ReferralUrgency = "urgent"
)
