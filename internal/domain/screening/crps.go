package screening

// CRPSSensory are sensory signs: hyperalgesia and allodynia.
type CRPSSensory struct {
	Hyperalgesia bool `json:"hyperalgesia"`
	Allodynia    bool `json:"allodynia"`
}

// CRPSVasomotor are temperature and skin color changes.
type CRPSVasomotor struct {
	TemperatureAsymmetry bool `json:"temperature_asymmetry"`
	SkinColorChange      bool `json:"skin_color_change"`
	SkinColorAsymmetry   bool `json:"skin_color_asymmetry"`
}

// CRPSSudomotor are edema and sweating changes.
type CRPSSudomotor struct {
	Edema             bool `json:"edema"`
	SweatingChange    bool `json:"sweating_change"`
	SweatingAsymmetry bool `json:"sweating_asymmetry"`
}

// CRPSMotorTrophic are motor dysfunction and trophic changes.
type CRPSMotorTrophic struct {
	DecreasedRangeOfMotion bool `json:"decreased_range_of_motion"`
	MotorDysfunction       bool `json:"motor_dysfunction"`
	TrophicChanges         bool `json:"trophic_changes"`
}

// CRPSContext are clinical circumstances that raise suspicion.
type CRPSContext struct {
	PainWorsening         bool `json:"pain_worsening"`
	PainSpreading         bool `json:"pain_spreading"`
	UnexpectedProgression bool `json:"unexpected_progression"`
}

type CRPSInput struct {
	Sensory      CRPSSensory      `json:"sensory"`
	Vasomotor    CRPSVasomotor    `json:"vasomotor"`
	Sudomotor    CRPSSudomotor    `json:"sudomotor"`
	MotorTrophic CRPSMotorTrophic `json:"motor_trophic"`
	Context      CRPSContext      `json:"context"`
}

type CRPSCategoryCounts struct {
	Sensory      int `json:"sensory"`
	Vasomotor    int `json:"vasomotor"`
	Sudomotor    int `json:"sudomotor"`
	MotorTrophic int `json:"motor_trophic"`
}

type CRPSScreeningResult struct {
	CategoriesAffected     int                 `json:"categories_affected"`
	MeetsScreeningCriteria bool                `json:"meets_screening_criteria"`
	Likelihood             CRPSLikelihood      `json:"likelihood"`
	Urgency                ReferralUrgency     `json:"urgency"`
	Recommendation         string              `json:"recommendation"`
	CategoryCounts         CRPSCategoryCounts  `json:"category_counts"`
	Symptoms               map[string][]string `json:"symptoms"`
	ContextFlags           []string            `json:"context_flags"`
}

// budapestMinCategories is the number of affected categories the Budapest
// criteria require.
const budapestMinCategories = 3

// ScreenCRPS counts Budapest categories with at least one present sign and
// combines the count with contextual flags.
func ScreenCRPS(in CRPSInput) CRPSScreeningResult {
	categories := []struct {
		name  string
		signs []finding
	}{
		{"sensory", []finding{
			{in.Sensory.Hyperalgesia, "hyperalgesia", 1},
			{in.Sensory.Allodynia, "allodynia", 1},
		}},
		{"vasomotor", []finding{
			{in.Vasomotor.TemperatureAsymmetry, "temperature asymmetry", 1},
			{in.Vasomotor.SkinColorChange, "skin color change", 1},
			{in.Vasomotor.SkinColorAsymmetry, "skin color asymmetry", 1},
		}},
		{"sudomotor", []finding{
			{in.Sudomotor.Edema, "edema", 1},
			{in.Sudomotor.SweatingChange, "sweating change", 1},
			{in.Sudomotor.SweatingAsymmetry, "sweating asymmetry", 1},
		}},
		{"motor_trophic", []finding{
			{in.MotorTrophic.DecreasedRangeOfMotion, "decreased range of motion", 1},
			{in.MotorTrophic.MotorDysfunction, "motor dysfunction", 1},
			{in.MotorTrophic.TrophicChanges, "trophic changes", 1},
		}},
	}

	res := CRPSScreeningResult{
		Symptoms:     make(map[string][]string, len(categories)),
		ContextFlags: []string{},
	}
	counts := []*int{
		&res.CategoryCounts.Sensory,
		&res.CategoryCounts.Vasomotor,
		&res.CategoryCounts.Sudomotor,
		&res.CategoryCounts.MotorTrophic,
	}
	for i, cat := range categories {
		present := []string{}
		for _, s := range cat.signs {
			if s.present {
				present = append(present, s.label)
			}
		}
		*counts[i] = len(present)
		res.Symptoms[cat.name] = present
		if len(present) > 0 {
			res.CategoriesAffected++
		}
	}

	for _, f := range []finding{
		{in.Context.PainWorsening, "pain worsening", 0},
		{in.Context.PainSpreading, "pain spreading", 0},
		{in.Context.UnexpectedProgression, "unexpected progression for stage", 0},
	} {
		if f.present {
			res.ContextFlags = append(res.ContextFlags, f.label)
		}
	}
	hasContext := len(res.ContextFlags) > 0

	res.MeetsScreeningCriteria = res.CategoriesAffected >= budapestMinCategories
	switch {
	case res.MeetsScreeningCriteria && hasContext:
		res.Likelihood = CRPSProbable
		res.Urgency = UrgencyUrgent
		res.Recommendation = "Signs consistent with CRPS. Refer for specialist assessment within days and avoid painful loading."
	case res.MeetsScreeningCriteria, res.CategoriesAffected == budapestMinCategories-1 && hasContext:
		res.Likelihood = CRPSPossible
		res.Urgency = UrgencySoon
		res.Recommendation = "Some CRPS signs present. Discuss with the treating clinician at the next contact and monitor closely."
	default:
		res.Likelihood = CRPSUnlikely
		res.Urgency = UrgencyRoutine
		res.Recommendation = "CRPS unlikely. Continue the program and report new color, temperature or sensitivity changes."
	}
	return res
}
