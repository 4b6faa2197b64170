package risk

import "sort"

const (
	topFactorCount           = 5
	ActionContactImmediately = "contact_patient_immediately"
)

var actionCatalog = map[string]RecommendedAction{
	"review_pain_management": {
		Action: "review_pain_management", Title: "Review pain management",
		Description: "Review analgesia and load with the patient", Priority: PriorityUrgent,
	},
	"check_in_pain_spike": {
		Action: "check_in_pain_spike", Title: "Check in about pain spike",
		Description: "Contact the patient about the recent pain spike and screen for red flags", Priority: PriorityUrgent,
	},
	"plan_flare_management": {
		Action: "plan_flare_management", Title: "Plan flare management",
		Description: "Agree a flare plan and lighter sessions for the coming days", Priority: PriorityMedium,
	},
	"adjust_exercise_intensity": {
		Action: "adjust_exercise_intensity", Title: "Adjust exercise intensity",
		Description: "Reduce load or range until pain during exercise settles", Priority: PriorityHigh,
	},
	"adherence_conversation": {
		Action: "adherence_conversation", Title: "Discuss adherence barriers",
		Description: "Talk through what is stopping the patient from completing sessions", Priority: PriorityHigh,
	},
	"send_adherence_reminder": {
		Action: "send_adherence_reminder", Title: "Send reminder",
		Description: "Send an encouraging reminder about the program", Priority: PriorityMedium,
	},
	"contact_patient_inactivity": {
		Action: "contact_patient_inactivity", Title: "Contact inactive patient",
		Description: "The patient has stopped training; call to find out why", Priority: PriorityUrgent,
	},
	"psychological_referral": {
		Action: "psychological_referral", Title: "Consider psychological referral",
		Description: "Scores suggest clinically relevant distress; consider referral", Priority: PriorityUrgent,
	},
	"psychological_support": {
		Action: "psychological_support", Title: "Offer psychological support",
		Description: "Check mood and offer coping resources", Priority: PriorityHigh,
	},
	"graded_exposure": {
		Action: "graded_exposure", Title: "Start graded exposure",
		Description: "Address fear of movement with graded exposure", Priority: PriorityHigh,
	},
	"pain_education": {
		Action: "pain_education", Title: "Pain education",
		Description: "Provide pain neuroscience education", Priority: PriorityMedium,
	},
	"movement_review_video": {
		Action: "movement_review_video", Title: "Review movement recordings",
		Description: "Review recent sessions and correct technique", Priority: PriorityHigh,
	},
	"technique_feedback": {
		Action: "technique_feedback", Title: "Give technique feedback",
		Description: "Send cues for the compensations seen in sessions", Priority: PriorityMedium,
	},
	"sleep_hygiene": {
		Action: "sleep_hygiene", Title: "Address sleep",
		Description: "Discuss sleep hygiene and its effect on recovery", Priority: PriorityMedium,
	},
	"reduce_training_load": {
		Action: "reduce_training_load", Title: "Reduce training load",
		Description: "Recovery markers are down; lower the load temporarily", Priority: PriorityHigh,
	},
	"increase_daily_activity": {
		Action: "increase_daily_activity", Title: "Increase daily activity",
		Description: "Set a daily step goal alongside the program", Priority: PriorityMedium,
	},
	"clinical_reassessment": {
		Action: "clinical_reassessment", Title: "Book clinical reassessment",
		Description: "Function is declining; reassess the patient", Priority: PriorityUrgent,
	},
	"progress_program": {
		Action: "progress_program", Title: "Progress the program",
		Description: "Function has plateaued; review and progress the exercises", Priority: PriorityHigh,
	},
	"review_phase_progression": {
		Action: "review_phase_progression", Title: "Review phase progression",
		Description: "The current phase has run past its expected length", Priority: PriorityMedium,
	},
	ActionContactImmediately: {
		Action: ActionContactImmediately, Title: "Contact patient immediately",
		Description: "Overall risk is critical; contact the patient today", Priority: PriorityUrgent,
	},
}

// factorActions maps each factor key to the action it triggers.
var factorActions = map[string]string{
	"high_pain_level":             "review_pain_management",
	"moderate_pain_level":         "adjust_exercise_intensity",
	"pain_increasing":             "review_pain_management",
	"pain_spike":                  "check_in_pain_spike",
	"predicted_pain_flare":        "plan_flare_management",
	"low_adherence":               "adherence_conversation",
	"reduced_adherence":           "send_adherence_reminder",
	"inactivity":                  "contact_patient_inactivity",
	"reduced_activity":            "send_adherence_reminder",
	"exercise_pain":               "adjust_exercise_intensity",
	"high_anxiety":                "psychological_referral",
	"elevated_anxiety":            "psychological_support",
	"high_depression":             "psychological_referral",
	"elevated_depression":         "psychological_support",
	"high_kinesiophobia":          "graded_exposure",
	"moderate_kinesiophobia":      "pain_education",
	"pain_interference":           "review_pain_management",
	"poor_movement_quality":       "movement_review_video",
	"suboptimal_movement_quality": "technique_feedback",
	"declining_movement_quality":  "movement_review_video",
	"compensation_patterns":       "technique_feedback",
	"poor_sleep":                  "sleep_hygiene",
	"insufficient_sleep":          "sleep_hygiene",
	"hrv_decline":                 "reduce_training_load",
	"very_low_activity":           "increase_daily_activity",
	"low_activity":                "increase_daily_activity",
	"functional_decline":          "clinical_reassessment",
	"plateau":                     "progress_program",
	"phase_overdue":               "review_phase_progression",
}

// Recommend maps the top factors (already sorted by impact) to actions,
// one per action key, ordered by priority. A critical level always leads
// with an immediate-contact action.
func Recommend(factors []ContributingFactor, level RiskLevel) []RecommendedAction {
	actions := []RecommendedAction{}
	seen := make(map[string]bool)

	if level == LevelCritical {
		actions = append(actions, actionCatalog[ActionContactImmediately])
		seen[ActionContactImmediately] = true
	}

	top := factors
	if len(top) > topFactorCount {
		top = top[:topFactorCount]
	}
	for _, f := range top {
		key, ok := factorActions[f.Factor]
		if !ok || seen[key] {
			continue
		}
		seen[key] = true
		a := actionCatalog[key]
		a.Category = f.Category
		actions = append(actions, a)
	}

	sort.SliceStable(actions, func(i, j int) bool { return actions[i].Priority < actions[j].Priority })
	return actions
}
