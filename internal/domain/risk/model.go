package risk

import (
	"time"

	"github.com/google/uuid"
)

// Domain names one of the six independently scored areas.
type Domain string

const (
	DomainPain          Domain = "pain"
	DomainAdherence     Domain = "adherence"
	DomainPsychological Domain = "psychological"
	DomainMovement      Domain = "movement"
	DomainHealth        Domain = "health"
	DomainProgression   Domain = "progression"
)

// Domains lists every domain in scoring order.
var Domains = []Domain{
	DomainPain, DomainAdherence, DomainPsychological,
	DomainMovement, DomainHealth, DomainProgression,
}

type RiskLevel string

const (
	LevelLow      RiskLevel = "low"
	LevelModerate RiskLevel = "moderate"
	LevelHigh     RiskLevel = "high"
	LevelCritical RiskLevel = "critical"
)

// Rank orders levels from low (0) to critical (3).
func (l RiskLevel) Rank() int {
	switch l {
	case LevelCritical:
		return 3
	case LevelHigh:
		return 2
	case LevelModerate:
		return 1
	default:
		return 0
	}
}

type ScoreTrend string

const (
	TrendImproving ScoreTrend = "improving"
	TrendStable    ScoreTrend = "stable"
	TrendWorsening ScoreTrend = "worsening"
)

type ContributingFactor struct {
	Factor      string  `json:"factor"`
	Impact      float64 `json:"impact"`
	Description string  `json:"description"`
	Category    Domain  `json:"category"`
}

type Priority int

const (
	PriorityUrgent Priority = iota + 1
	PriorityHigh
	PriorityMedium
	PriorityLow
)

type RecommendedAction struct {
	Action      string   `json:"action"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Category    Domain   `json:"category,omitempty"`
}

// DomainScore is one scorer's result. Degraded marks a scorer whose data
// could not be loaded; it then contributes zero.
type DomainScore struct {
	Domain   Domain               `json:"domain"`
	Score    float64              `json:"score"`
	Factors  []ContributingFactor `json:"factors"`
	Samples  int                  `json:"samples"`
	Degraded bool                 `json:"degraded,omitempty"`
}

type DomainScores struct {
	Pain          float64 `json:"pain"`
	Adherence     float64 `json:"adherence"`
	Psychological float64 `json:"psychological"`
	Movement      float64 `json:"movement"`
	Health        float64 `json:"health"`
	Progression   float64 `json:"progression"`
}

func (s *DomainScores) set(d Domain, v float64) {
	switch d {
	case DomainPain:
		s.Pain = v
	case DomainAdherence:
		s.Adherence = v
	case DomainPsychological:
		s.Psychological = v
	case DomainMovement:
		s.Movement = v
	case DomainHealth:
		s.Health = v
	case DomainProgression:
		s.Progression = v
	}
}

// RiskAssessment is append-only: a new row per run, later touched only by
// the review stamp.
type RiskAssessment struct {
	ID              uuid.UUID            `json:"id"`
	PatientID       uuid.UUID            `json:"patient_id"`
	OverallScore    float64              `json:"overall_score"`
	RiskLevel       RiskLevel            `json:"risk_level"`
	DomainScores    DomainScores         `json:"domain_scores"`
	Factors         []ContributingFactor `json:"contributing_factors"`
	Recommendations []RecommendedAction  `json:"recommendations"`
	PreviousScore   *float64             `json:"previous_score,omitempty"`
	ScoreChange     *float64             `json:"score_change,omitempty"`
	ScoreTrend      *ScoreTrend          `json:"score_trend,omitempty"`
	DataSources     map[Domain]int       `json:"data_sources"`
	DegradedDomains []Domain             `json:"degraded_domains,omitempty"`
	Weights         RiskWeights          `json:"weights"`
	AssessedAt      time.Time            `json:"assessed_at"`
	CreatedAt       time.Time            `json:"created_at"`
	ReviewedBy      *uuid.UUID           `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time           `json:"reviewed_at,omitempty"`
	ReviewNotes     *string              `json:"review_notes,omitempty"`
}

// HasFactor reports whether a factor key fired in this assessment.
func (a *RiskAssessment) HasFactor(key string) (ContributingFactor, bool) {
	for _, f := range a.Factors {
		if f.Factor == key {
			return f, true
		}
	}
	return ContributingFactor{}, false
}

// History records read from the patient data store.

type PainLog struct {
	RecordedAt time.Time `json:"recorded_at"`
	Level      int       `json:"level"`
}

type PainPrediction struct {
	PredictedFor     time.Time `json:"predicted_for"`
	FlareProbability float64   `json:"flare_probability"`
}

type ExerciseLog struct {
	PerformedAt time.Time `json:"performed_at"`
	Completed   bool      `json:"completed"`
	PainDuring  *int      `json:"pain_during,omitempty"`
}

type Program struct {
	ID                 uuid.UUID `json:"id"`
	StartedAt          time.Time `json:"started_at"`
	SessionsPerWeek    int       `json:"sessions_per_week"`
	CurrentPhase       int       `json:"current_phase"`
	PhaseStartedAt     time.Time `json:"phase_started_at"`
	PhaseExpectedWeeks int       `json:"phase_expected_weeks"`
}

type MovementSession struct {
	RecordedAt    time.Time `json:"recorded_at"`
	QualityScore  float64   `json:"quality_score"`
	Compensations int       `json:"compensations"`
}

type PROMIS29 struct {
	RecordedAt        time.Time `json:"recorded_at"`
	AnxietyT          float64   `json:"anxiety_t"`
	DepressionT       float64   `json:"depression_t"`
	PainInterferenceT float64   `json:"pain_interference_t"`
}

type TSK11 struct {
	RecordedAt time.Time `json:"recorded_at"`
	Total      int       `json:"total"`
}

type PSFS struct {
	RecordedAt time.Time `json:"recorded_at"`
	Score      float64   `json:"score"`
}

type HealthSample struct {
	RecordedAt time.Time `json:"recorded_at"`
	SleepHours *float64  `json:"sleep_hours,omitempty"`
	HRV        *float64  `json:"hrv,omitempty"`
	Steps      *int      `json:"steps,omitempty"`
}

// AlertSummary is the dashboard view of an active alert.
type AlertSummary struct {
	ID        uuid.UUID `json:"id"`
	PatientID uuid.UUID `json:"patient_id"`
	AlertType string    `json:"alert_type"`
	Severity  string    `json:"severity"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type ProviderDashboard struct {
	ProviderID    uuid.UUID         `json:"provider_id"`
	TotalPatients int               `json:"total_patients"`
	Unassessed    int               `json:"unassessed"`
	Counts        map[RiskLevel]int `json:"counts"`
	HighestRisk   []*RiskAssessment `json:"highest_risk"`
	RecentAlerts  []AlertSummary    `json:"recent_alerts"`
	GeneratedAt   time.Time         `json:"generated_at"`
}
