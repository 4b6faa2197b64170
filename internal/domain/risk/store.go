package risk

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound               = errors.New("risk assessment not found")
	ErrAlreadyReviewed        = errors.New("risk assessment already reviewed")
	ErrAssessmentNotPersisted = errors.New("risk assessment computed but not persisted")
)

// HistoryStore reads the patient records the scorers consume. Every windowed
// query is inclusive of from and exclusive of to, ordered oldest first.
type HistoryStore interface {
	PainLogs(ctx context.Context, patientID uuid.UUID, from, to time.Time) ([]PainLog, error)
	PainPredictions(ctx context.Context, patientID uuid.UUID, from, to time.Time) ([]PainPrediction, error)
	ExerciseLogs(ctx context.Context, patientID uuid.UUID, from, to time.Time) ([]ExerciseLog, error)
	// ActiveProgram returns nil, nil when the patient has no active program.
	ActiveProgram(ctx context.Context, patientID uuid.UUID) (*Program, error)
	MovementSessions(ctx context.Context, patientID uuid.UUID, from, to time.Time) ([]MovementSession, error)
	PROMIS29(ctx context.Context, patientID uuid.UUID, from, to time.Time) ([]PROMIS29, error)
	TSK11(ctx context.Context, patientID uuid.UUID, from, to time.Time) ([]TSK11, error)
	PSFS(ctx context.Context, patientID uuid.UUID, from, to time.Time) ([]PSFS, error)
	HealthSamples(ctx context.Context, patientID uuid.UUID, from, to time.Time) ([]HealthSample, error)
}

// AssessmentStore persists assessments append-only.
type AssessmentStore interface {
	Create(ctx context.Context, a *RiskAssessment) error
	GetByID(ctx context.Context, id uuid.UUID) (*RiskAssessment, error)
	// Latest returns ErrNotFound when the patient has never been assessed.
	Latest(ctx context.Context, patientID uuid.UUID) (*RiskAssessment, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*RiskAssessment, int, error)
	MarkReviewed(ctx context.Context, id, reviewerID uuid.UUID, notes *string, at time.Time) error
	// PanelLatest returns the panel size and the latest assessment of every
	// assessed patient on the provider's panel.
	PanelLatest(ctx context.Context, providerID uuid.UUID) (int, []*RiskAssessment, error)
	RecentActiveAlerts(ctx context.Context, providerID uuid.UUID, limit int) ([]AlertSummary, error)
}
