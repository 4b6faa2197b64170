package alert

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive       Status = "active"
	StatusAcknowledged Status = "acknowledged"
	StatusResolved     Status = "resolved"
	StatusDismissed    Status = "dismissed"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusActive, StatusAcknowledged, StatusResolved, StatusDismissed:
		return st, nil
	}
	return "", fmt.Errorf("unknown alert status %q", s)
}

type AlertType string

const (
	TypeRiskLevel  AlertType = "risk_level"
	TypeInactivity AlertType = "inactivity"
	TypePainSpike  AlertType = "pain_spike"
	TypeRedFlag    AlertType = "red_flag"
)

type Severity string

const (
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

var (
	ErrNotFound          = errors.New("alert not found")
	ErrInvalidTransition = errors.New("invalid alert status transition")
	ErrDuplicateActive   = errors.New("an active alert of this type already exists")
)

type RiskAlert struct {
	ID             uuid.UUID  `json:"id"`
	PatientID      uuid.UUID  `json:"patient_id"`
	AssessmentID   *uuid.UUID `json:"assessment_id,omitempty"`
	AlertType      AlertType  `json:"alert_type"`
	Severity       Severity   `json:"severity"`
	Title          string     `json:"title"`
	Message        string     `json:"message"`
	Status         Status     `json:"status"`
	AcknowledgedBy *uuid.UUID `json:"acknowledged_by,omitempty"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	ResolvedBy     *uuid.UUID `json:"resolved_by,omitempty"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
	DismissedBy    *uuid.UUID `json:"dismissed_by,omitempty"`
	DismissedAt    *time.Time `json:"dismissed_at,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// transitions lists the allowed moves; resolved and dismissed are final.
var transitions = map[Status][]Status{
	StatusActive:       {StatusAcknowledged, StatusDismissed},
	StatusAcknowledged: {StatusResolved},
}

func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// transition moves the alert to status to and stamps who did it and when.
func (a *RiskAlert) transition(to Status, actor uuid.UUID, notes *string, at time.Time) error {
	if !CanTransition(a.Status, to) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, a.Status, to)
	}
	switch to {
	case StatusAcknowledged:
		a.AcknowledgedBy, a.AcknowledgedAt = &actor, &at
	case StatusResolved:
		a.ResolvedBy, a.ResolvedAt = &actor, &at
	case StatusDismissed:
		a.DismissedBy, a.DismissedAt = &actor, &at
	}
	a.Status = to
	if notes != nil {
		a.Notes = notes
	}
	a.UpdatedAt = at
	return nil
}

// Event is published on every alert creation and transition.
type Event struct {
	EventType  string     `json:"event_type"`
	AlertID    uuid.UUID  `json:"alert_id"`
	PatientID  uuid.UUID  `json:"patient_id"`
	AlertType  AlertType  `json:"alert_type"`
	Severity   Severity   `json:"severity"`
	Status     Status     `json:"status"`
	Title      string     `json:"title"`
	ActorID    *uuid.UUID `json:"actor_id,omitempty"`
	OccurredAt time.Time  `json:"occurred_at"`
}
