package alert

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rehab/rehab/internal/domain/redflag"
	"github.com/rehab/rehab/internal/domain/risk"
	"github.com/rehab/rehab/internal/platform/events"
)

type Service struct {
	repo      Repository
	publisher events.Publisher
	logger    zerolog.Logger
	now       func() time.Time
}

func NewService(repo Repository, publisher events.Publisher, logger zerolog.Logger) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger.With().Str("component", "alerts").Logger(),
		now:       time.Now,
	}
}

// Create stores a new active alert. Apart from red flags a patient holds at
// most one active alert per type; a duplicate returns ErrDuplicateActive.
func (s *Service) Create(ctx context.Context, a *RiskAlert) error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if strings.TrimSpace(a.Title) == "" {
		return fmt.Errorf("title is required")
	}
	a.Status = StatusActive
	if err := s.repo.Create(ctx, a); err != nil {
		return err
	}
	s.logger.Info().
		Str("alert_id", a.ID.String()).
		Str("patient_id", a.PatientID.String()).
		Str("alert_type", string(a.AlertType)).
		Str("severity", string(a.Severity)).
		Msg("alert raised")
	s.publish(ctx, "alert.created", a, nil)
	return nil
}

func (s *Service) GetAlert(ctx context.Context, id uuid.UUID) (*RiskAlert, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListAlerts(ctx context.Context, status Status, limit, offset int) ([]*RiskAlert, int, error) {
	return s.repo.List(ctx, status, limit, offset)
}

func (s *Service) ListPatientAlerts(ctx context.Context, patientID uuid.UUID, status Status, limit, offset int) ([]*RiskAlert, int, error) {
	return s.repo.ListByPatient(ctx, patientID, status, limit, offset)
}

func (s *Service) Acknowledge(ctx context.Context, id, actorID uuid.UUID, notes string) (*RiskAlert, error) {
	return s.transition(ctx, id, StatusAcknowledged, actorID, notes)
}

func (s *Service) Resolve(ctx context.Context, id, actorID uuid.UUID, notes string) (*RiskAlert, error) {
	return s.transition(ctx, id, StatusResolved, actorID, notes)
}

func (s *Service) Dismiss(ctx context.Context, id, actorID uuid.UUID, notes string) (*RiskAlert, error) {
	return s.transition(ctx, id, StatusDismissed, actorID, notes)
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, to Status, actorID uuid.UUID, notes string) (*RiskAlert, error) {
	if actorID == uuid.Nil {
		return nil, fmt.Errorf("actor is required")
	}
	var n *string
	if notes = strings.TrimSpace(notes); notes != "" {
		n = &notes
	}
	at := s.now().UTC()
	a, err := s.repo.Update(ctx, id, func(a *RiskAlert) error {
		return a.transition(to, actorID, n, at)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("alert_id", a.ID.String()).
		Str("status", string(a.Status)).
		Str("actor_id", actorID.String()).
		Msg("alert status changed")
	s.publish(ctx, "alert."+string(to), a, &actorID)
	return a, nil
}

// publish never fails the caller; the alert row is the record of truth.
func (s *Service) publish(ctx context.Context, eventType string, a *RiskAlert, actor *uuid.UUID) {
	ev := Event{
		EventType:  eventType,
		AlertID:    a.ID,
		PatientID:  a.PatientID,
		AlertType:  a.AlertType,
		Severity:   a.Severity,
		Status:     a.Status,
		Title:      a.Title,
		ActorID:    actor,
		OccurredAt: s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, a.PatientID.String(), ev); err != nil {
		s.logger.Warn().Err(err).Str("alert_id", a.ID.String()).Str("event_type", eventType).Msg("alert event not published")
	}
}

// raise creates an alert unless the patient already has an active one of
// the same type.
func (s *Service) raise(ctx context.Context, a *RiskAlert) error {
	active, err := s.repo.HasActive(ctx, a.PatientID, a.AlertType)
	if err != nil {
		return fmt.Errorf("check active %s alert: %w", a.AlertType, err)
	}
	if active {
		s.logger.Debug().Str("patient_id", a.PatientID.String()).Str("alert_type", string(a.AlertType)).Msg("alert suppressed")
		return nil
	}
	if err := s.Create(ctx, a); err != nil && !errors.Is(err, ErrDuplicateActive) {
		return err
	}
	return nil
}

// OnAssessment raises alerts for a freshly persisted assessment: when the
// level rises into high or critical, and when the inactivity or pain-spike
// factors fire.
func (s *Service) OnAssessment(ctx context.Context, current, previous *risk.RiskAssessment) error {
	var errs []error
	assessmentID := current.ID

	if current.RiskLevel.Rank() >= risk.LevelHigh.Rank() &&
		(previous == nil || previous.RiskLevel.Rank() < current.RiskLevel.Rank()) {
		sev := SeverityHigh
		if current.RiskLevel == risk.LevelCritical {
			sev = SeverityCritical
		}
		errs = append(errs, s.raise(ctx, &RiskAlert{
			PatientID:    current.PatientID,
			AssessmentID: &assessmentID,
			AlertType:    TypeRiskLevel,
			Severity:     sev,
			Title:        fmt.Sprintf("Risk level %s", current.RiskLevel),
			Message:      riskMessage(current),
		}))
	}

	if f, ok := current.HasFactor("inactivity"); ok {
		errs = append(errs, s.raise(ctx, &RiskAlert{
			PatientID:    current.PatientID,
			AssessmentID: &assessmentID,
			AlertType:    TypeInactivity,
			Severity:     SeverityHigh,
			Title:        "Patient inactive",
			Message:      f.Description,
		}))
	}

	if f, ok := current.HasFactor("pain_spike"); ok {
		errs = append(errs, s.raise(ctx, &RiskAlert{
			PatientID:    current.PatientID,
			AssessmentID: &assessmentID,
			AlertType:    TypePainSpike,
			Severity:     SeverityHigh,
			Title:        "Pain spike reported",
			Message:      f.Description,
		}))
	}
	return errors.Join(errs...)
}

func riskMessage(a *risk.RiskAssessment) string {
	msg := fmt.Sprintf("Overall risk score %.1f", a.OverallScore)
	if a.PreviousScore != nil {
		msg += fmt.Sprintf(" (previously %.1f)", *a.PreviousScore)
	}
	if len(a.Factors) > 0 {
		msg += ". Top factor: " + a.Factors[0].Description
	}
	return msg
}

// OnRedFlagReport raises a critical alert for every report carrying a
// critical flag, even when one is already active. Warning-only reports are
// left to the patient's own follow-up.
func (s *Service) OnRedFlagReport(ctx context.Context, patientID uuid.UUID, r *redflag.Report) error {
	if r == nil || r.CriticalCount == 0 {
		return nil
	}
	worst := r.MostSevere()
	return s.Create(ctx, &RiskAlert{
		PatientID: patientID,
		AlertType: TypeRedFlag,
		Severity:  SeverityCritical,
		Title:     fmt.Sprintf("Red flag: %s", worst.Condition),
		Message:   fmt.Sprintf("Patient reported %q. %s", worst.Symptom, worst.Action),
	})
}
