package risk

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// AssessmentObserver is told about every persisted assessment together with
// the one before it (nil for a patient's first).
type AssessmentObserver interface {
	OnAssessment(ctx context.Context, current, previous *RiskAssessment) error
}

type Engine struct {
	history     HistoryStore
	assessments AssessmentStore
	observer    AssessmentObserver
	weights     RiskWeights
	printer     *message.Printer
	logger      zerolog.Logger
	now         func() time.Time
}

type EngineOption func(*Engine)

func WithWeights(w RiskWeights) EngineOption {
	return func(e *Engine) { e.weights = w.Normalized() }
}

func WithObserver(o AssessmentObserver) EngineOption {
	return func(e *Engine) { e.observer = o }
}

// WithLanguage selects the language factor descriptions are written in.
func WithLanguage(lang string) EngineOption {
	return func(e *Engine) { e.printer = PrinterFor(lang) }
}

func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

func NewEngine(history HistoryStore, assessments AssessmentStore, logger zerolog.Logger, opts ...EngineOption) *Engine {
	e := &Engine{
		history:     history,
		assessments: assessments,
		weights:     DefaultWeights(),
		printer:     message.NewPrinter(language.English),
		logger:      logger.With().Str("component", "risk_engine").Logger(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type scoreFunc func(ctx context.Context, patientID uuid.UUID, now time.Time) (DomainScore, error)

func (e *Engine) scorer(d Domain) scoreFunc {
	switch d {
	case DomainPain:
		return e.painScore
	case DomainAdherence:
		return e.adherenceScore
	case DomainPsychological:
		return e.psychologicalScore
	case DomainMovement:
		return e.movementScore
	case DomainHealth:
		return e.healthScore
	default:
		return e.progressionScore
	}
}

func (e *Engine) painScore(ctx context.Context, patientID uuid.UUID, now time.Time) (DomainScore, error) {
	from := now.Add(-windows[DomainPain])
	logs, err := e.history.PainLogs(ctx, patientID, from, now)
	if err != nil {
		return DomainScore{}, fmt.Errorf("pain logs: %w", err)
	}
	preds, err := e.history.PainPredictions(ctx, patientID, from, now.Add(windows[DomainPain]))
	if err != nil {
		return DomainScore{}, fmt.Errorf("pain predictions: %w", err)
	}
	return scorePain(e.printer, logs, preds), nil
}

func (e *Engine) adherenceScore(ctx context.Context, patientID uuid.UUID, now time.Time) (DomainScore, error) {
	program, err := e.history.ActiveProgram(ctx, patientID)
	if err != nil {
		return DomainScore{}, fmt.Errorf("active program: %w", err)
	}
	from := now.Add(-windows[DomainAdherence])
	logs, err := e.history.ExerciseLogs(ctx, patientID, from, now)
	if err != nil {
		return DomainScore{}, fmt.Errorf("exercise logs: %w", err)
	}
	return scoreAdherence(e.printer, logs, program, from, now), nil
}

func (e *Engine) psychologicalScore(ctx context.Context, patientID uuid.UUID, now time.Time) (DomainScore, error) {
	from := now.Add(-windows[DomainPsychological])
	promis, err := e.history.PROMIS29(ctx, patientID, from, now)
	if err != nil {
		return DomainScore{}, fmt.Errorf("promis-29: %w", err)
	}
	tsk, err := e.history.TSK11(ctx, patientID, from, now)
	if err != nil {
		return DomainScore{}, fmt.Errorf("tsk-11: %w", err)
	}
	return scorePsychological(e.printer, promis, tsk), nil
}

func (e *Engine) movementScore(ctx context.Context, patientID uuid.UUID, now time.Time) (DomainScore, error) {
	sessions, err := e.history.MovementSessions(ctx, patientID, now.Add(-windows[DomainMovement]), now)
	if err != nil {
		return DomainScore{}, fmt.Errorf("movement sessions: %w", err)
	}
	return scoreMovement(e.printer, sessions), nil
}

func (e *Engine) healthScore(ctx context.Context, patientID uuid.UUID, now time.Time) (DomainScore, error) {
	samples, err := e.history.HealthSamples(ctx, patientID, now.Add(-windows[DomainHealth]), now)
	if err != nil {
		return DomainScore{}, fmt.Errorf("health samples: %w", err)
	}
	return scoreHealth(e.printer, samples), nil
}

func (e *Engine) progressionScore(ctx context.Context, patientID uuid.UUID, now time.Time) (DomainScore, error) {
	psfs, err := e.history.PSFS(ctx, patientID, now.Add(-windows[DomainProgression]), now)
	if err != nil {
		return DomainScore{}, fmt.Errorf("psfs: %w", err)
	}
	program, err := e.history.ActiveProgram(ctx, patientID)
	if err != nil {
		return DomainScore{}, fmt.Errorf("active program: %w", err)
	}
	return scoreProgression(e.printer, psfs, program, now), nil
}

// runScorer never fails: a scorer whose data cannot be read contributes a
// zero marked as degraded.
func (e *Engine) runScorer(ctx context.Context, d Domain, patientID uuid.UUID, now time.Time) DomainScore {
	s, err := e.scorer(d)(ctx, patientID, now)
	if err != nil {
		e.logger.Warn().Err(err).
			Str("patient_id", patientID.String()).
			Str("domain", string(d)).
			Msg("domain scorer degraded")
		return DomainScore{Domain: d, Factors: []ContributingFactor{}, Degraded: true}
	}
	s.Domain = d
	return s
}

// CalculateRiskAssessment scores all domains concurrently, aggregates them
// with weights (engine defaults when nil), compares against the previous
// assessment and persists the result. When only persistence fails the
// computed assessment is returned along with ErrAssessmentNotPersisted.
func (e *Engine) CalculateRiskAssessment(ctx context.Context, patientID uuid.UUID, weights *RiskWeights) (*RiskAssessment, error) {
	w := e.weights
	if weights != nil {
		if err := weights.Validate(); err != nil {
			return nil, err
		}
		w = weights.Normalized()
	}
	now := e.now().UTC()

	scores := make([]DomainScore, len(Domains))
	var previous *RiskAssessment

	var g errgroup.Group
	for i, d := range Domains {
		g.Go(func() error {
			scores[i] = e.runScorer(ctx, d, patientID, now)
			return nil
		})
	}
	g.Go(func() error {
		prev, err := e.assessments.Latest(ctx, patientID)
		switch {
		case errors.Is(err, ErrNotFound):
		case err != nil:
			e.logger.Warn().Err(err).Str("patient_id", patientID.String()).Msg("previous assessment unavailable")
		default:
			previous = prev
		}
		return nil
	})
	_ = g.Wait()

	a := &RiskAssessment{
		ID:          uuid.New(),
		PatientID:   patientID,
		Factors:     []ContributingFactor{},
		DataSources: make(map[Domain]int, len(Domains)),
		Weights:     w,
		AssessedAt:  now,
	}
	for _, s := range scores {
		a.DomainScores.set(s.Domain, s.Score)
		a.DataSources[s.Domain] = s.Samples
		if s.Degraded {
			a.DegradedDomains = append(a.DegradedDomains, s.Domain)
		}
		a.Factors = append(a.Factors, s.Factors...)
	}
	sort.SliceStable(a.Factors, func(i, j int) bool { return a.Factors[i].Impact > a.Factors[j].Impact })

	a.OverallScore = WeightedScore(a.DomainScores, w)
	a.RiskLevel = LevelForScore(a.OverallScore)
	a.Recommendations = Recommend(a.Factors, a.RiskLevel)

	if previous != nil {
		prev := previous.OverallScore
		change := round1(a.OverallScore - prev)
		trend := ComputeTrend(prev, a.OverallScore)
		a.PreviousScore = &prev
		a.ScoreChange = &change
		a.ScoreTrend = &trend
	}

	if err := e.assessments.Create(ctx, a); err != nil {
		e.logger.Error().Err(err).Str("patient_id", patientID.String()).Msg("failed to persist risk assessment")
		return a, fmt.Errorf("%w: %v", ErrAssessmentNotPersisted, err)
	}

	e.logger.Info().
		Str("patient_id", patientID.String()).
		Str("assessment_id", a.ID.String()).
		Float64("overall_score", a.OverallScore).
		Str("risk_level", string(a.RiskLevel)).
		Int("degraded", len(a.DegradedDomains)).
		Msg("risk assessment calculated")

	if e.observer != nil {
		if err := e.observer.OnAssessment(ctx, a, previous); err != nil {
			e.logger.Error().Err(err).Str("assessment_id", a.ID.String()).Msg("assessment observer failed")
		}
	}
	return a, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// WeightedScore is the weighted sum of domain scores, clamped to [0,100]
// and rounded to one decimal.
func WeightedScore(s DomainScores, w RiskWeights) float64 {
	sum := s.Pain*w.Pain +
		s.Adherence*w.Adherence +
		s.Psychological*w.Psychological +
		s.Movement*w.Movement +
		s.Health*w.Health +
		s.Progression*w.Progression
	return round1(clamp(sum))
}

func LevelForScore(score float64) RiskLevel {
	switch {
	case score >= 75:
		return LevelCritical
	case score >= 50:
		return LevelHigh
	case score >= 25:
		return LevelModerate
	default:
		return LevelLow
	}
}

// ComputeTrend compares two overall scores; a change beyond five points
// either way is a trend.
func ComputeTrend(previous, current float64) ScoreTrend {
	delta := round1(current - previous)
	switch {
	case delta > 5:
		return TrendWorsening
	case delta < -5:
		return TrendImproving
	default:
		return TrendStable
	}
}
