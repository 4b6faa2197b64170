package risk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rehab/rehab/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type assessmentRepoPG struct{ pool *pgxpool.Pool }

func NewAssessmentRepoPG(pool *pgxpool.Pool) AssessmentStore { return &assessmentRepoPG{pool: pool} }

func (r *assessmentRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const assessmentCols = `id, patient_id, overall_score, risk_level,
	pain_score, adherence_score, psychological_score, movement_score, health_score, progression_score,
	contributing_factors, recommendations, data_sources, degraded_domains, weights,
	previous_score, score_change, score_trend, assessed_at, created_at,
	reviewed_by, reviewed_at, review_notes`

func scanAssessment(row pgx.Row) (*RiskAssessment, error) {
	var a RiskAssessment
	var factors, recs, sources, weights []byte
	var degraded []string
	var trend *string
	err := row.Scan(&a.ID, &a.PatientID, &a.OverallScore, &a.RiskLevel,
		&a.DomainScores.Pain, &a.DomainScores.Adherence, &a.DomainScores.Psychological,
		&a.DomainScores.Movement, &a.DomainScores.Health, &a.DomainScores.Progression,
		&factors, &recs, &sources, &degraded, &weights,
		&a.PreviousScore, &a.ScoreChange, &trend, &a.AssessedAt, &a.CreatedAt,
		&a.ReviewedBy, &a.ReviewedAt, &a.ReviewNotes)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := unmarshalJSON(factors, &a.Factors); err != nil {
		return nil, fmt.Errorf("contributing_factors: %w", err)
	}
	if err := unmarshalJSON(recs, &a.Recommendations); err != nil {
		return nil, fmt.Errorf("recommendations: %w", err)
	}
	if err := unmarshalJSON(sources, &a.DataSources); err != nil {
		return nil, fmt.Errorf("data_sources: %w", err)
	}
	if err := unmarshalJSON(weights, &a.Weights); err != nil {
		return nil, fmt.Errorf("weights: %w", err)
	}
	for _, d := range degraded {
		a.DegradedDomains = append(a.DegradedDomains, Domain(d))
	}
	if trend != nil {
		t := ScoreTrend(*trend)
		a.ScoreTrend = &t
	}
	return &a, nil
}

// prefixed qualifies every column in a column list with a table alias.
func prefixed(alias, cols string) string {
	parts := strings.Split(cols, ",")
	for i, p := range parts {
		parts[i] = alias + "." + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}

func unmarshalJSON(raw []byte, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func (r *assessmentRepoPG) Create(ctx context.Context, a *RiskAssessment) error {
	factors, err := json.Marshal(a.Factors)
	if err != nil {
		return err
	}
	recs, err := json.Marshal(a.Recommendations)
	if err != nil {
		return err
	}
	sources, err := json.Marshal(a.DataSources)
	if err != nil {
		return err
	}
	weights, err := json.Marshal(a.Weights)
	if err != nil {
		return err
	}
	degraded := make([]string, 0, len(a.DegradedDomains))
	for _, d := range a.DegradedDomains {
		degraded = append(degraded, string(d))
	}
	var trend *string
	if a.ScoreTrend != nil {
		t := string(*a.ScoreTrend)
		trend = &t
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO risk_assessment (id, patient_id, overall_score, risk_level,
			pain_score, adherence_score, psychological_score, movement_score, health_score, progression_score,
			contributing_factors, recommendations, data_sources, degraded_domains, weights,
			previous_score, score_change, score_trend, assessed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		RETURNING created_at`,
		a.ID, a.PatientID, a.OverallScore, string(a.RiskLevel),
		a.DomainScores.Pain, a.DomainScores.Adherence, a.DomainScores.Psychological,
		a.DomainScores.Movement, a.DomainScores.Health, a.DomainScores.Progression,
		factors, recs, sources, degraded, weights,
		a.PreviousScore, a.ScoreChange, trend, a.AssessedAt,
	).Scan(&a.CreatedAt)
}

func (r *assessmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*RiskAssessment, error) {
	return scanAssessment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+assessmentCols+` FROM risk_assessment WHERE id = $1`, id))
}

func (r *assessmentRepoPG) Latest(ctx context.Context, patientID uuid.UUID) (*RiskAssessment, error) {
	return scanAssessment(r.conn(ctx).QueryRow(ctx,
		`SELECT `+assessmentCols+` FROM risk_assessment
		WHERE patient_id = $1 ORDER BY assessed_at DESC, created_at DESC LIMIT 1`, patientID))
}

func (r *assessmentRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*RiskAssessment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM risk_assessment WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+assessmentCols+` FROM risk_assessment
		WHERE patient_id = $1 ORDER BY assessed_at DESC, created_at DESC LIMIT $2 OFFSET $3`,
		patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items, err := collectAssessments(rows)
	return items, total, err
}

func collectAssessments(rows pgx.Rows) ([]*RiskAssessment, error) {
	items := []*RiskAssessment{}
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

// MarkReviewed only touches rows that were never reviewed; the review stamp
// is the single permitted update.
func (r *assessmentRepoPG) MarkReviewed(ctx context.Context, id, reviewerID uuid.UUID, notes *string, at time.Time) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE risk_assessment SET reviewed_by = $2, reviewed_at = $3, review_notes = $4
		WHERE id = $1 AND reviewed_at IS NULL`, id, reviewerID, at, notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	var exists bool
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM risk_assessment WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrAlreadyReviewed
}

func (r *assessmentRepoPG) PanelLatest(ctx context.Context, providerID uuid.UUID) (int, []*RiskAssessment, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM provider_patient WHERE provider_id = $1 AND active`, providerID).Scan(&total); err != nil {
		return 0, nil, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT DISTINCT ON (ra.patient_id) `+prefixed("ra", assessmentCols)+`
		FROM risk_assessment ra
		JOIN provider_patient pp ON pp.patient_id = ra.patient_id
		WHERE pp.provider_id = $1 AND pp.active
		ORDER BY ra.patient_id, ra.assessed_at DESC, ra.created_at DESC`, providerID)
	if err != nil {
		return 0, nil, err
	}
	defer rows.Close()

	items, err := collectAssessments(rows)
	return total, items, err
}

func (r *assessmentRepoPG) RecentActiveAlerts(ctx context.Context, providerID uuid.UUID, limit int) ([]AlertSummary, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT a.id, a.patient_id, a.alert_type, a.severity, a.title, a.created_at
		FROM risk_alert a
		JOIN provider_patient pp ON pp.patient_id = a.patient_id
		WHERE pp.provider_id = $1 AND pp.active AND a.status = 'active'
		ORDER BY a.created_at DESC LIMIT $2`, providerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	alerts := []AlertSummary{}
	for rows.Next() {
		var s AlertSummary
		if err := rows.Scan(&s.ID, &s.PatientID, &s.AlertType, &s.Severity, &s.Title, &s.CreatedAt); err != nil {
			return nil, err
		}
		alerts = append(alerts, s)
	}
	return alerts, rows.Err()
}
