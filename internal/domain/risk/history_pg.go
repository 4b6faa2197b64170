package risk

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rehab/rehab/internal/platform/db"
)

type historyRepoPG struct{ pool *pgxpool.Pool }

func NewHistoryRepoPG(pool *pgxpool.Pool) HistoryStore { return &historyRepoPG{pool: pool} }

func (r *historyRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

// windowed runs a query taking (patient_id, from, to) and maps each row onto
// T by column position.
func windowed[T any](ctx context.Context, q queryable, sql string, patientID uuid.UUID, from, to time.Time) ([]T, error) {
	rows, err := q.Query(ctx, sql, patientID, from, to)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByPos[T])
}

func (r *historyRepoPG) PainLogs(ctx context.Context, patientID uuid.UUID, from, to time.Time) ([]PainLog, error) {
	return windowed[PainLog](ctx, r.conn(ctx), `
		SELECT recorded_at, level FROM pain_log
		WHERE patient_id = $1 AND recorded_at >= $2 AND recorded_at < $3
		ORDER BY recorded_at`, patientID, from, to)
}

func (r *historyRepoPG) PainPredictions(ctx context.Context, patientID uuid.UUID, from, to time.Time) ([]PainPrediction, error) {
	return windowed[PainPrediction](ctx, r.conn(ctx), `
		SELECT predicted_for, flare_probability FROM pain_prediction
		WHERE patient_id = $1 AND predicted_for >= $2 AND predicted_for < $3
		ORDER BY predicted_for`, patientID, from, to)
}

func (r *historyRepoPG) ExerciseLogs(ctx context.Context, patientID uuid.UUID, from, to time.Time) ([]ExerciseLog, error) {
	return windowed[ExerciseLog](ctx, r.conn(ctx), `
		SELECT performed_at, completed, pain_during FROM exercise_log
		WHERE patient_id = $1 AND performed_at >= $2 AND performed_at < $3
		ORDER BY performed_at`, patientID, from, to)
}

func (r *historyRepoPG) ActiveProgram(ctx context.Context, patientID uuid.UUID) (*Program, error) {
	var p Program
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, started_at, sessions_per_week, current_phase, phase_started_at, phase_expected_weeks
		FROM patient_program
		WHERE patient_id = $1 AND status = 'active'
		ORDER BY started_at DESC LIMIT 1`, patientID).
		Scan(&p.ID, &p.StartedAt, &p.SessionsPerWeek, &p.CurrentPhase, &p.PhaseStartedAt, &p.PhaseExpectedWeeks)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *historyRepoPG) MovementSessions(ctx context.Context, patientID uuid.UUID, from, to time.Time) ([]MovementSession, error) {
	return windowed[MovementSession](ctx, r.conn(ctx), `
		SELECT recorded_at, quality_score, compensations FROM movement_session
		WHERE patient_id = $1 AND recorded_at >= $2 AND recorded_at < $3
		ORDER BY recorded_at`, patientID, from, to)
}

func (r *historyRepoPG) PROMIS29(ctx context.Context, patientID uuid.UUID, from, to time.Time) ([]PROMIS29, error) {
	return windowed[PROMIS29](ctx, r.conn(ctx), `
		SELECT recorded_at, anxiety_t, depression_t, pain_interference_t FROM promis29_assessment
		WHERE patient_id = $1 AND recorded_at >= $2 AND recorded_at < $3
		ORDER BY recorded_at`, patientID, from, to)
}

func (r *historyRepoPG) TSK11(ctx context.Context, patientID uuid.UUID, from, to time.Time) ([]TSK11, error) {
	return windowed[TSK11](ctx, r.conn(ctx), `
		SELECT recorded_at, total FROM tsk11_assessment
		WHERE patient_id = $1 AND recorded_at >= $2 AND recorded_at < $3
		ORDER BY recorded_at`, patientID, from, to)
}

func (r *historyRepoPG) PSFS(ctx context.Context, patientID uuid.UUID, from, to time.Time) ([]PSFS, error) {
	return windowed[PSFS](ctx, r.conn(ctx), `
		SELECT recorded_at, score FROM psfs_assessment
		WHERE patient_id = $1 AND recorded_at >= $2 AND recorded_at < $3
		ORDER BY recorded_at`, patientID, from, to)
}

func (r *historyRepoPG) HealthSamples(ctx context.Context, patientID uuid.UUID, from, to time.Time) ([]HealthSample, error) {
	return windowed[HealthSample](ctx, r.conn(ctx), `
		SELECT recorded_at, sleep_hours, hrv_ms, steps FROM health_metric_sample
		WHERE patient_id = $1 AND recorded_at >= $2 AND recorded_at < $3
		ORDER BY recorded_at`, patientID, from, to)
}
