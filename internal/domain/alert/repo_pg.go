package alert

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rehab/rehab/internal/platform/db"
)

// uniqueViolation is the Postgres SQLSTATE for a unique index conflict.
const uniqueViolation = "23505"

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const alertCols = `id, patient_id, assessment_id, alert_type, severity, title, message, status,
	acknowledged_by, acknowledged_at, resolved_by, resolved_at, dismissed_by, dismissed_at,
	notes, created_at, updated_at`

func scanAlert(row pgx.Row) (*RiskAlert, error) {
	var a RiskAlert
	err := row.Scan(&a.ID, &a.PatientID, &a.AssessmentID, &a.AlertType, &a.Severity,
		&a.Title, &a.Message, &a.Status,
		&a.AcknowledgedBy, &a.AcknowledgedAt, &a.ResolvedBy, &a.ResolvedAt,
		&a.DismissedBy, &a.DismissedAt, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *RiskAlert) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO risk_alert (id, patient_id, assessment_id, alert_type, severity, title, message, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		a.ID, a.PatientID, a.AssessmentID, string(a.AlertType), string(a.Severity),
		a.Title, a.Message, string(a.Status),
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateActive
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*RiskAlert, error) {
	return scanAlert(r.conn(ctx).QueryRow(ctx, `SELECT `+alertCols+` FROM risk_alert WHERE id = $1`, id))
}

func (r *repoPG) list(ctx context.Context, where string, args []interface{}, limit, offset int) ([]*RiskAlert, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM risk_alert WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	args = append(args, limit, offset)
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+alertCols+` FROM risk_alert WHERE `+where+
		` ORDER BY created_at DESC LIMIT $`+strconv.Itoa(n+1)+` OFFSET $`+strconv.Itoa(n+2), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []*RiskAlert{}
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, a)
	}
	return items, total, rows.Err()
}

func (r *repoPG) List(ctx context.Context, status Status, limit, offset int) ([]*RiskAlert, int, error) {
	return r.list(ctx, `($1 = '' OR status = $1)`, []interface{}{string(status)}, limit, offset)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, status Status, limit, offset int) ([]*RiskAlert, int, error) {
	return r.list(ctx, `patient_id = $1 AND ($2 = '' OR status = $2)`,
		[]interface{}{patientID, string(status)}, limit, offset)
}

func (r *repoPG) HasActive(ctx context.Context, patientID uuid.UUID, alertType AlertType) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM risk_alert
		WHERE patient_id = $1 AND alert_type = $2 AND status = 'active')`,
		patientID, string(alertType)).Scan(&exists)
	return exists, err
}

func (r *repoPG) Update(ctx context.Context, id uuid.UUID, mutate func(*RiskAlert) error) (*RiskAlert, error) {
	var updated *RiskAlert
	err := db.WithTx(ctx, r.pool, func(ctx context.Context) error {
		a, err := scanAlert(r.conn(ctx).QueryRow(ctx,
			`SELECT `+alertCols+` FROM risk_alert WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			return err
		}
		if err := mutate(a); err != nil {
			return err
		}
		_, err = r.conn(ctx).Exec(ctx, `
			UPDATE risk_alert SET status = $2,
				acknowledged_by = $3, acknowledged_at = $4,
				resolved_by = $5, resolved_at = $6,
				dismissed_by = $7, dismissed_at = $8,
				notes = $9, updated_at = $10
			WHERE id = $1`,
			a.ID, string(a.Status), a.AcknowledgedBy, a.AcknowledgedAt,
			a.ResolvedBy, a.ResolvedAt, a.DismissedBy, a.DismissedAt, a.Notes, a.UpdatedAt)
		updated = a
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
