package protocol

import (
	"context"
	"errors"
	"fmt"

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

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const protocolCols = `id, surgery_type, name, description, red_flags, expected_weeks, created_at, updated_at`

func scanProtocol(row pgx.Row) (*SurgeryProtocol, error) {
	var p SurgeryProtocol
	err := row.Scan(&p.ID, &p.SurgeryType, &p.Name, &p.Description, &p.RedFlags,
		&p.ExpectedWeeks, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repoPG) Create(ctx context.Context, p *SurgeryProtocol) error {
	p.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO surgery_protocol (id, surgery_type, name, description, red_flags, expected_weeks)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at, updated_at`,
		p.ID, p.SurgeryType, p.Name, p.Description, p.RedFlags, p.ExpectedWeeks,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*SurgeryProtocol, error) {
	return scanProtocol(r.conn(ctx).QueryRow(ctx,
		`SELECT `+protocolCols+` FROM surgery_protocol WHERE id = $1`, id))
}

func (r *repoPG) GetBySurgeryType(ctx context.Context, surgeryType string) (*SurgeryProtocol, error) {
	return scanProtocol(r.conn(ctx).QueryRow(ctx,
		`SELECT `+protocolCols+` FROM surgery_protocol WHERE surgery_type = $1`, surgeryType))
}

func (r *repoPG) Update(ctx context.Context, p *SurgeryProtocol) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE surgery_protocol
		SET surgery_type = $2, name = $3, description = $4, red_flags = $5,
		    expected_weeks = $6, updated_at = NOW()
		WHERE id = $1`,
		p.ID, p.SurgeryType, p.Name, p.Description, p.RedFlags, p.ExpectedWeeks)
	if err != nil {
		return fmt.Errorf("update surgery protocol: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM surgery_protocol WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete surgery protocol: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*SurgeryProtocol, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM surgery_protocol`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count surgery protocols: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+protocolCols+` FROM surgery_protocol ORDER BY surgery_type LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list surgery protocols: %w", err)
	}
	defer rows.Close()

	var items []*SurgeryProtocol
	for rows.Next() {
		p, err := scanProtocol(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}
