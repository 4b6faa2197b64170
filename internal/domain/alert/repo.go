package alert

import (
	"context"

	"github.com/google/uuid"
)

// Repository stores alerts. An empty status filter matches every status.
type Repository interface {
	// Create returns ErrDuplicateActive when the patient already has an
	// active alert of the same type.
	Create(ctx context.Context, a *RiskAlert) error
	GetByID(ctx context.Context, id uuid.UUID) (*RiskAlert, error)
	List(ctx context.Context, status Status, limit, offset int) ([]*RiskAlert, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, status Status, limit, offset int) ([]*RiskAlert, int, error)
	HasActive(ctx context.Context, patientID uuid.UUID, alertType AlertType) (bool, error)
	// Update loads the alert under a row lock, applies mutate and writes the
	// lifecycle columns back.
	Update(ctx context.Context, id uuid.UUID, mutate func(*RiskAlert) error) (*RiskAlert, error)
}
