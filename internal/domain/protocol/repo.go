package protocol

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("surgery protocol not found")

type Repository interface {
	Create(ctx context.Context, p *SurgeryProtocol) error
	GetByID(ctx context.Context, id uuid.UUID) (*SurgeryProtocol, error)
	GetBySurgeryType(ctx context.Context, surgeryType string) (*SurgeryProtocol, error)
	Update(ctx context.Context, p *SurgeryProtocol) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*SurgeryProtocol, int, error)
}
