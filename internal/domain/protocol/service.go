package protocol

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rehab/rehab/internal/domain/redflag"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NormalizeSurgeryType canonicalizes a surgery key: trimmed, lower case,
// spaces and dashes folded to underscores.
func NormalizeSurgeryType(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

func (s *Service) validate(p *SurgeryProtocol) error {
	p.SurgeryType = NormalizeSurgeryType(p.SurgeryType)
	if p.SurgeryType == "" {
		return fmt.Errorf("surgery_type is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if p.ExpectedWeeks < 0 {
		return fmt.Errorf("expected_weeks must not be negative")
	}
	flags := make([]string, 0, len(p.RedFlags))
	for _, f := range p.RedFlags {
		if f = strings.TrimSpace(f); f != "" {
			flags = append(flags, f)
		}
	}
	p.RedFlags = flags
	return nil
}

func (s *Service) CreateProtocol(ctx context.Context, p *SurgeryProtocol) error {
	if err := s.validate(p); err != nil {
		return err
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) GetProtocol(ctx context.Context, id uuid.UUID) (*SurgeryProtocol, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateProtocol(ctx context.Context, p *SurgeryProtocol) error {
	if err := s.validate(p); err != nil {
		return err
	}
	return s.repo.Update(ctx, p)
}

func (s *Service) DeleteProtocol(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListProtocols(ctx context.Context, limit, offset int) ([]*SurgeryProtocol, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// GetSurgeryProtocol returns the protocol for surgeryType, or nil, nil when
// none is registered. Other store errors are returned.
func (s *Service) GetSurgeryProtocol(ctx context.Context, surgeryType string) (*SurgeryProtocol, error) {
	key := NormalizeSurgeryType(surgeryType)
	if key == "" {
		return nil, nil
	}
	p, err := s.repo.GetBySurgeryType(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get protocol for %s: %w", key, err)
	}
	return p, nil
}

// RedFlagLookup adapts the service to the classifier's protocol collaborator.
type RedFlagLookup struct {
	svc *Service
}

func NewRedFlagLookup(svc *Service) *RedFlagLookup {
	return &RedFlagLookup{svc: svc}
}

func (l *RedFlagLookup) GetSurgeryProtocol(ctx context.Context, surgeryType string) (*redflag.SurgeryProtocol, error) {
	p, err := l.svc.GetSurgeryProtocol(ctx, surgeryType)
	if err != nil || p == nil {
		return nil, err
	}
	return &redflag.SurgeryProtocol{SurgeryType: p.SurgeryType, RedFlags: p.RedFlags}, nil
}
