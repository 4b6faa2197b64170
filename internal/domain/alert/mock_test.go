package alert

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

type mockRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*RiskAlert
	order []uuid.UUID
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*RiskAlert)}
}

func (m *mockRepo) Create(_ context.Context, a *RiskAlert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.AlertType != TypeRedFlag {
		for _, existing := range m.items {
			if existing.PatientID == a.PatientID && existing.AlertType == a.AlertType && existing.Status == StatusActive {
				return ErrDuplicateActive
			}
		}
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	m.items[a.ID] = a
	m.order = append(m.order, a.ID)
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*RiskAlert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

func (m *mockRepo) filter(keep func(*RiskAlert) bool, limit, offset int) ([]*RiskAlert, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []*RiskAlert
	for i := len(m.order) - 1; i >= 0; i-- {
		if a := m.items[m.order[i]]; keep(a) {
			all = append(all, a)
		}
	}
	total := len(all)
	if offset >= total {
		return []*RiskAlert{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (m *mockRepo) List(_ context.Context, status Status, limit, offset int) ([]*RiskAlert, int, error) {
	return m.filter(func(a *RiskAlert) bool { return status == "" || a.Status == status }, limit, offset)
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID uuid.UUID, status Status, limit, offset int) ([]*RiskAlert, int, error) {
	return m.filter(func(a *RiskAlert) bool {
		return a.PatientID == patientID && (status == "" || a.Status == status)
	}, limit, offset)
}

func (m *mockRepo) HasActive(_ context.Context, patientID uuid.UUID, alertType AlertType) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.items {
		if a.PatientID == patientID && a.AlertType == alertType && a.Status == StatusActive {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRepo) Update(_ context.Context, id uuid.UUID, mutate func(*RiskAlert) error) (*RiskAlert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	if err := mutate(&cp); err != nil {
		return nil, err
	}
	m.items[id] = &cp
	return &cp, nil
}

func (m *mockRepo) byType(t AlertType) []*RiskAlert {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*RiskAlert
	for _, id := range m.order {
		if a := m.items[id]; a.AlertType == t {
			out = append(out, a)
		}
	}
	return out
}

type capturePublisher struct {
	mu     sync.Mutex
	keys   []string
	events []Event
	err    error
}

func (p *capturePublisher) Publish(_ context.Context, key string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.keys = append(p.keys, key)
	p.events = append(p.events, payload.(Event))
	return nil
}

func (p *capturePublisher) Close() error { return nil }

var errBrokerDown = errors.New("broker unavailable")
