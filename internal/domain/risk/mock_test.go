package risk

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var errStoreDown = errors.New("store unavailable")

// mockHistory serves fixed records; a non-nil entry in fail makes that query
// return errStoreDown.
type mockHistory struct {
	pain        []PainLog
	predictions []PainPrediction
	exercise    []ExerciseLog
	program     *Program
	movement    []MovementSession
	promis      []PROMIS29
	tsk         []TSK11
	psfs        []PSFS
	health      []HealthSample
	fail        map[string]bool
}

func (m *mockHistory) err(name string) error {
	if m.fail[name] {
		return errStoreDown
	}
	return nil
}

func (m *mockHistory) PainLogs(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]PainLog, error) {
	return append([]PainLog(nil), m.pain...), m.err("pain")
}

func (m *mockHistory) PainPredictions(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]PainPrediction, error) {
	return m.predictions, m.err("predictions")
}

func (m *mockHistory) ExerciseLogs(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]ExerciseLog, error) {
	return m.exercise, m.err("exercise")
}

func (m *mockHistory) ActiveProgram(_ context.Context, _ uuid.UUID) (*Program, error) {
	return m.program, m.err("program")
}

func (m *mockHistory) MovementSessions(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]MovementSession, error) {
	return append([]MovementSession(nil), m.movement...), m.err("movement")
}

func (m *mockHistory) PROMIS29(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]PROMIS29, error) {
	return m.promis, m.err("promis")
}

func (m *mockHistory) TSK11(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]TSK11, error) {
	return m.tsk, m.err("tsk")
}

func (m *mockHistory) PSFS(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]PSFS, error) {
	return append([]PSFS(nil), m.psfs...), m.err("psfs")
}

func (m *mockHistory) HealthSamples(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]HealthSample, error) {
	return append([]HealthSample(nil), m.health...), m.err("health")
}

type mockAssessments struct {
	mu        sync.Mutex
	items     map[uuid.UUID]*RiskAssessment
	order     []uuid.UUID
	createErr error
	panel     map[uuid.UUID][]uuid.UUID
	alerts    []AlertSummary
}

func newMockAssessments() *mockAssessments {
	return &mockAssessments{
		items: make(map[uuid.UUID]*RiskAssessment),
		panel: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (m *mockAssessments) Create(_ context.Context, a *RiskAssessment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now()
	m.items[a.ID] = a
	m.order = append(m.order, a.ID)
	return nil
}

func (m *mockAssessments) GetByID(_ context.Context, id uuid.UUID) (*RiskAssessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

func (m *mockAssessments) Latest(_ context.Context, patientID uuid.UUID) (*RiskAssessment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.order) - 1; i >= 0; i-- {
		if a := m.items[m.order[i]]; a.PatientID == patientID {
			return a, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockAssessments) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*RiskAssessment, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var all []*RiskAssessment
	for i := len(m.order) - 1; i >= 0; i-- {
		if a := m.items[m.order[i]]; a.PatientID == patientID {
			all = append(all, a)
		}
	}
	total := len(all)
	if offset >= total {
		return []*RiskAssessment{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (m *mockAssessments) MarkReviewed(_ context.Context, id, reviewerID uuid.UUID, notes *string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.items[id]
	if !ok {
		return ErrNotFound
	}
	if a.ReviewedAt != nil {
		return ErrAlreadyReviewed
	}
	a.ReviewedBy, a.ReviewedAt, a.ReviewNotes = &reviewerID, &at, notes
	return nil
}

func (m *mockAssessments) PanelLatest(ctx context.Context, providerID uuid.UUID) (int, []*RiskAssessment, error) {
	patients := m.panel[providerID]
	var latest []*RiskAssessment
	for _, p := range patients {
		if a, err := m.Latest(ctx, p); err == nil {
			latest = append(latest, a)
		}
	}
	return len(patients), latest, nil
}

func (m *mockAssessments) RecentActiveAlerts(_ context.Context, _ uuid.UUID, limit int) ([]AlertSummary, error) {
	if len(m.alerts) > limit {
		return m.alerts[:limit], nil
	}
	return m.alerts, nil
}

type captureObserver struct {
	current, previous *RiskAssessment
	calls             int
}

func (o *captureObserver) OnAssessment(_ context.Context, current, previous *RiskAssessment) error {
	o.calls++
	o.current, o.previous = current, previous
	return nil
}
