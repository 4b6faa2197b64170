package risk

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func newTestService() (*Service, *mockAssessments, *mockHistory) {
	store := newMockAssessments()
	h := &mockHistory{}
	engine := NewEngine(h, store, zerolog.Nop())
	return NewService(engine, store, 2), store, h
}

func seed(store *mockAssessments, patientID uuid.UUID, score float64) *RiskAssessment {
	a := &RiskAssessment{PatientID: patientID, OverallScore: score, RiskLevel: LevelForScore(score)}
	_ = store.Create(context.Background(), a)
	return a
}

func TestService_MarkReviewedOnlyOnce(t *testing.T) {
	svc, store, _ := newTestService()
	a := seed(store, uuid.New(), 60)
	reviewer := uuid.New()

	got, err := svc.MarkReviewed(context.Background(), a.ID, reviewer, "  called patient ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ReviewedBy == nil || *got.ReviewedBy != reviewer || got.ReviewedAt == nil {
		t.Errorf("expected review stamp, got %+v", got)
	}
	if got.ReviewNotes == nil || *got.ReviewNotes != "called patient" {
		t.Errorf("expected trimmed notes, got %v", got.ReviewNotes)
	}

	if _, err := svc.MarkReviewed(context.Background(), a.ID, uuid.New(), ""); !errors.Is(err, ErrAlreadyReviewed) {
		t.Errorf("expected ErrAlreadyReviewed, got %v", err)
	}
}

func TestService_MarkReviewedUnknown(t *testing.T) {
	svc, _, _ := newTestService()
	if _, err := svc.MarkReviewed(context.Background(), uuid.New(), uuid.New(), ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.MarkReviewed(context.Background(), uuid.New(), uuid.Nil, ""); err == nil {
		t.Error("expected error for missing reviewer")
	}
}

func TestService_LatestAndList(t *testing.T) {
	svc, store, _ := newTestService()
	patientID := uuid.New()
	seed(store, patientID, 10)
	last := seed(store, patientID, 30)
	seed(store, uuid.New(), 90)

	latest, err := svc.LatestAssessment(context.Background(), patientID)
	if err != nil || latest.ID != last.ID {
		t.Errorf("expected latest %s, got %v (%v)", last.ID, latest, err)
	}

	items, total, err := svc.ListAssessments(context.Background(), patientID, 1, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(items) != 1 || items[0].ID != last.ID {
		t.Errorf("expected newest first with total 2, got %d items total %d", len(items), total)
	}

	if _, err := svc.LatestAssessment(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unassessed patient, got %v", err)
	}
}

func TestService_ProviderDashboard(t *testing.T) {
	svc, store, _ := newTestService()
	provider := uuid.New()
	p1, p2, p3, p4 := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	store.panel[provider] = []uuid.UUID{p1, p2, p3, p4}

	seed(store, p1, 80)
	seed(store, p1, 20) // only the latest counts
	seed(store, p2, 55)
	seed(store, p3, 90)
	store.alerts = []AlertSummary{{ID: uuid.New()}, {ID: uuid.New()}, {ID: uuid.New()}}

	d, err := svc.ProviderDashboard(context.Background(), provider)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.TotalPatients != 4 || d.Unassessed != 1 {
		t.Errorf("expected 4 patients with 1 unassessed, got %d/%d", d.TotalPatients, d.Unassessed)
	}
	want := map[RiskLevel]int{LevelLow: 1, LevelModerate: 0, LevelHigh: 1, LevelCritical: 1}
	for level, n := range want {
		if d.Counts[level] != n {
			t.Errorf("%s: expected %d, got %d", level, n, d.Counts[level])
		}
	}
	if len(d.RecentAlerts) != 2 {
		t.Errorf("expected recent alerts capped at 2, got %d", len(d.RecentAlerts))
	}
	if len(d.HighestRisk) != 3 || d.HighestRisk[0].OverallScore != 90 {
		t.Errorf("expected highest risk first, got %+v", d.HighestRisk)
	}
}

func TestService_Assess(t *testing.T) {
	svc, store, h := newTestService()
	h.pain = painLogs(8, 8, 8, 8)

	a, err := svc.Assess(context.Background(), uuid.New(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := store.GetByID(context.Background(), a.ID); err != nil {
		t.Errorf("expected persisted assessment: %v", err)
	}
}
