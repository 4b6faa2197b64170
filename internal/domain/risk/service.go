package risk

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultRecentAlerts is how many active alerts the dashboard shows.
const DefaultRecentAlerts = 10

// highestRiskShown caps the dashboard's highest-risk list.
const highestRiskShown = 10

type Service struct {
	engine       *Engine
	store        AssessmentStore
	recentAlerts int
	now          func() time.Time
}

func NewService(engine *Engine, store AssessmentStore, recentAlerts int) *Service {
	if recentAlerts <= 0 {
		recentAlerts = DefaultRecentAlerts
	}
	return &Service{engine: engine, store: store, recentAlerts: recentAlerts, now: time.Now}
}

func (s *Service) Assess(ctx context.Context, patientID uuid.UUID, weights *RiskWeights) (*RiskAssessment, error) {
	return s.engine.CalculateRiskAssessment(ctx, patientID, weights)
}

func (s *Service) GetAssessment(ctx context.Context, id uuid.UUID) (*RiskAssessment, error) {
	return s.store.GetByID(ctx, id)
}

func (s *Service) LatestAssessment(ctx context.Context, patientID uuid.UUID) (*RiskAssessment, error) {
	return s.store.Latest(ctx, patientID)
}

func (s *Service) ListAssessments(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*RiskAssessment, int, error) {
	return s.store.ListByPatient(ctx, patientID, limit, offset)
}

// MarkReviewed stamps the reviewer on an assessment. It is the only change
// an assessment ever receives and can happen once.
func (s *Service) MarkReviewed(ctx context.Context, id, reviewerID uuid.UUID, notes string) (*RiskAssessment, error) {
	if reviewerID == uuid.Nil {
		return nil, fmt.Errorf("reviewer is required")
	}
	var n *string
	if notes = strings.TrimSpace(notes); notes != "" {
		n = &notes
	}
	if err := s.store.MarkReviewed(ctx, id, reviewerID, n, s.now().UTC()); err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, id)
}

// ProviderDashboard counts the latest assessment of every patient on the
// provider's panel by level and lists recent active alerts. Nothing is
// recomputed.
func (s *Service) ProviderDashboard(ctx context.Context, providerID uuid.UUID) (*ProviderDashboard, error) {
	total, latest, err := s.store.PanelLatest(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("panel assessments: %w", err)
	}
	alerts, err := s.store.RecentActiveAlerts(ctx, providerID, s.recentAlerts)
	if err != nil {
		return nil, fmt.Errorf("recent alerts: %w", err)
	}
	if alerts == nil {
		alerts = []AlertSummary{}
	}

	d := &ProviderDashboard{
		ProviderID:    providerID,
		TotalPatients: total,
		Unassessed:    total - len(latest),
		Counts: map[RiskLevel]int{
			LevelLow: 0, LevelModerate: 0, LevelHigh: 0, LevelCritical: 0,
		},
		RecentAlerts: alerts,
		GeneratedAt:  s.now().UTC(),
	}
	if d.Unassessed < 0 {
		d.Unassessed = 0
	}
	for _, a := range latest {
		d.Counts[a.RiskLevel]++
	}

	ranked := append([]*RiskAssessment(nil), latest...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].OverallScore > ranked[j].OverallScore })
	if len(ranked) > highestRiskShown {
		ranked = ranked[:highestRiskShown]
	}
	d.HighestRisk = ranked
	return d, nil
}
