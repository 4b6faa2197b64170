package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rehab/rehab/internal/config"
	"github.com/rehab/rehab/internal/platform/events"
)

func testConfig(env string) *config.Config {
	return &config.Config{
		Env:             env,
		RedFlagCacheTTL: 0,
		AlertRecent:     10,
		RiskLocale:      "en",
		WeightPain:      0.25,
		WeightAdherence: 0.15,
	}
}

func TestNewPublisher_NoBrokers(t *testing.T) {
	if _, ok := newPublisher(testConfig("development")).(events.Nop); !ok {
		t.Error("expected no-op publisher without brokers")
	}
}

func TestNewPublisher_Kafka(t *testing.T) {
	cfg := testConfig("production")
	cfg.KafkaBrokers = []string{"localhost:9092"}
	cfg.KafkaAlertTopic = "rehab.risk-alerts"

	p := newPublisher(cfg)
	defer p.Close()
	if _, ok := p.(*events.KafkaPublisher); !ok {
		t.Errorf("expected kafka publisher, got %T", p)
	}
}

func TestRateLimitConfig(t *testing.T) {
	cfg := testConfig("development")
	cfg.RateLimitRPS = 5
	cfg.RateLimitBurst = 7
	if rl := rateLimitConfig(cfg); rl.RequestsPerSecond != 5 || rl.BurstSize != 7 {
		t.Errorf("expected configured limits, got %+v", rl)
	}

	cfg.RateLimitRPS = 0
	if rl := rateLimitConfig(cfg); rl.RequestsPerSecond != 50 || rl.BurstSize != 100 {
		t.Errorf("expected defaults for zero rps, got %+v", rl)
	}
}

func TestMigrationSource_Embedded(t *testing.T) {
	if _, err := migrationSource("").Open("001_risk_engine.sql"); err != nil {
		t.Fatalf("expected embedded migration: %v", err)
	}
}

func TestNewRouter_Routes(t *testing.T) {
	e := newRouter(testConfig("development"), deps{publisher: events.Nop{}}, zerolog.Nop())

	registered := make(map[string]bool)
	for _, r := range e.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	want := []string{
		"GET /health",
		"POST /api/v1/red-flags/check",
		"POST /api/v1/red-flags/should-stop",
		"GET /api/v1/red-flags/taxonomy",
		"POST /api/v1/screenings/dvt",
		"POST /api/v1/screenings/crps",
		"GET /api/v1/screenings/postoperative-dvt",
		"GET /api/v1/protocols",
		"GET /api/v1/protocols/by-surgery/:surgery_type",
		"POST /api/v1/patients/:patient_id/risk-assessments",
		"GET /api/v1/patients/:patient_id/risk-assessments/latest",
		"GET /api/v1/risk-assessments/:id",
		"POST /api/v1/risk-assessments/:id/review",
		"GET /api/v1/providers/:provider_id/risk-dashboard",
		"GET /api/v1/patients/:patient_id/alerts",
		"GET /api/v1/alerts",
		"POST /api/v1/alerts/:id/acknowledge",
		"POST /api/v1/alerts/:id/resolve",
		"POST /api/v1/alerts/:id/dismiss",
	}
	for _, route := range want {
		if !registered[route] {
			t.Errorf("expected route %s", route)
		}
	}
}

func TestNewRouter_DevTaxonomy(t *testing.T) {
	e := newRouter(testConfig("development"), deps{publisher: events.Nop{}}, zerolog.Nop())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/red-flags/taxonomy", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers on API responses")
	}
}

func TestNewRouter_RequiresTokenOutsideDev(t *testing.T) {
	cfg := testConfig("production")
	cfg.AuthSigningKey = "0123456789abcdef0123456789abcdef"
	e := newRouter(cfg, deps{publisher: events.Nop{}}, zerolog.Nop())

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/alerts", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}
