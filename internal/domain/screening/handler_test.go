package screening

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestHandler_DVT(t *testing.T) {
	e := echo.New()
	h := NewHandler()
	body := `{"symptoms":{"calf_swelling":true,"unilateral_swelling":true}}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.DVT(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var res DVTScreeningResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.WellsScore != 3 || res.RiskLevel != RiskHigh || !res.RequiresUrgentAssessment {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestHandler_CRPS(t *testing.T) {
	e := echo.New()
	h := NewHandler()
	body := `{"sensory":{"allodynia":true},"vasomotor":{"skin_color_change":true},"sudomotor":{"edema":true}}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := h.CRPS(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var res CRPSScreeningResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !res.MeetsScreeningCriteria || res.Likelihood != CRPSPossible {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestHandler_PostoperativeDVT(t *testing.T) {
	e := echo.New()
	h := NewHandler()
	req := httptest.NewRequest(http.MethodGet, "/?surgery_type=total_knee_arthroplasty&days_since_surgery=5&extra_risk_factors=true", nil)
	rec := httptest.NewRecorder()

	if err := h.PostoperativeDVT(e.NewContext(req, rec)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var res PostoperativeRisk
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.CurrentRisk != RiskVeryHigh || !res.KnownSurgeryType {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestHandler_PostoperativeDVT_BadInput(t *testing.T) {
	e := echo.New()
	h := NewHandler()
	for _, q := range []string{
		"/?days_since_surgery=5",
		"/?surgery_type=hip_fracture",
		"/?surgery_type=hip_fracture&days_since_surgery=-1",
		"/?surgery_type=hip_fracture&days_since_surgery=2&extra_risk_factors=maybe",
	} {
		req := httptest.NewRequest(http.MethodGet, q, nil)
		rec := httptest.NewRecorder()
		err := h.PostoperativeDVT(e.NewContext(req, rec))
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %v", q, err)
		}
	}
}
