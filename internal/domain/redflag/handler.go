package redflag

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rehab/rehab/internal/platform/auth"
)

// ReportObserver is notified of scans that belong to a known patient.
type ReportObserver interface {
	OnRedFlagReport(ctx context.Context, patientID uuid.UUID, r *Report) error
}

type Handler struct {
	checker  Checker
	observer ReportObserver
	logger   zerolog.Logger
}

func NewHandler(checker Checker, observer ReportObserver, logger zerolog.Logger) *Handler {
	return &Handler{checker: checker, observer: observer, logger: logger}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/red-flags", auth.RequireRole("patient", "clinician"))
	g.POST("/check", h.Check)
	g.POST("/should-stop", h.ShouldStop)
	g.GET("/taxonomy", h.Taxonomy)
}

type checkRequest struct {
	Symptoms    []string   `json:"symptoms"`
	SurgeryType string     `json:"surgery_type"`
	PatientID   *uuid.UUID `json:"patient_id,omitempty"`
}

func (h *Handler) Check(c echo.Context) error {
	var req checkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	r := h.checker.CheckRedFlags(c.Request().Context(), req.Symptoms, req.SurgeryType)
	h.notify(c.Request().Context(), req.PatientID, r)
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) ShouldStop(c echo.Context) error {
	var req checkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d := ShouldStopExercise(c.Request().Context(), h.checker, req.Symptoms, req.SurgeryType)
	h.notify(c.Request().Context(), req.PatientID, d.Report)
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) Taxonomy(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]TaxonomyEntry{
		"critical": CriticalTaxonomy,
		"warning":  WarningTaxonomy,
	})
}

// notify never fails the request: the patient already has the report.
func (h *Handler) notify(ctx context.Context, patientID *uuid.UUID, r *Report) {
	if h.observer == nil || patientID == nil || *patientID == uuid.Nil || !r.HasRedFlags {
		return
	}
	if err := h.observer.OnRedFlagReport(ctx, *patientID, r); err != nil {
		h.logger.Error().Err(err).Str("patient_id", patientID.String()).Msg("failed to record red flag alert")
	}
}
