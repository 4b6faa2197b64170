package risk

import (
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rehab/rehab/internal/platform/auth"
	"github.com/rehab/rehab/pkg/pagination"
)

// notPersistedWarning is sent as a Warning header when an assessment was
// computed but could not be stored.
const notPersistedWarning = `199 - "risk assessment not persisted"`

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := auth.RequireRole(auth.RolePatient, auth.RoleClinician)
	clinician := auth.RequireRole(auth.RoleClinician)

	api.POST("/patients/:patient_id/risk-assessments", h.Assess, clinician)
	api.GET("/patients/:patient_id/risk-assessments", h.ListAssessments, read)
	api.GET("/patients/:patient_id/risk-assessments/latest", h.LatestAssessment, read)
	api.GET("/risk-assessments/:id", h.GetAssessment, read)
	api.POST("/risk-assessments/:id/review", h.Review, clinician)
	api.GET("/providers/:provider_id/risk-dashboard", h.Dashboard, clinician)
}

func parseUUIDParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

func (h *Handler) patientParam(c echo.Context) (uuid.UUID, error) {
	patientID, err := parseUUIDParam(c, "patient_id")
	if err != nil {
		return uuid.Nil, err
	}
	if !auth.CanAccessPatient(c.Request().Context(), patientID) {
		return uuid.Nil, echo.NewHTTPError(http.StatusForbidden, "access to patient denied")
	}
	return patientID, nil
}

type assessRequest struct {
	Weights *RiskWeights `json:"weights,omitempty"`
}

// Assess runs a new assessment. The body is optional; an empty body uses
// the configured weights.
func (h *Handler) Assess(c echo.Context) error {
	patientID, err := h.patientParam(c)
	if err != nil {
		return err
	}
	var req assessRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil && !errors.Is(err, io.EOF) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	a, err := h.svc.Assess(c.Request().Context(), patientID, req.Weights)
	switch {
	case errors.Is(err, ErrInvalidWeights):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrAssessmentNotPersisted):
		c.Response().Header().Set("Warning", notPersistedWarning)
		return c.JSON(http.StatusOK, a)
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) ListAssessments(c echo.Context) error {
	patientID, err := h.patientParam(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListAssessments(c.Request().Context(), patientID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) LatestAssessment(c echo.Context) error {
	patientID, err := h.patientParam(c)
	if err != nil {
		return err
	}
	a, err := h.svc.LatestAssessment(c.Request().Context(), patientID)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) GetAssessment(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	a, err := h.svc.GetAssessment(c.Request().Context(), id)
	if err != nil {
		return storeError(err)
	}
	if !auth.CanAccessPatient(c.Request().Context(), a.PatientID) {
		return echo.NewHTTPError(http.StatusNotFound, "risk assessment not found")
	}
	return c.JSON(http.StatusOK, a)
}

type reviewRequest struct {
	Notes string `json:"notes"`
}

func (h *Handler) Review(c echo.Context) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var req reviewRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	reviewer := auth.ActorID(c.Request().Context())
	if reviewer == uuid.Nil {
		return echo.NewHTTPError(http.StatusForbidden, "reviewer identity must be a UUID")
	}
	a, err := h.svc.MarkReviewed(c.Request().Context(), id, reviewer, req.Notes)
	if err != nil {
		return storeError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Dashboard(c echo.Context) error {
	providerID, err := parseUUIDParam(c, "provider_id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if !auth.HasRole(auth.RolesFromContext(ctx), auth.RoleAdmin) && auth.ActorID(ctx) != providerID {
		return echo.NewHTTPError(http.StatusForbidden, "dashboard belongs to another provider")
	}
	d, err := h.svc.ProviderDashboard(ctx, providerID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, d)
}

func storeError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrAlreadyReviewed):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
