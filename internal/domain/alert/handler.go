package alert

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rehab/rehab/internal/platform/auth"
	"github.com/rehab/rehab/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	clinician := auth.RequireRole(auth.RoleClinician)

	api.GET("/patients/:patient_id/alerts", h.ListPatientAlerts, auth.RequireRole(auth.RolePatient, auth.RoleClinician))

	g := api.Group("/alerts", clinician)
	g.GET("", h.ListAlerts)
	g.GET("/:id", h.GetAlert)
	g.POST("/:id/acknowledge", h.Acknowledge)
	g.POST("/:id/resolve", h.Resolve)
	g.POST("/:id/dismiss", h.Dismiss)
}

func statusParam(c echo.Context) (Status, error) {
	raw := c.QueryParam("status")
	if raw == "" {
		return "", nil
	}
	st, err := ParseStatus(raw)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return st, nil
}

func (h *Handler) ListAlerts(c echo.Context) error {
	status, err := statusParam(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListAlerts(c.Request().Context(), status, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) ListPatientAlerts(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("patient_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
	}
	if !auth.CanAccessPatient(c.Request().Context(), patientID) {
		return echo.NewHTTPError(http.StatusForbidden, "access to patient denied")
	}
	status, err := statusParam(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListPatientAlerts(c.Request().Context(), patientID, status, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) GetAlert(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.GetAlert(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, a)
}

type transitionRequest struct {
	Notes string `json:"notes"`
}

func (h *Handler) Acknowledge(c echo.Context) error {
	return h.doTransition(c, func(c echo.Context, id, actor uuid.UUID, notes string) (*RiskAlert, error) {
		return h.svc.Acknowledge(c.Request().Context(), id, actor, notes)
	})
}

func (h *Handler) Resolve(c echo.Context) error {
	return h.doTransition(c, func(c echo.Context, id, actor uuid.UUID, notes string) (*RiskAlert, error) {
		return h.svc.Resolve(c.Request().Context(), id, actor, notes)
	})
}

func (h *Handler) Dismiss(c echo.Context) error {
	return h.doTransition(c, func(c echo.Context, id, actor uuid.UUID, notes string) (*RiskAlert, error) {
		return h.svc.Dismiss(c.Request().Context(), id, actor, notes)
	})
}

type applyFunc func(c echo.Context, id, actor uuid.UUID, notes string) (*RiskAlert, error)

func (h *Handler) doTransition(c echo.Context, apply applyFunc) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req transitionRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	actor := auth.ActorID(c.Request().Context())
	if actor == uuid.Nil {
		return echo.NewHTTPError(http.StatusForbidden, "actor identity must be a UUID")
	}
	a, err := apply(c, id, actor, req.Notes)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidTransition):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
