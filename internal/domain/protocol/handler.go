package protocol

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
	readGroup := api.Group("/protocols", auth.RequireRole(auth.RoleClinician))
	readGroup.GET("", h.ListProtocols)
	readGroup.GET("/:id", h.GetProtocol)
	readGroup.GET("/by-surgery/:surgery_type", h.GetBySurgeryType)

	writeGroup := api.Group("/protocols", auth.RequireRole(auth.RoleAdmin))
	writeGroup.POST("", h.CreateProtocol)
	writeGroup.PUT("/:id", h.UpdateProtocol)
	writeGroup.DELETE("/:id", h.DeleteProtocol)
}

func (h *Handler) CreateProtocol(c echo.Context) error {
	var p SurgeryProtocol
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateProtocol(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetProtocol(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.GetProtocol(c.Request().Context(), id)
	if err != nil {
		return notFoundOr500(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) GetBySurgeryType(c echo.Context) error {
	p, err := h.svc.GetSurgeryProtocol(c.Request().Context(), c.Param("surgery_type"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if p == nil {
		return echo.NewHTTPError(http.StatusNotFound, "surgery protocol not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListProtocols(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.ListProtocols(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg))
}

func (h *Handler) UpdateProtocol(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var p SurgeryProtocol
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = id
	if err := h.svc.UpdateProtocol(c.Request().Context(), &p); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeleteProtocol(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteProtocol(c.Request().Context(), id); err != nil {
		return notFoundOr500(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func notFoundOr500(err error) error {
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
