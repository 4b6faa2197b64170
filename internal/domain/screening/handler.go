package screening

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rehab/rehab/internal/platform/auth"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/screenings", auth.RequireRole("patient", "clinician"))
	g.POST("/dvt", h.DVT)
	g.POST("/crps", h.CRPS)
	g.GET("/postoperative-dvt", h.PostoperativeDVT)
	g.GET("/surgery-types", h.ListSurgeryTypes)
}

func (h *Handler) DVT(c echo.Context) error {
	var in DVTInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, ScreenDVT(in))
}

func (h *Handler) CRPS(c echo.Context) error {
	var in CRPSInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, ScreenCRPS(in))
}

func (h *Handler) PostoperativeDVT(c echo.Context) error {
	surgeryType := c.QueryParam("surgery_type")
	if surgeryType == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "surgery_type is required")
	}
	days, err := strconv.Atoi(c.QueryParam("days_since_surgery"))
	if err != nil || days < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "days_since_surgery must be a non-negative integer")
	}
	extra := false
	if v := c.QueryParam("extra_risk_factors"); v != "" {
		extra, err = strconv.ParseBool(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "extra_risk_factors must be a boolean")
		}
	}
	return c.JSON(http.StatusOK, AssessPostoperativeDVTRisk(surgeryType, days, extra))
}

func (h *Handler) ListSurgeryTypes(c echo.Context) error {
	return c.JSON(http.StatusOK, SurgeryTypes())
}
