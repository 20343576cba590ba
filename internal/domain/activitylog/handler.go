package activitylog

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/reftrack/reftrack/internal/platform/auth"
	"github.com/reftrack/reftrack/internal/platform/httperr"
	"github.com/reftrack/reftrack/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole(auth.RoleSiteAdmin))
	g.POST("/activity-logs", h.CreateEntry)
	g.GET("/activity-logs", h.ListEntries)
}

func (h *Handler) CreateEntry(c echo.Context) error {
	var e Entry
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateEntry(c.Request().Context(), &e); err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *Handler) ListEntries(c echo.Context) error {
	f := Filters{
		LogLevel:    c.QueryParam("log_level"),
		LogActivity: c.QueryParam("log_activity"),
	}
	p := pagination.FromContext(c)
	rows, total, err := h.svc.ListEntries(c.Request().Context(), f, p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(rows, total, p.Limit, p.Offset))
}
