package masterdata

import (
	"net/http"

	"github.com/google/uuid"
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
	// Read endpoints – any authenticated staff
	readGroup := api.Group("", auth.RequireAuthenticated())
	readGroup.GET("/master/:kind", h.ListLookups)
	readGroup.GET("/master/:kind/:id", h.GetLookup)
	readGroup.GET("/medical-conditions", h.ListMedicalConditions)
	readGroup.GET("/medical-conditions/:id", h.GetMedicalCondition)

	// Write endpoints – site admin only
	writeGroup := api.Group("", auth.RequireRole(auth.RoleSiteAdmin))
	writeGroup.POST("/master/:kind", h.CreateLookup)
	writeGroup.PUT("/master/:kind/:id", h.UpdateLookup)
	writeGroup.DELETE("/master/:kind/:id", h.DeleteLookup)
	writeGroup.POST("/medical-conditions", h.CreateMedicalCondition)
	writeGroup.PUT("/medical-conditions/:id", h.UpdateMedicalCondition)
	writeGroup.DELETE("/medical-conditions/:id", h.DeleteMedicalCondition)
}

func kindParam(c echo.Context) (LookupKind, error) {
	kind := c.Param("kind")
	if !ValidKind(kind) {
		return "", echo.NewHTTPError(http.StatusNotFound, "unknown master data type")
	}
	return LookupKind(kind), nil
}

func (h *Handler) CreateLookup(c echo.Context) error {
	kind, err := kindParam(c)
	if err != nil {
		return err
	}
	var row Lookup
	if err := c.Bind(&row); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateLookup(c.Request().Context(), kind, &row); err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusCreated, row)
}

func (h *Handler) GetLookup(c echo.Context) error {
	kind, err := kindParam(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	row, err := h.svc.GetLookup(c.Request().Context(), kind, id)
	if err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusOK, row)
}

func (h *Handler) ListLookups(c echo.Context) error {
	kind, err := kindParam(c)
	if err != nil {
		return err
	}
	p := pagination.FromContext(c)
	rows, total, err := h.svc.ListLookups(c.Request().Context(), kind, c.QueryParam("name"), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(rows, total, p.Limit, p.Offset))
}

func (h *Handler) UpdateLookup(c echo.Context) error {
	kind, err := kindParam(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var row Lookup
	if err := c.Bind(&row); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	row.ID = id
	if err := h.svc.UpdateLookup(c.Request().Context(), kind, &row); err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusOK, row)
}

func (h *Handler) DeleteLookup(c echo.Context) error {
	kind, err := kindParam(c)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteLookup(c.Request().Context(), kind, id); err != nil {
		return httperr.Map(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) CreateMedicalCondition(c echo.Context) error {
	var mc MedicalCondition
	if err := c.Bind(&mc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateMedicalCondition(c.Request().Context(), &mc); err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusCreated, mc)
}

func (h *Handler) GetMedicalCondition(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	mc, err := h.svc.GetMedicalCondition(c.Request().Context(), id)
	if err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusOK, mc)
}

func (h *Handler) ListMedicalConditions(c echo.Context) error {
	p := pagination.FromContext(c)
	rows, total, err := h.svc.ListMedicalConditions(c.Request().Context(), c.QueryParam("search"), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(rows, total, p.Limit, p.Offset))
}

func (h *Handler) UpdateMedicalCondition(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var mc MedicalCondition
	if err := c.Bind(&mc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	mc.ID = id
	if err := h.svc.UpdateMedicalCondition(c.Request().Context(), &mc); err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusOK, mc)
}

func (h *Handler) DeleteMedicalCondition(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteMedicalCondition(c.Request().Context(), id); err != nil {
		return httperr.Map(err)
	}
	return c.NoContent(http.StatusNoContent)
}
