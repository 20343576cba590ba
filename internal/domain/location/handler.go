package location

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
	readGroup := api.Group("", auth.RequireAuthenticated())
	readGroup.GET("/states", h.ListStates)
	readGroup.GET("/states/:id", h.GetState)
	readGroup.GET("/districts", h.ListDistricts)
	readGroup.GET("/districts/:id", h.GetDistrict)
	readGroup.GET("/blocks", h.ListBlocks)
	readGroup.GET("/blocks/:id", h.GetBlock)

	writeGroup := api.Group("", auth.RequireRole(auth.RoleSiteAdmin))
	writeGroup.POST("/states", h.CreateState)
	writeGroup.PUT("/states/:id", h.UpdateState)
	writeGroup.DELETE("/states/:id", h.DeleteState)
	writeGroup.POST("/districts", h.CreateDistrict)
	writeGroup.PUT("/districts/:id", h.UpdateDistrict)
	writeGroup.DELETE("/districts/:id", h.DeleteDistrict)
	writeGroup.POST("/blocks", h.CreateBlock)
	writeGroup.PUT("/blocks/:id", h.UpdateBlock)
	writeGroup.DELETE("/blocks/:id", h.DeleteBlock)
}

func idParam(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func optionalUUIDQuery(c echo.Context, name string) (*uuid.UUID, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return &id, nil
}

// -- States --

func (h *Handler) CreateState(c echo.Context) error {
	var st State
	if err := c.Bind(&st); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateState(c.Request().Context(), &st); err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusCreated, st)
}

func (h *Handler) GetState(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	st, err := h.svc.GetState(c.Request().Context(), id)
	if err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *Handler) ListStates(c echo.Context) error {
	p := pagination.FromContext(c)
	rows, total, err := h.svc.ListStates(c.Request().Context(), c.QueryParam("name"), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(rows, total, p.Limit, p.Offset))
}

func (h *Handler) UpdateState(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var st State
	if err := c.Bind(&st); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	st.ID = id
	if err := h.svc.UpdateState(c.Request().Context(), &st); err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *Handler) DeleteState(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteState(c.Request().Context(), id); err != nil {
		return httperr.Map(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Districts --

func (h *Handler) CreateDistrict(c echo.Context) error {
	var d District
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateDistrict(c.Request().Context(), &d); err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) GetDistrict(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	d, err := h.svc.GetDistrict(c.Request().Context(), id)
	if err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) ListDistricts(c echo.Context) error {
	stateID, err := optionalUUIDQuery(c, "state_id")
	if err != nil {
		return err
	}
	p := pagination.FromContext(c)
	rows, total, err := h.svc.ListDistricts(c.Request().Context(), stateID, c.QueryParam("name"), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(rows, total, p.Limit, p.Offset))
}

func (h *Handler) UpdateDistrict(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var d District
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d.ID = id
	if err := h.svc.UpdateDistrict(c.Request().Context(), &d); err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusOK, d)
}

func (h *Handler) DeleteDistrict(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteDistrict(c.Request().Context(), id); err != nil {
		return httperr.Map(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Blocks --

func (h *Handler) CreateBlock(c echo.Context) error {
	var b Block
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateBlock(c.Request().Context(), &b); err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *Handler) GetBlock(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	b, err := h.svc.GetBlock(c.Request().Context(), id)
	if err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) ListBlocks(c echo.Context) error {
	districtID, err := optionalUUIDQuery(c, "district_id")
	if err != nil {
		return err
	}
	p := pagination.FromContext(c)
	rows, total, err := h.svc.ListBlocks(c.Request().Context(), districtID, c.QueryParam("name"), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(rows, total, p.Limit, p.Offset))
}

func (h *Handler) UpdateBlock(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var b Block
	if err := c.Bind(&b); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	b.ID = id
	if err := h.svc.UpdateBlock(c.Request().Context(), &b); err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *Handler) DeleteBlock(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteBlock(c.Request().Context(), id); err != nil {
		return httperr.Map(err)
	}
	return c.NoContent(http.StatusNoContent)
}
