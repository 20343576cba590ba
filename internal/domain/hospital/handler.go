package hospital

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
	readGroup.GET("/hospitals", h.ListHospitals)
	readGroup.GET("/hospitals/:id", h.GetHospital)
	readGroup.GET("/hospitals/:id/medical-service-units", h.ListHospitalMSUs)
	readGroup.GET("/hospitals/:id/medical-service-units/:msu_id", h.GetMSULink)
	readGroup.GET("/hospitals/:id/incharges", h.ListIncharges)
	readGroup.GET("/medical-service-units", h.ListMSUs)
	readGroup.GET("/medical-service-units/:id", h.GetMSU)

	writeGroup := api.Group("", auth.RequireRole(auth.RoleSiteAdmin, auth.RoleHospitalAdmin))
	writeGroup.POST("/hospitals", h.CreateHospital)
	writeGroup.PUT("/hospitals/:id", h.UpdateHospital)
	writeGroup.PATCH("/hospitals/:id", h.PatchHospital)
	writeGroup.DELETE("/hospitals/:id", h.DeleteHospital)
	writeGroup.PUT("/hospitals/:id/medical-service-units/:msu_id", h.UpdateMSULink)
	writeGroup.POST("/hospitals/:id/incharges", h.AddIncharge)
	writeGroup.DELETE("/hospitals/:id/incharges/:incharge_id", h.RemoveIncharge)
	writeGroup.POST("/medical-service-units", h.CreateMSU)
	writeGroup.PUT("/medical-service-units/:id", h.UpdateMSU)
	writeGroup.DELETE("/medical-service-units/:id", h.DeleteMSU)
}

// hospitalRequest is the write payload: hospital fields plus the full MSU
// association list.
type hospitalRequest struct {
	Hospital
	MedicalServiceUnit []uuid.UUID `json:"medical_service_unit"`
}

type hospitalResponse struct {
	*Hospital
	MedicalServiceUnit []uuid.UUID `json:"medical_service_unit"`
}

func idParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
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

func (h *Handler) respond(c echo.Context, status int, hospital *Hospital) error {
	links, err := h.svc.ListHospitalMSUs(c.Request().Context(), hospital.ID)
	if err != nil {
		return httperr.Map(err)
	}
	ids := make([]uuid.UUID, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.MSUID)
	}
	return c.JSON(status, hospitalResponse{Hospital: hospital, MedicalServiceUnit: ids})
}

func (h *Handler) CreateHospital(c echo.Context) error {
	var req hospitalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateHospital(c.Request().Context(), &req.Hospital, req.MedicalServiceUnit); err != nil {
		return httperr.Map(err)
	}
	return h.respond(c, http.StatusCreated, &req.Hospital)
}

func (h *Handler) GetHospital(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	hospital, err := h.svc.GetHospital(c.Request().Context(), id)
	if err != nil {
		return httperr.Map(err)
	}
	return h.respond(c, http.StatusOK, hospital)
}

func (h *Handler) ListHospitals(c echo.Context) error {
	stateID, err := optionalUUIDQuery(c, "state_id")
	if err != nil {
		return err
	}
	districtID, err := optionalUUIDQuery(c, "district_id")
	if err != nil {
		return err
	}
	blockID, err := optionalUUIDQuery(c, "block_id")
	if err != nil {
		return err
	}
	filters := ListFilters{
		Status:        c.QueryParam("status"),
		Setting:       c.QueryParam("setting"),
		Ownership:     c.QueryParam("ownership"),
		StateID:       stateID,
		DistrictID:    districtID,
		BlockID:       blockID,
		CityOrVillage: c.QueryParam("city_or_village"),
		Name:          c.QueryParam("name"),
	}

	p := pagination.FromContext(c)
	rows, total, err := h.svc.ListHospitals(c.Request().Context(), filters, p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(rows, total, p.Limit, p.Offset))
}

func (h *Handler) UpdateHospital(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req hospitalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.Hospital.ID = id
	if err := h.svc.UpdateHospital(c.Request().Context(), &req.Hospital, req.MedicalServiceUnit); err != nil {
		return httperr.Map(err)
	}
	return h.respond(c, http.StatusOK, &req.Hospital)
}

func (h *Handler) PatchHospital(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var patch HospitalPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	hospital, err := h.svc.PatchHospital(c.Request().Context(), id, &patch)
	if err != nil {
		return httperr.Map(err)
	}
	return h.respond(c, http.StatusOK, hospital)
}

func (h *Handler) DeleteHospital(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteHospital(c.Request().Context(), id); err != nil {
		return httperr.Map(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListHospitalMSUs(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	links, err := h.svc.ListHospitalMSUs(c.Request().Context(), id)
	if err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusOK, links)
}

func (h *Handler) GetMSULink(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	msuID, err := idParam(c, "msu_id")
	if err != nil {
		return err
	}
	link, err := h.svc.GetMSULink(c.Request().Context(), id, msuID)
	if err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusOK, link)
}

func (h *Handler) UpdateMSULink(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	msuID, err := idParam(c, "msu_id")
	if err != nil {
		return err
	}
	var link HospitalMedicalServiceUnit
	if err := c.Bind(&link); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	link.HospitalID = id
	link.MSUID = msuID
	if err := h.svc.UpdateMSULink(c.Request().Context(), &link); err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusOK, link)
}

func (h *Handler) AddIncharge(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var hi HospitalIncharge
	if err := c.Bind(&hi); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	hi.HospitalID = id
	if err := h.svc.AddIncharge(c.Request().Context(), &hi); err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusCreated, hi)
}

func (h *Handler) ListIncharges(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	rows, err := h.svc.ListIncharges(c.Request().Context(), id)
	if err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *Handler) RemoveIncharge(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	inchargeID, err := idParam(c, "incharge_id")
	if err != nil {
		return err
	}
	if err := h.svc.RemoveIncharge(c.Request().Context(), id, inchargeID); err != nil {
		return httperr.Map(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Medical service units --

func (h *Handler) CreateMSU(c echo.Context) error {
	var m MedicalServiceUnit
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateMSU(c.Request().Context(), &m); err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) GetMSU(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	m, err := h.svc.GetMSU(c.Request().Context(), id)
	if err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) ListMSUs(c echo.Context) error {
	p := pagination.FromContext(c)
	rows, total, err := h.svc.ListMSUs(c.Request().Context(), c.QueryParam("name"), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(rows, total, p.Limit, p.Offset))
}

func (h *Handler) UpdateMSU(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var m MedicalServiceUnit
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m.ID = id
	if err := h.svc.UpdateMSU(c.Request().Context(), &m); err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) DeleteMSU(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteMSU(c.Request().Context(), id); err != nil {
		return httperr.Map(err)
	}
	return c.NoContent(http.StatusNoContent)
}
