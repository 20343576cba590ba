package referral

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
	g := api.Group("", auth.RequireAuthenticated())

	g.POST("/case-files", h.CreateCaseFile)
	g.GET("/case-files", h.ListCaseFiles)
	g.GET("/case-files/:id", h.GetCaseFile)
	g.PUT("/case-files/:id", h.UpdateCaseFile)
	g.DELETE("/case-files/:id", h.DeleteCaseFile)
	g.POST("/case-files/:id/statuses", h.AppendCaseStatus)
	g.GET("/case-files/:id/statuses", h.ListCaseStatuses)

	g.POST("/referrals", h.CreateReferral)
	g.GET("/referrals", h.ListReferrals)
	g.GET("/referrals/:id", h.GetReferral)
	g.PUT("/referrals/:id", h.UpdateReferral)
	g.DELETE("/referrals/:id", h.DeleteReferral)
	g.PUT("/referrals/:id/attachments/:kind", h.ReplaceAttachments)
	g.GET("/referrals/:id/attachments/:kind", h.ListAttachments)
	g.POST("/referrals/:id/follow-ups", h.CreateFollowUp)
	g.GET("/referrals/:id/follow-ups", h.ListFollowUps)
	g.GET("/follow-ups/:id", h.GetFollowUp)

	g.POST("/files", h.RegisterFile)
	g.GET("/files/:id/record", h.GetFile)
}

func idParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

func attachmentKindParam(c echo.Context) (AttachmentKind, error) {
	kind := c.Param("kind")
	if !ValidAttachmentKind(kind) {
		return "", echo.NewHTTPError(http.StatusNotFound, "unknown attachment kind")
	}
	return AttachmentKind(kind), nil
}

// -- Case files --

func (h *Handler) CreateCaseFile(c echo.Context) error {
	var cf CaseFile
	if err := c.Bind(&cf); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateCaseFile(c.Request().Context(), &cf); err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusCreated, cf)
}

func (h *Handler) GetCaseFile(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	cf, err := h.svc.GetCaseFile(c.Request().Context(), id)
	if err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusOK, cf)
}

func (h *Handler) ListCaseFiles(c echo.Context) error {
	p := pagination.FromContext(c)
	rows, total, err := h.svc.ListCaseFiles(c.Request().Context(), c.QueryParam("search"), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(rows, total, p.Limit, p.Offset))
}

func (h *Handler) UpdateCaseFile(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var cf CaseFile
	if err := c.Bind(&cf); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	cf.ID = id
	if err := h.svc.UpdateCaseFile(c.Request().Context(), &cf); err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusOK, cf)
}

func (h *Handler) DeleteCaseFile(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteCaseFile(c.Request().Context(), id); err != nil {
		return httperr.Map(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Case statuses --

func (h *Handler) AppendCaseStatus(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var cs CaseStatus
	if err := c.Bind(&cs); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	cs.CaseFileID = id
	if err := h.svc.AppendCaseStatus(c.Request().Context(), &cs); err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusCreated, cs)
}

func (h *Handler) ListCaseStatuses(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	rows, err := h.svc.ListCaseStatuses(c.Request().Context(), id)
	if err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusOK, rows)
}

// -- Referrals --

func (h *Handler) CreateReferral(c echo.Context) error {
	var r Referral
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateReferral(c.Request().Context(), &r); err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *Handler) GetReferral(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	r, err := h.svc.GetReferral(c.Request().Context(), id)
	if err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) ListReferrals(c echo.Context) error {
	var filters ReferralFilters
	for param, target := range map[string]**uuid.UUID{
		"source_hospital_id":   &filters.SourceHospitalID,
		"referred_hospital_id": &filters.ReferredHospitalID,
		"referred_by_staff_id": &filters.ReferredByStaffID,
	} {
		raw := c.QueryParam(param)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid "+param)
		}
		*target = &id
	}

	p := pagination.FromContext(c)
	rows, total, err := h.svc.ListReferrals(c.Request().Context(), filters, p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(rows, total, p.Limit, p.Offset))
}

func (h *Handler) UpdateReferral(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var r Referral
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	r.ID = id
	if err := h.svc.UpdateReferral(c.Request().Context(), &r); err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusOK, r)
}

func (h *Handler) DeleteReferral(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteReferral(c.Request().Context(), id); err != nil {
		return httperr.Map(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Attachments --

type attachmentRequest struct {
	FileIDs []uuid.UUID `json:"file_ids"`
}

func (h *Handler) ReplaceAttachments(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	kind, err := attachmentKindParam(c)
	if err != nil {
		return err
	}
	var req attachmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.ReplaceAttachments(c.Request().Context(), id, kind, req.FileIDs); err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusOK, req)
}

func (h *Handler) ListAttachments(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	kind, err := attachmentKindParam(c)
	if err != nil {
		return err
	}
	ids, err := h.svc.ListAttachments(c.Request().Context(), id, kind)
	if err != nil {
		return httperr.Map(err)
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return c.JSON(http.StatusOK, attachmentRequest{FileIDs: ids})
}

// -- Follow-ups --

func (h *Handler) CreateFollowUp(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var f CaseFollowUp
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	f.ReferralID = id
	if err := h.svc.CreateFollowUp(c.Request().Context(), &f); err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusCreated, f)
}

func (h *Handler) ListFollowUps(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	rows, err := h.svc.ListFollowUps(c.Request().Context(), id)
	if err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *Handler) GetFollowUp(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	f, err := h.svc.GetFollowUp(c.Request().Context(), id)
	if err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusOK, f)
}

// -- Files --

func (h *Handler) RegisterFile(c echo.Context) error {
	var f File
	if err := c.Bind(&f); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.RegisterFile(c.Request().Context(), &f); err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusCreated, f)
}

func (h *Handler) GetFile(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	f, err := h.svc.GetFile(c.Request().Context(), id)
	if err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusOK, f)
}
