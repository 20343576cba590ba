package staff

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/reftrack/reftrack/internal/platform/auth"
	"github.com/reftrack/reftrack/internal/platform/httperr"
	"github.com/reftrack/reftrack/pkg/pagination"
)

type Handler struct {
	svc        *Service
	issuer     *auth.TokenIssuer
	cookieName string
}

func NewHandler(svc *Service, issuer *auth.TokenIssuer, cookieName string) *Handler {
	return &Handler{svc: svc, issuer: issuer, cookieName: cookieName}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	// Login is the one route reachable without a token. auth.Public registers
	// the full route path with the middleware skipper.
	auth.Public("/api/v1/auth/login")
	api.POST("/auth/login", h.Login)

	readGroup := api.Group("", auth.RequireAuthenticated())
	readGroup.GET("/staff-users", h.ListStaffUsers)
	readGroup.GET("/staff-users/:id", h.GetStaffUser)
	readGroup.GET("/staff-users/:id/expertise", h.ListExpertise)
	readGroup.GET("/staff-users/:id/incharge-roles", h.ListInchargeRoles)
	readGroup.GET("/staff-users/:id/saved-hospitals", h.ListSavedHospitals)
	readGroup.GET("/staff-users/:id/saved-experts", h.ListSavedExperts)
	readGroup.GET("/staff-users/:id/education", h.ListEducation)

	// Staff users manage their own association sets; admins manage accounts.
	selfGroup := api.Group("", auth.RequireAuthenticated())
	selfGroup.POST("/staff-users/:id/expertise", h.AddExpertise)
	selfGroup.DELETE("/staff-users/:id/expertise/:other_id", h.RemoveExpertise)
	selfGroup.POST("/staff-users/:id/incharge-roles", h.AddInchargeRole)
	selfGroup.DELETE("/staff-users/:id/incharge-roles/:other_id", h.RemoveInchargeRole)
	selfGroup.POST("/staff-users/:id/saved-hospitals", h.AddSavedHospital)
	selfGroup.DELETE("/staff-users/:id/saved-hospitals/:other_id", h.RemoveSavedHospital)
	selfGroup.POST("/staff-users/:id/saved-experts", h.AddSavedExpert)
	selfGroup.DELETE("/staff-users/:id/saved-experts/:other_id", h.RemoveSavedExpert)
	selfGroup.POST("/staff-users/:id/education", h.AddEducation)
	selfGroup.DELETE("/staff-users/:id/education/:other_id", h.RemoveEducation)

	adminGroup := api.Group("", auth.RequireRole(auth.RoleSiteAdmin, auth.RoleHospitalAdmin))
	adminGroup.POST("/staff-users", h.CreateStaffUser)
	adminGroup.PUT("/staff-users/:id", h.UpdateStaffUser)
	adminGroup.DELETE("/staff-users/:id", h.DeleteStaffUser)
}

// staffRequest is the write payload; the plaintext password rides alongside
// the stored fields and never appears in responses.
type staffRequest struct {
	StaffUser
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string     `json:"access_token"`
	TokenType   string     `json:"token_type"`
	ExpiresAt   time.Time  `json:"expires_at"`
	User        *StaffUser `json:"user"`
}

func idParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	u, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	token, expiresAt, err := h.issuer.Issue(u.ID, u.Role)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not issue token")
	}
	auth.SetAuthCookie(c, h.cookieName, token, int(h.issuer.TTL().Seconds()))

	return c.JSON(http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        u,
	})
}

func (h *Handler) CreateStaffUser(c echo.Context) error {
	var req staffRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.CreateStaffUser(c.Request().Context(), &req.StaffUser, req.Password); err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusCreated, req.StaffUser)
}

func (h *Handler) GetStaffUser(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	u, err := h.svc.GetStaffUser(c.Request().Context(), id)
	if err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) ListStaffUsers(c echo.Context) error {
	var hospitalID, msuID *uuid.UUID
	if raw := c.QueryParam("place_of_posting_hospital_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid place_of_posting_hospital_id")
		}
		hospitalID = &id
	}
	if raw := c.QueryParam("medical_service_unit_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid medical_service_unit_id")
		}
		msuID = &id
	}
	filters := ListFilters{
		Role:                     c.QueryParam("role"),
		WorkStatus:               c.QueryParam("work_status"),
		PlaceOfPostingHospitalID: hospitalID,
		MedicalServiceUnitID:     msuID,
		Search:                   c.QueryParam("search"),
	}

	p := pagination.FromContext(c)
	rows, total, err := h.svc.ListStaffUsers(c.Request().Context(), filters, p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(rows, total, p.Limit, p.Offset))
}

func (h *Handler) UpdateStaffUser(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req staffRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	req.StaffUser.ID = id
	if err := h.svc.UpdateStaffUser(c.Request().Context(), &req.StaffUser, req.Password); err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusOK, req.StaffUser)
}

func (h *Handler) DeleteStaffUser(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.svc.DeleteStaffUser(c.Request().Context(), id); err != nil {
		return httperr.Map(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// -- Association sets --
//
// Add endpoints take {"id": "<uuid>"} naming the other side of the pair.

type assocRequest struct {
	ID uuid.UUID `json:"id"`
}

func (h *Handler) assocAdd(c echo.Context, add func(ctx echo.Context, staffID, otherID uuid.UUID) error) error {
	staffID, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var req assocRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.ID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is required")
	}
	if err := add(c, staffID, req.ID); err != nil {
		return httperr.Map(err)
	}
	return c.NoContent(http.StatusCreated)
}

func (h *Handler) assocRemove(c echo.Context, remove func(ctx echo.Context, staffID, otherID uuid.UUID) error) error {
	staffID, err := idParam(c, "id")
	if err != nil {
		return err
	}
	otherID, err := idParam(c, "other_id")
	if err != nil {
		return err
	}
	if err := remove(c, staffID, otherID); err != nil {
		return httperr.Map(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) assocList(c echo.Context, list func(ctx echo.Context, staffID uuid.UUID) ([]uuid.UUID, error)) error {
	staffID, err := idParam(c, "id")
	if err != nil {
		return err
	}
	ids, err := list(c, staffID)
	if err != nil {
		return httperr.Map(err)
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return c.JSON(http.StatusOK, ids)
}

func (h *Handler) AddExpertise(c echo.Context) error {
	return h.assocAdd(c, func(c echo.Context, staffID, otherID uuid.UUID) error {
		return h.svc.AddExpertise(c.Request().Context(), staffID, otherID)
	})
}

func (h *Handler) ListExpertise(c echo.Context) error {
	return h.assocList(c, func(c echo.Context, staffID uuid.UUID) ([]uuid.UUID, error) {
		return h.svc.ListExpertise(c.Request().Context(), staffID)
	})
}

func (h *Handler) RemoveExpertise(c echo.Context) error {
	return h.assocRemove(c, func(c echo.Context, staffID, otherID uuid.UUID) error {
		return h.svc.RemoveExpertise(c.Request().Context(), staffID, otherID)
	})
}

func (h *Handler) AddInchargeRole(c echo.Context) error {
	return h.assocAdd(c, func(c echo.Context, staffID, otherID uuid.UUID) error {
		return h.svc.AddInchargeRole(c.Request().Context(), staffID, otherID)
	})
}

func (h *Handler) ListInchargeRoles(c echo.Context) error {
	return h.assocList(c, func(c echo.Context, staffID uuid.UUID) ([]uuid.UUID, error) {
		return h.svc.ListInchargeRoles(c.Request().Context(), staffID)
	})
}

func (h *Handler) RemoveInchargeRole(c echo.Context) error {
	return h.assocRemove(c, func(c echo.Context, staffID, otherID uuid.UUID) error {
		return h.svc.RemoveInchargeRole(c.Request().Context(), staffID, otherID)
	})
}

func (h *Handler) AddSavedHospital(c echo.Context) error {
	return h.assocAdd(c, func(c echo.Context, staffID, otherID uuid.UUID) error {
		return h.svc.AddSavedHospital(c.Request().Context(), staffID, otherID)
	})
}

func (h *Handler) ListSavedHospitals(c echo.Context) error {
	return h.assocList(c, func(c echo.Context, staffID uuid.UUID) ([]uuid.UUID, error) {
		return h.svc.ListSavedHospitals(c.Request().Context(), staffID)
	})
}

func (h *Handler) RemoveSavedHospital(c echo.Context) error {
	return h.assocRemove(c, func(c echo.Context, staffID, otherID uuid.UUID) error {
		return h.svc.RemoveSavedHospital(c.Request().Context(), staffID, otherID)
	})
}

func (h *Handler) AddSavedExpert(c echo.Context) error {
	return h.assocAdd(c, func(c echo.Context, staffID, otherID uuid.UUID) error {
		return h.svc.AddSavedExpert(c.Request().Context(), staffID, otherID)
	})
}

func (h *Handler) ListSavedExperts(c echo.Context) error {
	return h.assocList(c, func(c echo.Context, staffID uuid.UUID) ([]uuid.UUID, error) {
		return h.svc.ListSavedExperts(c.Request().Context(), staffID)
	})
}

func (h *Handler) RemoveSavedExpert(c echo.Context) error {
	return h.assocRemove(c, func(c echo.Context, staffID, otherID uuid.UUID) error {
		return h.svc.RemoveSavedExpert(c.Request().Context(), staffID, otherID)
	})
}

// -- Education --

func (h *Handler) AddEducation(c echo.Context) error {
	staffID, err := idParam(c, "id")
	if err != nil {
		return err
	}
	var e StaffUserEducation
	if err := c.Bind(&e); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	e.StaffUserID = staffID
	if err := h.svc.AddEducation(c.Request().Context(), &e); err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusCreated, e)
}

func (h *Handler) ListEducation(c echo.Context) error {
	staffID, err := idParam(c, "id")
	if err != nil {
		return err
	}
	rows, err := h.svc.ListEducation(c.Request().Context(), staffID)
	if err != nil {
		return httperr.Map(err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *Handler) RemoveEducation(c echo.Context) error {
	return h.assocRemove(c, func(c echo.Context, staffID, otherID uuid.UUID) error {
		return h.svc.RemoveEducation(c.Request().Context(), staffID, otherID)
	})
}
