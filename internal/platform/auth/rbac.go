package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Staff roles. SiteAdmin implicitly satisfies every role gate.
const (
	RoleSiteAdmin     = "SITE_ADMIN"
	RoleHospitalAdmin = "HOSPITAL_ADMIN"
	RoleStaff         = "STAFF"
)

// RequireRole returns middleware that checks the authenticated staff user's
// role against the given set. Anonymous requests get 401; authenticated
// requests with a different role get 403.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userRole := RoleFromContext(c.Request().Context())
			if userRole == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			for _, required := range roles {
				if userRole == required || userRole == RoleSiteAdmin {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("required role: %s", strings.Join(roles, " or ")))
		}
	}
}

// RequireAuthenticated returns middleware that rejects anonymous requests but
// accepts any role.
func RequireAuthenticated() echo.MiddlewareFunc {
	return RequireRole(RoleSiteAdmin, RoleHospitalAdmin, RoleStaff)
}
