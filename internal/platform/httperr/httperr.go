// Package httperr translates repository sentinel errors into echo HTTP
// errors so every handler answers the same way: 404 for missing rows, 409
// for uniqueness conflicts and protected deletes, 400 for writes naming a
// missing referenced row and for anything the service rejected.
package httperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/reftrack/reftrack/internal/platform/db"
)

// Map converts a service/repository error into an echo.HTTPError.
func Map(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, db.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, db.ErrProtected):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, db.ErrInvalidReference):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}
