package handlers

import (
	"net/http"

	"github.com/blogsphere/backend/internal/apperr"
	"github.com/labstack/echo/v4"
)

// toHTTPError converts a service/store error into the echo error the client
// sees. Persistence faults never propagate as panics; they become a
// transient-notice status here.
func toHTTPError(err error) *echo.HTTPError {
	if httpErr, ok := err.(*echo.HTTPError); ok {
		return httpErr
	}
	if appErr, ok := err.(*apperr.AppError); ok {
		return echo.NewHTTPError(apperr.HTTPStatus(appErr), appErr.Message)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
