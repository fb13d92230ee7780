package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/faredesk/internal/models"
	"github.com/dharmasatrya/faredesk/internal/providers"
	"github.com/dharmasatrya/faredesk/internal/session"
	"github.com/dharmasatrya/faredesk/internal/ticketing"
)

func errorJSON(c echo.Context, status int, code, message string) error {
	return c.JSON(status, models.ErrorResponse{
		Error:   code,
		Message: message,
		Code:    status,
	})
}

func bindError(c echo.Context, err error) error {
	return errorJSON(c, http.StatusBadRequest, "invalid_request", "Failed to parse request: "+err.Error())
}

func validationError(c echo.Context, err error) error {
	return errorJSON(c, http.StatusBadRequest, "validation_error", err.Error())
}

// fromError maps domain errors onto statuses.
func fromError(c echo.Context, err error) error {
	var validation models.ValidationError
	switch {
	case errors.As(err, &validation), errors.Is(err, ticketing.ErrInvalid):
		return validationError(c, err)
	case errors.Is(err, session.ErrNotFound):
		return errorJSON(c, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, session.ErrSearchInProgress):
		return errorJSON(c, http.StatusConflict, "search_in_progress", err.Error())
	case errors.Is(err, ticketing.ErrRejected):
		return errorJSON(c, http.StatusUnprocessableEntity, "rejected", err.Error())
	case errors.Is(err, ticketing.ErrUpstreamStatus), errors.Is(err, ticketing.ErrBadPayload),
		errors.Is(err, providers.ErrUpstreamStatus), errors.Is(err, providers.ErrBadPayload):
		return errorJSON(c, http.StatusBadGateway, "upstream_error", err.Error())
	default:
		return errorJSON(c, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
