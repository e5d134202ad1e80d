package controller

import (
	"net/http"

	"calendar-digest/core/errors"
	"calendar-digest/core/logger"

	"github.com/labstack/echo/v4"
)

// Response bodies. The dashboard client reads either an "error" or a "message"
// field depending on the route, so both shapes exist.
type (
	ErrorBody struct {
		Error string `json:"error"`
	}

	MessageBody struct {
		Message string `json:"message"`
	}

	SuccessBody struct {
		Success bool   `json:"success"`
		Message string `json:"message,omitempty"`
	}
)

type BaseController interface {
	StatusFor(err *errors.AppError) int
	ErrorJSON(c echo.Context, err *errors.AppError) error
	MessageJSON(c echo.Context, err *errors.AppError) error
	BadRequest(c echo.Context, message string) error
	LogError(c echo.Context, err *errors.AppError)
}

type responseHandler struct{}

func NewBaseController() BaseController {
	return &responseHandler{}
}

// StatusFor maps an application error code to its HTTP status.
func (h *responseHandler) StatusFor(err *errors.AppError) int {
	if err == nil {
		return http.StatusInternalServerError
	}
	switch err.Code {
	case errors.ErrInvalidInput, errors.ErrInvalidRequestData:
		return http.StatusBadRequest
	case errors.ErrUnauthorized, errors.ErrTokenExpired, errors.ErrInvalidTokenFormat:
		return http.StatusUnauthorized
	case errors.ErrForbidden:
		return http.StatusForbidden
	case errors.ErrNotFound:
		return http.StatusNotFound
	case errors.ErrAlreadyExists, errors.ErrAlreadyInProgress:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ErrorJSON writes {"error": msg} with the status derived from the error code.
func (h *responseHandler) ErrorJSON(c echo.Context, err *errors.AppError) error {
	h.LogError(c, err)
	return c.JSON(h.StatusFor(err), ErrorBody{Error: messageOf(err)})
}

// MessageJSON writes {"message": msg} with the status derived from the error code.
func (h *responseHandler) MessageJSON(c echo.Context, err *errors.AppError) error {
	h.LogError(c, err)
	return c.JSON(h.StatusFor(err), MessageBody{Message: messageOf(err)})
}

func (h *responseHandler) BadRequest(c echo.Context, message string) error {
	return h.ErrorJSON(c, errors.NewAppError(errors.ErrInvalidInput, message, nil))
}

// LogError records server-side failures; client errors are not logged.
func (h *responseHandler) LogError(c echo.Context, err *errors.AppError) {
	status := h.StatusFor(err)
	if status < http.StatusInternalServerError {
		return
	}
	var cause error
	code := errors.ErrInternalServer
	if err != nil {
		code = err.Code
		cause = err.Err
	}
	logger.Error("BaseController:ErrorResponse",
		"status", status,
		"code", code,
		"path", c.Path(),
		"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
		"error", cause,
	)
}

func messageOf(err *errors.AppError) string {
	if err == nil || err.Message == "" {
		return "internal server error"
	}
	return err.Message
}
