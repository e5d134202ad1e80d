package controller

import (
	"net/http"

	"calendar-digest/core/controller"
	"calendar-digest/core/errors"
	"calendar-digest/core/middleware"
	"calendar-digest/modules/connection/dto"
	"calendar-digest/modules/connection/service"

	"github.com/labstack/echo/v4"
)

type ConnectionController struct {
	controller.BaseController
	service     service.ConnectionService
	callbackURL string
}

// NewConnectionController builds the controller. callbackURL overrides the
// request origin as the post-authorization return target when non-empty.
func NewConnectionController(service service.ConnectionService, callbackURL string) *ConnectionController {
	return &ConnectionController{
		BaseController: controller.NewBaseController(),
		service:        service,
		callbackURL:    callbackURL,
	}
}

// Connect starts (or short-circuits) the calendar authorization flow
// POST /api/connect
func (ctrl *ConnectionController) Connect(c echo.Context) error {
	var req dto.UserRequest
	if err := c.Bind(&req); err != nil {
		return ctrl.BadRequest(c, "Invalid request body.")
	}

	userID := middleware.ResolveUserID(c, req.UserID)
	resp, appErr := ctrl.service.InitiateConnection(c.Request().Context(), userID, ctrl.returnURL(c))
	if appErr != nil {
		return ctrl.ErrorJSON(c, appErr)
	}

	return c.JSON(http.StatusOK, resp)
}

// Disconnect deletes the user's authoritative connection
// POST /api/disconnect
func (ctrl *ConnectionController) Disconnect(c echo.Context) error {
	var req dto.UserRequest
	if err := c.Bind(&req); err != nil {
		return ctrl.BadRequest(c, "Invalid request body.")
	}

	userID := middleware.ResolveUserID(c, req.UserID)
	if appErr := ctrl.service.TerminateConnection(c.Request().Context(), userID); appErr != nil {
		return ctrl.ErrorJSON(c, appErr)
	}

	return c.JSON(http.StatusOK, controller.SuccessBody{
		Success: true,
		Message: service.MsgDisconnectSucceeded,
	})
}

// CheckStatus reports whether the user has an authoritative connection
// GET /api/check-status?userId=...
func (ctrl *ConnectionController) CheckStatus(c echo.Context) error {
	userID := middleware.ResolveUserID(c, c.QueryParam("userId"))
	if userID == "" {
		return ctrl.MessageJSON(c, errors.NewAppError(errors.ErrInvalidInput, service.MsgUserIDRequired, nil))
	}

	status, appErr := ctrl.service.CheckStatus(c.Request().Context(), userID)
	if appErr != nil {
		ctrl.LogError(c, appErr)
		return c.JSON(ctrl.StatusFor(appErr), status)
	}

	return c.JSON(http.StatusOK, status)
}

func (ctrl *ConnectionController) returnURL(c echo.Context) string {
	if ctrl.callbackURL != "" {
		return ctrl.callbackURL
	}
	return c.Scheme() + "://" + c.Request().Host
}
