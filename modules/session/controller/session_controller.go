package controller

import (
	"net/http"
	"time"

	"calendar-digest/core/controller"
	"calendar-digest/modules/session/service"

	"github.com/labstack/echo/v4"
)

type SessionController struct {
	controller.BaseController
	service service.SessionService
	now     func() time.Time
}

func NewSessionController(service service.SessionService) *SessionController {
	return &SessionController{
		BaseController: controller.NewBaseController(),
		service:        service,
		now:            time.Now,
	}
}

// Create issues an anonymous session for the dashboard
// POST /api/session
func (ctrl *SessionController) Create(c echo.Context) error {
	res, appErr := ctrl.service.Issue(ctrl.now())
	if appErr != nil {
		return ctrl.ErrorJSON(c, appErr)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.JSON(http.StatusCreated, res)
}
