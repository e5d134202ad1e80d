package controller

import (
	"net/http"
	"time"

	"calendar-digest/core/controller"
	"calendar-digest/core/errors"
	"calendar-digest/core/middleware"
	"calendar-digest/modules/events/service"

	"github.com/labstack/echo/v4"
)

type EventsController struct {
	controller.BaseController
	service service.EventsService
	now     func() time.Time
}

func NewEventsController(service service.EventsService) *EventsController {
	return &EventsController{
		BaseController: controller.NewBaseController(),
		service:        service,
		now:            time.Now,
	}
}

// GetEvents returns the shaped past and future event lists
// GET /api/get-events?userId=...
func (ctrl *EventsController) GetEvents(c echo.Context) error {
	userID := middleware.ResolveUserID(c, c.QueryParam("userId"))
	if userID == "" {
		return ctrl.MessageJSON(c, errors.NewAppError(errors.ErrInvalidInput, "User ID is required.", nil))
	}

	events, appErr := ctrl.service.GetEvents(c.Request().Context(), userID, ctrl.now())
	if appErr != nil {
		return ctrl.MessageJSON(c, appErr)
	}

	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.JSON(http.StatusOK, events)
}
