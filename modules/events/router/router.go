package router

import (
	"calendar-digest/modules/events/controller"

	"github.com/labstack/echo/v4"
)

type EventsRouter struct {
	controller *controller.EventsController
}

func NewEventsRouter(controller *controller.EventsController) *EventsRouter {
	return &EventsRouter{controller: controller}
}

func (r *EventsRouter) Setup(g *echo.Group) {
	g.GET("/get-events", r.controller.GetEvents)
}
