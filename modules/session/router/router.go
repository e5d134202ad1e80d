package router

import (
	"calendar-digest/modules/session/controller"

	"github.com/labstack/echo/v4"
)

type SessionRouter struct {
	controller *controller.SessionController
}

func NewSessionRouter(controller *controller.SessionController) *SessionRouter {
	return &SessionRouter{controller: controller}
}

func (r *SessionRouter) Setup(g *echo.Group) {
	g.POST("/session", r.controller.Create)
}
