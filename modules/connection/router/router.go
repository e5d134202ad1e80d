package router

import (
	"calendar-digest/modules/connection/controller"

	"github.com/labstack/echo/v4"
)

type ConnectionRouter struct {
	controller *controller.ConnectionController
}

func NewConnectionRouter(controller *controller.ConnectionController) *ConnectionRouter {
	return &ConnectionRouter{controller: controller}
}

func (r *ConnectionRouter) Setup(g *echo.Group) {
	g.POST("/connect", r.controller.Connect)
	g.POST("/disconnect", r.controller.Disconnect)
	g.GET("/check-status", r.controller.CheckStatus)
}
