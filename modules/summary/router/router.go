package router

import (
	"calendar-digest/modules/summary/controller"

	"github.com/labstack/echo/v4"
)

type SummaryRouter struct {
	controller *controller.SummaryController
}

func NewSummaryRouter(controller *controller.SummaryController) *SummaryRouter {
	return &SummaryRouter{controller: controller}
}

func (r *SummaryRouter) Setup(g *echo.Group) {
	g.POST("/summarize", r.controller.Summarize)
}
