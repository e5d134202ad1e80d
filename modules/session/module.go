package session

import (
	"calendar-digest/core/config"
	"calendar-digest/modules/session/controller"
	"calendar-digest/modules/session/router"
	"calendar-digest/modules/session/service"

	"github.com/labstack/echo/v4"
)

func Init(g *echo.Group, cfg *config.Config) {
	svc := service.NewSessionService(cfg.Session.Secret, cfg.Session.TTL)
	ctrl := controller.NewSessionController(svc)
	router.NewSessionRouter(ctrl).Setup(g)
}
