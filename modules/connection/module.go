package connection

import (
	"calendar-digest/core/cache"
	"calendar-digest/core/config"
	brokerService "calendar-digest/modules/broker/service"
	"calendar-digest/modules/connection/controller"
	"calendar-digest/modules/connection/router"
	"calendar-digest/modules/connection/service"

	"github.com/labstack/echo/v4"
)

// Init wires the connection reconciler and registers its routes. The service is
// returned for modules that need the user's authoritative connection.
func Init(g *echo.Group, cfg *config.Config, broker brokerService.BrokerService, locker cache.Locker) service.ConnectionService {
	svc := service.NewConnectionService(broker, cfg.Composio.AuthConfigID, locker)
	ctrl := controller.NewConnectionController(svc, cfg.Server.CallbackURL)

	router.NewConnectionRouter(ctrl).Setup(g)

	return svc
}
