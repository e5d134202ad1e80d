package events

import (
	"calendar-digest/core/config"
	"calendar-digest/core/logger"
	brokerService "calendar-digest/modules/broker/service"
	"calendar-digest/modules/events/controller"
	"calendar-digest/modules/events/router"
	"calendar-digest/modules/events/service"

	"github.com/labstack/echo/v4"
)

func Init(g *echo.Group, cfg *config.Config, broker brokerService.BrokerService, connections service.ConnectionFinder) {
	var client service.EventsClient
	switch cfg.Calendar.Source {
	case config.CalendarSourceGoogle:
		client = service.NewGoogleEventsClient(connections, broker, nil, "")
	default:
		client = service.NewBrokerEventsClient(broker)
	}
	logger.Info("Events:Init", "source", cfg.Calendar.Source)

	svc := service.NewEventsService(client)
	ctrl := controller.NewEventsController(svc)

	router.NewEventsRouter(ctrl).Setup(g)
}
