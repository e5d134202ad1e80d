package summary

import (
	"calendar-digest/core/config"
	"calendar-digest/core/logger"
	"calendar-digest/modules/summary/controller"
	"calendar-digest/modules/summary/router"
	"calendar-digest/modules/summary/service"

	"github.com/labstack/echo/v4"
)

func Init(g *echo.Group, cfg *config.Config) {
	if cfg.OpenAI.APIKey == "" {
		logger.Warn("Summary:Init:MissingAPIKey", "reason", "OPENAI_API_KEY not set; summarize requests will fail upstream")
	}

	svc := service.NewSummaryService(service.NewOpenAIGenerator(cfg.OpenAI))
	ctrl := controller.NewSummaryController(svc)

	router.NewSummaryRouter(ctrl).Setup(g)
}
