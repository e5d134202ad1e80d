package controller

import (
	"io"
	"net/http"

	"calendar-digest/core/controller"
	"calendar-digest/modules/summary/dto"
	"calendar-digest/modules/summary/service"

	"github.com/labstack/echo/v4"
)

type SummaryController struct {
	controller.BaseController
	service service.SummaryService
}

func NewSummaryController(service service.SummaryService) *SummaryController {
	return &SummaryController{
		BaseController: controller.NewBaseController(),
		service:        service,
	}
}

// Summarize streams a plain-text summary of a past event
// POST /api/summarize
func (ctrl *SummaryController) Summarize(c echo.Context) error {
	var req dto.SummarizeRequest
	if err := c.Bind(&req); err != nil {
		return ctrl.BadRequest(c, "Invalid request body.")
	}
	if appErr := ctrl.service.Validate(&req); appErr != nil {
		return ctrl.ErrorJSON(c, appErr)
	}

	res := c.Response()
	started := false
	start := func() {
		if started {
			return
		}
		started = true
		res.Header().Set(echo.HeaderContentType, echo.MIMETextPlainCharsetUTF8)
		res.Header().Set(echo.HeaderCacheControl, "no-cache")
		res.Header().Set(echo.HeaderXContentTypeOptions, "nosniff")
		res.WriteHeader(http.StatusOK)
	}

	appErr := ctrl.service.Summarize(c.Request().Context(), &req, func(chunk string) error {
		start()
		if _, err := io.WriteString(res, chunk); err != nil {
			return err
		}
		res.Flush()
		return nil
	})
	if appErr != nil {
		// Once bytes are on the wire the status can no longer change.
		if !started {
			return ctrl.ErrorJSON(c, appErr)
		}
		ctrl.LogError(c, appErr)
		return nil
	}

	start()
	return nil
}
