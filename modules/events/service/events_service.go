package service

import (
	"context"
	"time"

	"calendar-digest/core/errors"
	"calendar-digest/core/logger"
	"calendar-digest/modules/events/dto"
	"calendar-digest/modules/events/mapper"
)

const MsgFetchEventsFailed = "Failed to fetch calendar events."

type EventsService interface {
	GetEvents(ctx context.Context, userID string, now time.Time) (*dto.EventsResponse, *errors.AppError)
}

type eventsService struct {
	client EventsClient
}

func NewEventsService(client EventsClient) EventsService {
	return &eventsService{client: client}
}

// GetEvents fetches the past and future windows around now and shapes them for
// display. Any provider failure fails the whole call.
func (s *eventsService) GetEvents(ctx context.Context, userID string, now time.Time) (*dto.EventsResponse, *errors.AppError) {
	window := dto.NewEventWindow(now)

	past, appErr := s.client.ListPastEvents(ctx, userID, window)
	if appErr != nil {
		logger.Error("EventsService:GetEvents:ListPastEvents:Error", "user_id", userID, "error", appErr)
		return nil, errors.NewAppError(errors.ErrProviderFailed, MsgFetchEventsFailed, appErr)
	}

	future, appErr := s.client.ListFutureEvents(ctx, userID, window)
	if appErr != nil {
		logger.Error("EventsService:GetEvents:ListFutureEvents:Error", "user_id", userID, "error", appErr)
		return nil, errors.NewAppError(errors.ErrProviderFailed, MsgFetchEventsFailed, appErr)
	}

	resp := &dto.EventsResponse{
		PastEvents:   mapper.ShapePastEvents(past.Items),
		FutureEvents: mapper.ShapeFutureEvents(future.Items),
	}

	// The calendar summary is the only reliable account label the provider gives us.
	switch {
	case future.Summary != "":
		resp.ConnectedEmail = &future.Summary
	case past.Summary != "":
		resp.ConnectedEmail = &past.Summary
	}

	logger.Info("EventsService:GetEvents:Complete", "user_id", userID, "past", len(resp.PastEvents), "future", len(resp.FutureEvents))
	return resp, nil
}
