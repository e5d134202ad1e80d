package service

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"calendar-digest/core/constants"
	"calendar-digest/core/errors"
	"calendar-digest/core/logger"
	brokerDto "calendar-digest/modules/broker/dto"
	brokerService "calendar-digest/modules/broker/service"
	"calendar-digest/modules/events/dto"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// EventsClient lists a user's calendar events inside a window.
type EventsClient interface {
	ListPastEvents(ctx context.Context, userID string, window dto.EventWindow) (*dto.EventList, *errors.AppError)
	ListFutureEvents(ctx context.Context, userID string, window dto.EventWindow) (*dto.EventList, *errors.AppError)
}

// ConnectionFinder resolves the user's authoritative broker connection.
type ConnectionFinder interface {
	FindAuthoritative(ctx context.Context, userID string) (*brokerDto.Connection, *errors.AppError)
}

type listQuery struct {
	timeMin    time.Time
	timeMax    time.Time
	maxResults int64
}

func pastQuery(w dto.EventWindow) listQuery {
	return listQuery{timeMin: w.Start, timeMax: w.Now}
}

func futureQuery(w dto.EventWindow) listQuery {
	return listQuery{timeMin: w.Now, timeMax: w.End, maxResults: constants.EventDisplayLimit}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// ========== Broker tool source ==========

type brokerEventsClient struct {
	broker brokerService.BrokerService
}

// NewBrokerEventsClient lists events through the broker's calendar tool, so the
// broker holds and refreshes the OAuth credentials.
func NewBrokerEventsClient(broker brokerService.BrokerService) EventsClient {
	return &brokerEventsClient{broker: broker}
}

func (c *brokerEventsClient) ListPastEvents(ctx context.Context, userID string, window dto.EventWindow) (*dto.EventList, *errors.AppError) {
	return c.list(ctx, userID, pastQuery(window))
}

func (c *brokerEventsClient) ListFutureEvents(ctx context.Context, userID string, window dto.EventWindow) (*dto.EventList, *errors.AppError) {
	return c.list(ctx, userID, futureQuery(window))
}

func (c *brokerEventsClient) list(ctx context.Context, userID string, q listQuery) (*dto.EventList, *errors.AppError) {
	args := map[string]any{
		"calendarId":   constants.PrimaryCalendarID,
		"timeMin":      formatTime(q.timeMin),
		"timeMax":      formatTime(q.timeMax),
		"orderBy":      constants.EventsOrderBy,
		"singleEvents": true,
	}
	if q.maxResults > 0 {
		args["maxResults"] = q.maxResults
	}

	data, appErr := c.broker.ExecuteTool(ctx, constants.ToolEventsList, userID, args)
	if appErr != nil {
		return nil, errors.NewAppError(errors.ErrProviderFailed, "failed to list calendar events", appErr)
	}

	events, err := decodeEvents(data)
	if err != nil {
		logger.Error("BrokerEventsClient:List:Decode:Error", "user_id", userID, "error", err)
		return nil, errors.NewAppError(errors.ErrProviderFailed, "failed to parse calendar events", err)
	}
	return &dto.EventList{Summary: events.Summary, Items: events.Items}, nil
}

// decodeEvents accepts the Google events payload either at the top level or
// nested under response_data.
func decodeEvents(data json.RawMessage) (*calendar.Events, error) {
	events := &calendar.Events{}
	if len(data) == 0 || string(data) == "null" {
		return events, nil
	}

	var envelope struct {
		ResponseData json.RawMessage `json:"response_data"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, err
	}
	if len(envelope.ResponseData) > 0 && string(envelope.ResponseData) != "null" {
		data = envelope.ResponseData
	}

	if err := json.Unmarshal(data, events); err != nil {
		return nil, err
	}
	return events, nil
}

// ========== Direct Google Calendar source ==========

type googleEventsClient struct {
	connections ConnectionFinder
	broker      brokerService.BrokerService
	baseClient  *http.Client
	endpoint    string
}

// NewGoogleEventsClient calls the Google Calendar API directly with the access
// token the broker holds for the user's authoritative connection. endpoint
// overrides the API base path when non-empty.
func NewGoogleEventsClient(connections ConnectionFinder, broker brokerService.BrokerService, baseClient *http.Client, endpoint string) EventsClient {
	if baseClient == nil {
		baseClient = &http.Client{Timeout: constants.DefaultTimeout}
	}
	return &googleEventsClient{
		connections: connections,
		broker:      broker,
		baseClient:  baseClient,
		endpoint:    endpoint,
	}
}

func (c *googleEventsClient) ListPastEvents(ctx context.Context, userID string, window dto.EventWindow) (*dto.EventList, *errors.AppError) {
	return c.list(ctx, userID, pastQuery(window))
}

func (c *googleEventsClient) ListFutureEvents(ctx context.Context, userID string, window dto.EventWindow) (*dto.EventList, *errors.AppError) {
	return c.list(ctx, userID, futureQuery(window))
}

func (c *googleEventsClient) list(ctx context.Context, userID string, q listQuery) (*dto.EventList, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultTimeout)
	defer cancel()

	svc, appErr := c.calendarService(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}

	call := svc.Events.List(constants.PrimaryCalendarID).
		TimeMin(formatTime(q.timeMin)).
		TimeMax(formatTime(q.timeMax)).
		SingleEvents(true).
		OrderBy(constants.EventsOrderBy).
		Context(ctx)
	if q.maxResults > 0 {
		call = call.MaxResults(q.maxResults)
	}

	events, err := call.Do()
	if err != nil {
		logger.Error("GoogleEventsClient:List:Do:Error", "user_id", userID, "error", err)
		return nil, errors.NewAppError(errors.ErrProviderFailed, "failed to list calendar events", err)
	}
	return &dto.EventList{Summary: events.Summary, Items: events.Items}, nil
}

func (c *googleEventsClient) calendarService(ctx context.Context, userID string) (*calendar.Service, *errors.AppError) {
	conn, appErr := c.connections.FindAuthoritative(ctx, userID)
	if appErr != nil {
		return nil, errors.NewAppError(errors.ErrProviderFailed, "failed to resolve calendar connection", appErr)
	}
	if conn == nil {
		return nil, errors.NewAppError(errors.ErrProviderFailed, "no calendar connection for user", nil)
	}

	detail, appErr := c.broker.GetConnection(ctx, conn.ID)
	if appErr != nil {
		return nil, errors.NewAppError(errors.ErrProviderFailed, "failed to load calendar connection", appErr)
	}
	if detail.AccessToken == "" {
		logger.Warn("GoogleEventsClient:MissingAccessToken", "user_id", userID, "connection_id", conn.ID)
		return nil, errors.NewAppError(errors.ErrProviderFailed, "calendar connection has no access token", nil)
	}

	tokenType := detail.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: detail.AccessToken, TokenType: tokenType})
	httpClient := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, c.baseClient), ts)

	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}

	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrProviderFailed, "failed to create calendar service", err)
	}
	return svc, nil
}
