package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"calendar-digest/core/errors"
	"calendar-digest/modules/events/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/calendar/v3"
)

type stubClient struct {
	past, future       *dto.EventList
	pastErr, futureErr *errors.AppError
	windows            []dto.EventWindow
}

func (s *stubClient) ListPastEvents(_ context.Context, _ string, w dto.EventWindow) (*dto.EventList, *errors.AppError) {
	s.windows = append(s.windows, w)
	return s.past, s.pastErr
}

func (s *stubClient) ListFutureEvents(_ context.Context, _ string, w dto.EventWindow) (*dto.EventList, *errors.AppError) {
	s.windows = append(s.windows, w)
	return s.future, s.futureErr
}

func events(prefix string, n int, start time.Time) []*calendar.Event {
	var out []*calendar.Event
	for i := 0; i < n; i++ {
		t := start.Add(time.Duration(i) * time.Hour)
		out = append(out, &calendar.Event{
			Id:    fmt.Sprintf("%s%d", prefix, i),
			Start: &calendar.EventDateTime{DateTime: t.Format(time.RFC3339)},
			End:   &calendar.EventDateTime{DateTime: t.Add(30 * time.Minute).Format(time.RFC3339)},
		})
	}
	return out
}

func TestGetEvents_Shapes(t *testing.T) {
	stub := &stubClient{
		past:   &dto.EventList{Summary: "past@example.com", Items: events("p", 9, now.Add(-48*time.Hour))},
		future: &dto.EventList{Summary: "me@example.com", Items: events("f", 5, now.Add(time.Hour))},
	}

	resp, appErr := NewEventsService(stub).GetEvents(context.Background(), "u1", now)
	require.Nil(t, appErr)

	require.Len(t, resp.PastEvents, 5)
	assert.Equal(t, "p8", resp.PastEvents[0].ID)
	assert.Equal(t, "p4", resp.PastEvents[4].ID)

	require.Len(t, resp.FutureEvents, 5)
	assert.Equal(t, "f0", resp.FutureEvents[0].ID)
	assert.Equal(t, 30, resp.FutureEvents[0].DurationMinutes)

	require.NotNil(t, resp.ConnectedEmail)
	assert.Equal(t, "me@example.com", *resp.ConnectedEmail)

	require.Len(t, stub.windows, 2)
	assert.Equal(t, now.Add(-30*24*time.Hour), stub.windows[0].Start)
	assert.Equal(t, now.Add(30*24*time.Hour), stub.windows[0].End)
}

func TestGetEvents_ConnectedEmailFallback(t *testing.T) {
	stub := &stubClient{
		past:   &dto.EventList{Summary: "past@example.com"},
		future: &dto.EventList{},
	}
	resp, appErr := NewEventsService(stub).GetEvents(context.Background(), "u1", now)
	require.Nil(t, appErr)
	require.NotNil(t, resp.ConnectedEmail)
	assert.Equal(t, "past@example.com", *resp.ConnectedEmail)
	assert.Empty(t, resp.PastEvents)

	stub.past = &dto.EventList{}
	resp, appErr = NewEventsService(stub).GetEvents(context.Background(), "u1", now)
	require.Nil(t, appErr)
	assert.Nil(t, resp.ConnectedEmail)
}

func TestGetEvents_ProviderFailure(t *testing.T) {
	stub := &stubClient{pastErr: errors.NewAppError(errors.ErrProviderFailed, "boom", nil)}
	_, appErr := NewEventsService(stub).GetEvents(context.Background(), "u1", now)
	require.NotNil(t, appErr)
	assert.Equal(t, MsgFetchEventsFailed, appErr.Message)

	stub = &stubClient{past: &dto.EventList{}, futureErr: errors.NewAppError(errors.ErrProviderFailed, "boom", nil)}
	_, appErr = NewEventsService(stub).GetEvents(context.Background(), "u1", now)
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrProviderFailed, appErr.Code)
}
