package controller

import (
	"context"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"calendar-digest/modules/summary/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type stubGenerator struct {
	chunks []string
	err    error
}

func (g stubGenerator) Stream(_ context.Context, _ string, onDelta func(string) error) error {
	for _, c := range g.chunks {
		if err := onDelta(c); err != nil {
			return err
		}
	}
	return g.err
}

func post(gen service.Generator, body string) *httptest.ResponseRecorder {
	e := echo.New()
	e.POST("/api/summarize", NewSummaryController(service.NewSummaryService(gen)).Summarize)

	req := httptest.NewRequest(http.MethodPost, "/api/summarize", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSummarize_StreamsText(t *testing.T) {
	rec := post(stubGenerator{chunks: []string{"A short ", "summary."}},
		`{"title":"Retro","description":"Sprint 12","attendees":[{"email":"a@example.com","responseStatus":"accepted"}]}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, echo.MIMETextPlainCharsetUTF8, rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, "A short summary.", rec.Body.String())
	assert.True(t, rec.Flushed)
}

func TestSummarize_TitleRequired(t *testing.T) {
	rec := post(stubGenerator{}, `{"title":""}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Event title is required."}`, rec.Body.String())
}

func TestSummarize_ProviderFailureBeforeStream(t *testing.T) {
	rec := post(stubGenerator{err: stderrors.New("upstream 500")}, `{"title":"Retro"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"An error occurred while generating the summary."}`, rec.Body.String())
}

func TestSummarize_ProviderFailureMidStream(t *testing.T) {
	rec := post(stubGenerator{chunks: []string{"Partial"}, err: stderrors.New("connection reset")}, `{"title":"Retro"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Partial", rec.Body.String())
}
