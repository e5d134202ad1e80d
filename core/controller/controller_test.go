package controller

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"calendar-digest/core/errors"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	h := NewBaseController()

	cases := map[errors.ErrorCode]int{
		errors.ErrInvalidInput:      http.StatusBadRequest,
		errors.ErrNotFound:          http.StatusNotFound,
		errors.ErrAlreadyInProgress: http.StatusConflict,
		errors.ErrUnauthorized:      http.StatusUnauthorized,
		errors.ErrProviderFailed:    http.StatusInternalServerError,
		errors.ErrNotConfigured:     http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, h.StatusFor(errors.NewAppError(code, "x", nil)), code)
	}
	assert.Equal(t, http.StatusInternalServerError, h.StatusFor(nil))
}

func TestErrorAndMessageBodies(t *testing.T) {
	h := NewBaseController()
	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, h.ErrorJSON(c, errors.NewAppError(errors.ErrNotFound, "No active connection found for this user.", nil)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"No active connection found for this user."}`, rec.Body.String())

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, h.MessageJSON(c, errors.NewAppError(errors.ErrProviderFailed, "Failed to fetch calendar events.", stderrors.New("boom"))))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Failed to fetch calendar events.", body["message"])
}

func TestBadRequest(t *testing.T) {
	h := NewBaseController()
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	require.NoError(t, h.BadRequest(c, "User ID is required."))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"User ID is required."}`, rec.Body.String())
}
