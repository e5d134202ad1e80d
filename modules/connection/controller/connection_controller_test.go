package controller

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"calendar-digest/core/cache"
	"calendar-digest/core/errors"
	"calendar-digest/core/middleware"
	"calendar-digest/core/utils"
	brokerDto "calendar-digest/modules/broker/dto"
	"calendar-digest/modules/broker/fake"
	"calendar-digest/modules/connection/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const authConfigID = "ac_google"

func newServer(b *fake.Broker, callbackURL string) *echo.Echo {
	e := echo.New()
	g := e.Group("/api", middleware.NewMiddleware("secret").SessionMiddleware())

	ctrl := NewConnectionController(service.NewConnectionService(b, authConfigID, cache.NewMemoryLocker()), callbackURL)
	g.POST("/connect", ctrl.Connect)
	g.POST("/disconnect", ctrl.Disconnect)
	g.GET("/check-status", ctrl.CheckStatus)
	return e
}

func do(e *echo.Echo, method, target, body string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestConnect_NewConnection(t *testing.T) {
	b := fake.NewBroker()
	e := newServer(b, "")

	rec := do(e, http.MethodPost, "https://app.example/api/connect", `{"userId":"u1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"redirectUrl":"https://auth.example/oauth?state=u1"}`, rec.Body.String())

	require.Len(t, b.InitiateCalls, 1)
	assert.Equal(t, "https://app.example", b.InitiateCalls[0].CallbackURL)
}

func TestConnect_AlreadyConnected(t *testing.T) {
	b := fake.NewBroker()
	b.AddConnection("u1", brokerDto.Connection{ID: "conn_42", AuthConfigID: authConfigID})
	e := newServer(b, "")

	rec := do(e, http.MethodPost, "https://app.example/api/connect", `{"userId":"u1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"redirectUrl":"https://app.example?connected_account_id=conn_42"}`, rec.Body.String())
	assert.Empty(t, b.InitiateCalls)
}

func TestConnect_ConfiguredCallback(t *testing.T) {
	b := fake.NewBroker()
	e := newServer(b, "https://dashboard.example")

	rec := do(e, http.MethodPost, "http://internal:7070/api/connect", `{"userId":"u1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, b.InitiateCalls, 1)
	assert.Equal(t, "https://dashboard.example", b.InitiateCalls[0].CallbackURL)
}

func TestConnect_MissingUserID(t *testing.T) {
	e := newServer(fake.NewBroker(), "")

	rec := do(e, http.MethodPost, "/api/connect", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"User ID is required."}`, rec.Body.String())
}

func TestConnect_SessionToken(t *testing.T) {
	b := fake.NewBroker()
	e := newServer(b, "")

	token, _, err := utils.GenerateSessionToken("u-session", "secret", time.Hour, time.Now())
	require.NoError(t, err)

	rec := do(e, http.MethodPost, "https://app.example/api/connect", `{}`, echo.HeaderAuthorization, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, b.InitiateCalls, 1)
	assert.Equal(t, "u-session", b.InitiateCalls[0].UserID)
}

func TestConnect_BrokerFailure(t *testing.T) {
	b := fake.NewBroker()
	b.ListErr = errors.NewAppError(errors.ErrGetFailed, "Composio API error: 500", nil)
	e := newServer(b, "")

	rec := do(e, http.MethodPost, "/api/connect", `{"userId":"u1"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Failed to initiate connection."}`, rec.Body.String())
}

func TestDisconnect(t *testing.T) {
	b := fake.NewBroker()
	b.AddConnection("u1", brokerDto.Connection{ID: "conn_42", AuthConfigID: authConfigID})
	e := newServer(b, "")

	rec := do(e, http.MethodPost, "/api/disconnect", `{"userId":"u1"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Successfully disconnected from Google Calendar."}`, rec.Body.String())

	rec = do(e, http.MethodGet, "/api/check-status?userId=u1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"isConnected":false}`, rec.Body.String())

	rec = do(e, http.MethodPost, "/api/disconnect", `{"userId":"u1"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"No active connection found for this user."}`, rec.Body.String())
}

func TestCheckStatus(t *testing.T) {
	b := fake.NewBroker()
	b.AddConnection("u1", brokerDto.Connection{ID: "conn_42", AuthConfigID: authConfigID, Name: "me@example.com"})
	e := newServer(b, "")

	rec := do(e, http.MethodGet, "/api/check-status?userId=u1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"isConnected":true,"connectedEmail":"me@example.com"}`, rec.Body.String())

	rec = do(e, http.MethodGet, "/api/check-status?userId=u2", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"isConnected":false}`, rec.Body.String())
}

func TestCheckStatus_MissingUserID(t *testing.T) {
	e := newServer(fake.NewBroker(), "")

	rec := do(e, http.MethodGet, "/api/check-status", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"User ID is required."}`, rec.Body.String())
}

func TestCheckStatus_BrokerFailure(t *testing.T) {
	b := fake.NewBroker()
	b.ListErr = errors.NewAppError(errors.ErrGetFailed, "Composio API error: 503", nil)
	e := newServer(b, "")

	rec := do(e, http.MethodGet, "/api/check-status?userId=u1", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"isConnected":false,"message":"Failed to check connection status."}`, rec.Body.String())
}
