package middleware

import (
	"strings"

	"calendar-digest/core/constants"
	"calendar-digest/core/logger"
	"calendar-digest/core/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

type Middleware struct {
	sessionSecret string
}

func NewMiddleware(sessionSecret string) *Middleware {
	return &Middleware{sessionSecret: sessionSecret}
}

// SessionMiddleware resolves the caller's user id from a bearer session token.
// Requests without a token pass through untouched; routes then fall back to
// the userId carried in the query or body.
func (m *Middleware) SessionMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return next(c)
			}

			claims, err := utils.ValidateAndParseToken(token, m.sessionSecret)
			if err != nil {
				logger.Warn("Middleware:SessionMiddleware:InvalidToken", "code", err.Code, "path", c.Path())
				return next(c)
			}

			c.Set(constants.ContextUserID, claims.UserID)
			return next(c)
		}
	}
}

// UserIDFromContext returns the user id placed by SessionMiddleware, if any.
func UserIDFromContext(c echo.Context) string {
	if v, ok := c.Get(constants.ContextUserID).(string); ok {
		return v
	}
	return ""
}

func RequestID() echo.MiddlewareFunc {
	return echoMiddleware.RequestIDWithConfig(echoMiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	})
}

func RequestLogger() echo.MiddlewareFunc {
	return echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			kv := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			}
			if v.Error != nil {
				logger.Error("HTTP:Request:Error", append(kv, "error", v.Error)...)
				return nil
			}
			logger.Info("HTTP:Request", kv...)
			return nil
		},
	})
}

func CORS(origins []string) echo.MiddlewareFunc {
	return echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: origins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	})
}

// ResolveUserID prefers the id supplied with the request and falls back to the
// session user.
func ResolveUserID(c echo.Context, supplied string) string {
	if supplied = strings.TrimSpace(supplied); supplied != "" {
		return supplied
	}
	return UserIDFromContext(c)
}
