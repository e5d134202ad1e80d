package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"calendar-digest/core/cache"
	"calendar-digest/core/config"
	"calendar-digest/core/constants"
	"calendar-digest/core/logger"
	"calendar-digest/core/middleware"
	"calendar-digest/core/utils"
	brokerService "calendar-digest/modules/broker/service"
	"calendar-digest/modules/connection"
	"calendar-digest/modules/events"
	"calendar-digest/modules/session"
	"calendar-digest/modules/summary"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
)

const (
	sessionSecretLength = 32
	shutdownTimeout     = 10 * time.Second
)

// Run loads configuration, wires every module and serves until SIGINT or SIGTERM.
func Run() error {
	cfg, err := config.Init()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(os.Stdout, cfg.Log.Format, cfg.Log.Level)

	if cfg.Session.Secret == "" {
		cfg.Session.Secret = utils.GenerateRandomString(sessionSecretLength)
		logger.Warn("Server:Run:SessionSecret", "reason", "SESSION_SECRET not set; issued sessions will not survive a restart")
	}

	locker, closeLocker, err := cache.NewLocker(cfg.Redis)
	if err != nil {
		return fmt.Errorf("init locker: %w", err)
	}
	defer func() {
		if err := closeLocker(); err != nil {
			logger.Warn("Server:Run:CloseLocker:Error", "error", err)
		}
	}()

	e := New(cfg, locker)

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server:Run:Listening", "addr", addr, "calendar_source", cfg.Calendar.Source)
		if err := e.Start(addr); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case sig := <-quit:
		logger.Info("Server:Run:Shutdown", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(ctx)
}

// New builds the echo instance with all routes registered.
func New(cfg *config.Config, locker cache.Locker) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echoMiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.CORS(cfg.Server.CORSOrigins))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	mw := middleware.NewMiddleware(cfg.Session.Secret)
	api := e.Group("/api", mw.SessionMiddleware())

	broker := brokerService.NewBrokerService(cfg.Composio, &http.Client{Timeout: constants.DefaultTimeout})
	connections := connection.Init(api, cfg, broker, locker)
	events.Init(api, cfg, broker, connections)
	summary.Init(api, cfg)
	session.Init(api, cfg)

	return e
}
