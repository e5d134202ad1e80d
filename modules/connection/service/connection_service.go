package service

import (
	"context"
	stderrors "errors"
	"net/url"
	"strings"

	"calendar-digest/core/cache"
	"calendar-digest/core/constants"
	"calendar-digest/core/errors"
	"calendar-digest/core/logger"
	brokerDto "calendar-digest/modules/broker/dto"
	brokerService "calendar-digest/modules/broker/service"
	"calendar-digest/modules/connection/dto"
)

const (
	MsgUserIDRequired      = "User ID is required."
	MsgAuthConfigMissing   = "Auth config ID is not configured in the environment."
	MsgCheckStatusFailed   = "Failed to check connection status."
	MsgConnectFailed       = "Failed to initiate connection."
	MsgConnectInProgress   = "A connection request is already in progress for this user."
	MsgNoActiveConnection  = "No active connection found for this user."
	MsgDisconnectFailed    = "Failed to disconnect. Please try again."
	MsgDisconnectSucceeded = "Successfully disconnected from Google Calendar."
)

// ConnectionService reconciles a user's broker-side calendar connection.
type ConnectionService interface {
	CheckStatus(ctx context.Context, userID string) (*dto.StatusResponse, *errors.AppError)
	InitiateConnection(ctx context.Context, userID, returnURL string) (*dto.ConnectResponse, *errors.AppError)
	TerminateConnection(ctx context.Context, userID string) *errors.AppError
	FindAuthoritative(ctx context.Context, userID string) (*brokerDto.Connection, *errors.AppError)
}

type connectionService struct {
	broker       brokerService.BrokerService
	authConfigID string
	locker       cache.Locker
}

func NewConnectionService(broker brokerService.BrokerService, authConfigID string, locker cache.Locker) ConnectionService {
	return &connectionService{
		broker:       broker,
		authConfigID: authConfigID,
		locker:       locker,
	}
}

// FindAuthoritative returns the user's connection for the configured auth
// config, or nil when there is none.
func (s *connectionService) FindAuthoritative(ctx context.Context, userID string) (*brokerDto.Connection, *errors.AppError) {
	connections, appErr := s.broker.ListConnections(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}
	return selectAuthoritative(connections, s.authConfigID), nil
}

func selectAuthoritative(connections []brokerDto.Connection, authConfigID string) *brokerDto.Connection {
	if authConfigID == "" {
		return nil
	}
	for i := range connections {
		if connections[i].AuthConfigID == authConfigID {
			return &connections[i]
		}
	}
	return nil
}

// CheckStatus never fails hard: on broker errors it reports disconnected and
// returns the error for the caller to log and surface.
func (s *connectionService) CheckStatus(ctx context.Context, userID string) (*dto.StatusResponse, *errors.AppError) {
	if userID == "" {
		return &dto.StatusResponse{IsConnected: false}, errors.NewAppError(errors.ErrInvalidInput, MsgUserIDRequired, nil)
	}

	conn, appErr := s.FindAuthoritative(ctx, userID)
	if appErr != nil {
		logger.Error("ConnectionService:CheckStatus:FindAuthoritative:Error", "user_id", userID, "error", appErr)
		return &dto.StatusResponse{IsConnected: false, Message: MsgCheckStatusFailed},
			errors.NewAppError(errors.ErrGetFailed, MsgCheckStatusFailed, appErr)
	}

	if conn == nil {
		return &dto.StatusResponse{IsConnected: false}, nil
	}

	logger.Debug("ConnectionService:CheckStatus:Connected", "user_id", userID, "connection_id", conn.ID, "name", conn.Name)

	email := conn.Name
	if email == "" {
		email = constants.UnknownEmail
	}
	return &dto.StatusResponse{IsConnected: true, ConnectedEmail: email}, nil
}

// InitiateConnection starts a broker authorization flow, or short-circuits back
// to returnURL when the user already has an authoritative connection.
func (s *connectionService) InitiateConnection(ctx context.Context, userID, returnURL string) (*dto.ConnectResponse, *errors.AppError) {
	if s.authConfigID == "" {
		return nil, errors.NewAppError(errors.ErrNotConfigured, MsgAuthConfigMissing, nil)
	}
	if userID == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, MsgUserIDRequired, nil)
	}

	release, appErr := s.lock(ctx, userID)
	if appErr != nil {
		return nil, appErr
	}
	defer release()

	// Both broker calls share one deadline so the lock cannot lapse mid-connect.
	ctx, cancel := context.WithTimeout(ctx, constants.ConnectTimeout)
	defer cancel()

	conn, appErr := s.FindAuthoritative(ctx, userID)
	if appErr != nil {
		logger.Error("ConnectionService:InitiateConnection:FindAuthoritative:Error", "user_id", userID, "error", appErr)
		return nil, errors.NewAppError(errors.ErrGetFailed, MsgConnectFailed, appErr)
	}

	if conn != nil {
		logger.Info("ConnectionService:InitiateConnection:AlreadyConnected", "user_id", userID, "connection_id", conn.ID)
		return &dto.ConnectResponse{RedirectURL: withConnectedAccount(returnURL, conn.ID)}, nil
	}

	logger.Info("ConnectionService:InitiateConnection:Initiating", "user_id", userID)
	req, appErr := s.broker.InitiateConnection(ctx, userID, s.authConfigID, returnURL)
	if appErr != nil {
		logger.Error("ConnectionService:InitiateConnection:Broker:Error", "user_id", userID, "error", appErr)
		return nil, errors.NewAppError(errors.ErrCreateFailed, MsgConnectFailed, appErr)
	}

	return &dto.ConnectResponse{RedirectURL: req.RedirectURL}, nil
}

// lock serializes connect attempts per user. If the lock backend itself fails
// the attempt proceeds unguarded.
func (s *connectionService) lock(ctx context.Context, userID string) (func(), *errors.AppError) {
	noop := func() {}
	if s.locker == nil {
		return noop, nil
	}

	key := constants.RedisKeyConnectLock + userID
	token, err := s.locker.Acquire(ctx, key, constants.ConnectLockTTL)
	if err != nil {
		if stderrors.Is(err, cache.ErrLockHeld) {
			logger.Warn("ConnectionService:InitiateConnection:LockHeld", "user_id", userID)
			return nil, errors.NewAppError(errors.ErrAlreadyInProgress, MsgConnectInProgress, err)
		}
		logger.Error("ConnectionService:InitiateConnection:Lock:Error", "user_id", userID, "error", err)
		return noop, nil
	}

	return func() {
		// Release even if the request context was cancelled mid-flight.
		if err := s.locker.Release(context.WithoutCancel(ctx), key, token); err != nil {
			logger.Error("ConnectionService:InitiateConnection:Unlock:Error", "user_id", userID, "error", err)
		}
	}, nil
}

func withConnectedAccount(returnURL, connectionID string) string {
	sep := "?"
	if strings.Contains(returnURL, "?") {
		sep = "&"
	}
	return returnURL + sep + constants.ConnectedAccountQS + "=" + url.QueryEscape(connectionID)
}

func (s *connectionService) TerminateConnection(ctx context.Context, userID string) *errors.AppError {
	if userID == "" {
		return errors.NewAppError(errors.ErrInvalidInput, MsgUserIDRequired, nil)
	}

	conn, appErr := s.FindAuthoritative(ctx, userID)
	if appErr != nil {
		logger.Error("ConnectionService:TerminateConnection:FindAuthoritative:Error", "user_id", userID, "error", appErr)
		return errors.NewAppError(errors.ErrGetFailed, MsgDisconnectFailed, appErr)
	}
	if conn == nil {
		return errors.NewAppError(errors.ErrNotFound, MsgNoActiveConnection, nil)
	}

	if appErr := s.broker.DeleteConnection(ctx, conn.ID); appErr != nil {
		logger.Error("ConnectionService:TerminateConnection:Delete:Error", "user_id", userID, "connection_id", conn.ID, "error", appErr)
		return errors.NewAppError(errors.ErrDeleteFailed, MsgDisconnectFailed, appErr)
	}

	logger.Info("ConnectionService:TerminateConnection:Success", "user_id", userID, "connection_id", conn.ID)
	return nil
}
