package service

import (
	"time"

	"calendar-digest/core/constants"
	"calendar-digest/core/errors"
	"calendar-digest/core/logger"
	"calendar-digest/core/utils"
	"calendar-digest/modules/session/dto"
)

const MsgSessionFailed = "Failed to create session."

type SessionService interface {
	Issue(now time.Time) (*dto.SessionResponse, *errors.AppError)
}

type sessionService struct {
	secret string
	ttl    time.Duration
}

func NewSessionService(secret string, ttl time.Duration) SessionService {
	return &sessionService{secret: secret, ttl: ttl}
}

// Issue mints a fresh anonymous user id and a session token bound to it.
func (s *sessionService) Issue(now time.Time) (*dto.SessionResponse, *errors.AppError) {
	userID, err := utils.GenerateUserID(constants.SessionIDLength)
	if err != nil {
		logger.Error("SessionService:Issue:GenerateUserID:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrCreateFailed, MsgSessionFailed, err)
	}

	token, expiresAt, err := utils.GenerateSessionToken(userID, s.secret, s.ttl, now)
	if err != nil {
		logger.Error("SessionService:Issue:GenerateSessionToken:Error", "error", err)
		return nil, errors.NewAppError(errors.ErrCreateFailed, MsgSessionFailed, err)
	}

	return &dto.SessionResponse{UserID: userID, Token: token, ExpiresAt: expiresAt.UTC()}, nil
}
