package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"calendar-digest/core/config"
	"calendar-digest/core/constants"
	"calendar-digest/core/errors"
	"calendar-digest/core/logger"
	"calendar-digest/modules/broker/dto"
	"calendar-digest/modules/broker/mapper"
)

const (
	connectedAccountsPath = "/api/v3/connected_accounts"
	toolsExecutePath      = "/api/v3/tools/execute/"
	maxListPages          = 20
)

// BrokerService wraps the connection broker (Composio) REST API.
type BrokerService interface {
	ListConnections(ctx context.Context, userID string) ([]dto.Connection, *errors.AppError)
	InitiateConnection(ctx context.Context, userID, authConfigID, callbackURL string) (*dto.ConnectionRequest, *errors.AppError)
	GetConnection(ctx context.Context, connectionID string) (*dto.ConnectionDetail, *errors.AppError)
	DeleteConnection(ctx context.Context, connectionID string) *errors.AppError
	ExecuteTool(ctx context.Context, toolSlug, userID string, arguments map[string]any) (json.RawMessage, *errors.AppError)
}

type brokerService struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewBrokerService(cfg config.ComposioConfig, client *http.Client) BrokerService {
	if client == nil {
		client = &http.Client{Timeout: constants.DefaultTimeout}
	}
	return &brokerService{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  client,
	}
}

// ListConnections returns every broker connection for userID, across all auth configs.
func (s *brokerService) ListConnections(ctx context.Context, userID string) ([]dto.Connection, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultTimeout)
	defer cancel()

	var accounts []dto.ConnectedAccount
	cursor := ""
	for page := 0; page < maxListPages; page++ {
		query := url.Values{}
		query.Set("user_ids", userID)
		if cursor != "" {
			query.Set("cursor", cursor)
		}

		var resp dto.ConnectedAccountList
		if appErr := s.do(ctx, http.MethodGet, connectedAccountsPath, query, nil, &resp); appErr != nil {
			logger.Error("BrokerService:ListConnections:Error", "user_id", userID, "error", appErr)
			return nil, appErr
		}
		accounts = append(accounts, resp.Items...)

		if resp.NextCursor == nil || *resp.NextCursor == "" {
			cursor = ""
			break
		}
		cursor = *resp.NextCursor
	}

	if cursor != "" {
		logger.Warn("BrokerService:ListConnections:PageLimit", "user_id", userID, "pages", maxListPages, "accounts", len(accounts))
	}

	return mapper.ToConnections(accounts), nil
}

func (s *brokerService) InitiateConnection(ctx context.Context, userID, authConfigID, callbackURL string) (*dto.ConnectionRequest, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultTimeout)
	defer cancel()

	body := dto.InitiateConnectionRequest{
		AuthConfig: dto.AuthConfigRef{ID: authConfigID},
		Connection: dto.InitiateConnection{
			UserID:      userID,
			CallbackURL: callbackURL,
		},
	}

	var resp dto.InitiateConnectionResponse
	if appErr := s.do(ctx, http.MethodPost, connectedAccountsPath, nil, body, &resp); appErr != nil {
		logger.Error("BrokerService:InitiateConnection:Error", "user_id", userID, "error", appErr)
		return nil, errors.NewAppError(errors.ErrCreateFailed, "failed to initiate connection", appErr)
	}

	req := mapper.ToConnectionRequest(resp)
	if req.RedirectURL == "" {
		logger.Error("BrokerService:InitiateConnection:MissingRedirect", "user_id", userID, "connection_id", resp.ID)
		return nil, errors.NewAppError(errors.ErrCreateFailed, "broker returned no redirect url", nil)
	}
	return req, nil
}

func (s *brokerService) GetConnection(ctx context.Context, connectionID string) (*dto.ConnectionDetail, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultTimeout)
	defer cancel()

	var resp dto.ConnectedAccount
	if appErr := s.do(ctx, http.MethodGet, connectedAccountsPath+"/"+url.PathEscape(connectionID), nil, nil, &resp); appErr != nil {
		logger.Error("BrokerService:GetConnection:Error", "connection_id", connectionID, "error", appErr)
		return nil, appErr
	}
	return mapper.ToConnectionDetail(resp), nil
}

func (s *brokerService) DeleteConnection(ctx context.Context, connectionID string) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultTimeout)
	defer cancel()

	if appErr := s.do(ctx, http.MethodDelete, connectedAccountsPath+"/"+url.PathEscape(connectionID), nil, nil, nil); appErr != nil {
		logger.Error("BrokerService:DeleteConnection:Error", "connection_id", connectionID, "error", appErr)
		return errors.NewAppError(errors.ErrDeleteFailed, "failed to delete connection", appErr)
	}
	return nil
}

// ExecuteTool runs a broker tool on behalf of userID and returns its raw data payload.
func (s *brokerService) ExecuteTool(ctx context.Context, toolSlug, userID string, arguments map[string]any) (json.RawMessage, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultTimeout)
	defer cancel()

	body := dto.ExecuteToolRequest{UserID: userID, Arguments: arguments}

	var resp dto.ExecuteToolResponse
	if appErr := s.do(ctx, http.MethodPost, toolsExecutePath+url.PathEscape(toolSlug), nil, body, &resp); appErr != nil {
		logger.Error("BrokerService:ExecuteTool:Error", "tool", toolSlug, "user_id", userID, "error", appErr)
		return nil, errors.NewAppError(errors.ErrProviderFailed, "failed to execute tool", appErr)
	}

	if !resp.Successful {
		msg := "tool execution failed"
		if resp.Error != nil && *resp.Error != "" {
			msg = *resp.Error
		}
		logger.Error("BrokerService:ExecuteTool:Unsuccessful", "tool", toolSlug, "user_id", userID, "error", msg)
		return nil, errors.NewAppError(errors.ErrProviderFailed, msg, nil)
	}

	return resp.Data, nil
}

func (s *brokerService) do(ctx context.Context, method, path string, query url.Values, body any, out any) *errors.AppError {
	apiURL := s.baseURL + path
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.NewAppError(errors.ErrInternalServer, "failed to encode request", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reader)
	if err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to create request", err)
	}
	req.Header.Set("x-api-key", s.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "broker request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "failed to read broker response", err)
	}

	logger.Debug("BrokerService:Request", "method", method, "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Error("BrokerService:APIError", "method", method, "path", path, "status", resp.StatusCode, "body", string(respBody))
		code := errors.ErrGetFailed
		if resp.StatusCode == http.StatusNotFound {
			code = errors.ErrNotFound
		}
		return errors.NewAppError(code, fmt.Sprintf("Composio API error: %d", resp.StatusCode), nil)
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return errors.NewAppError(errors.ErrGetFailed, "failed to parse broker response", err)
	}
	return nil
}
