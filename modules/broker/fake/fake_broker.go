// Package fake provides an in-memory BrokerService for tests.
package fake

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"calendar-digest/core/errors"
	"calendar-digest/modules/broker/dto"
	"calendar-digest/modules/broker/service"
)

type Broker struct {
	mu sync.Mutex

	connections map[string][]dto.Connection
	tokens      map[string]string
	nextID      int

	// RedirectFor builds the redirect URL returned by InitiateConnection.
	RedirectFor func(userID string) string
	// ToolFunc answers ExecuteTool.
	ToolFunc func(toolSlug, userID string, arguments map[string]any) (json.RawMessage, *errors.AppError)

	ListErr     *errors.AppError
	InitiateErr *errors.AppError
	DeleteErr   *errors.AppError

	InitiateCalls []InitiateCall
	DeleteCalls   []string
	ToolCalls     []ToolCall
}

type InitiateCall struct {
	UserID       string
	AuthConfigID string
	CallbackURL  string
}

type ToolCall struct {
	ToolSlug  string
	UserID    string
	Arguments map[string]any
}

func NewBroker() *Broker {
	return &Broker{
		connections: make(map[string][]dto.Connection),
		tokens:      make(map[string]string),
		RedirectFor: func(userID string) string {
			return "https://auth.example/oauth?state=" + userID
		},
	}
}

// AddConnection registers an existing connection for a user.
func (b *Broker) AddConnection(userID string, conn dto.Connection) {
	b.mu.Lock()
	defer b.mu.Unlock()
	conn.UserID = userID
	b.connections[userID] = append(b.connections[userID], conn)
}

// SetAccessToken sets the credential returned by GetConnection.
func (b *Broker) SetAccessToken(connectionID, token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokens[connectionID] = token
}

func (b *Broker) ListConnections(_ context.Context, userID string) ([]dto.Connection, *errors.AppError) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ListErr != nil {
		return nil, b.ListErr
	}
	out := make([]dto.Connection, len(b.connections[userID]))
	copy(out, b.connections[userID])
	return out, nil
}

func (b *Broker) InitiateConnection(_ context.Context, userID, authConfigID, callbackURL string) (*dto.ConnectionRequest, *errors.AppError) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.InitiateCalls = append(b.InitiateCalls, InitiateCall{UserID: userID, AuthConfigID: authConfigID, CallbackURL: callbackURL})
	if b.InitiateErr != nil {
		return nil, b.InitiateErr
	}
	b.nextID++
	return &dto.ConnectionRequest{
		ID:          fmt.Sprintf("ca_pending_%d", b.nextID),
		RedirectURL: b.RedirectFor(userID),
		Status:      "INITIATED",
	}, nil
}

func (b *Broker) GetConnection(_ context.Context, connectionID string) (*dto.ConnectionDetail, *errors.AppError) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, conns := range b.connections {
		for _, c := range conns {
			if c.ID == connectionID {
				return &dto.ConnectionDetail{Connection: c, AccessToken: b.tokens[connectionID], TokenType: "Bearer"}, nil
			}
		}
	}
	return nil, errors.NewAppError(errors.ErrNotFound, "Composio API error: 404", nil)
}

func (b *Broker) DeleteConnection(_ context.Context, connectionID string) *errors.AppError {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.DeleteCalls = append(b.DeleteCalls, connectionID)
	if b.DeleteErr != nil {
		return b.DeleteErr
	}
	for userID, conns := range b.connections {
		for i, c := range conns {
			if c.ID == connectionID {
				b.connections[userID] = append(conns[:i], conns[i+1:]...)
				return nil
			}
		}
	}
	return errors.NewAppError(errors.ErrDeleteFailed, "failed to delete connection", nil)
}

func (b *Broker) ExecuteTool(_ context.Context, toolSlug, userID string, arguments map[string]any) (json.RawMessage, *errors.AppError) {
	b.mu.Lock()
	b.ToolCalls = append(b.ToolCalls, ToolCall{ToolSlug: toolSlug, UserID: userID, Arguments: arguments})
	fn := b.ToolFunc
	b.mu.Unlock()

	if fn == nil {
		return json.RawMessage(`{"items":[]}`), nil
	}
	return fn(toolSlug, userID, arguments)
}

var _ service.BrokerService = (*Broker)(nil)
