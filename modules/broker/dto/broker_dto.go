package dto

import "encoding/json"

// Connection is one broker-owned link between a user and an external account.
type Connection struct {
	ID           string `json:"id"`
	AuthConfigID string `json:"auth_config_id"`
	Name         string `json:"name"`
	Status       string `json:"status"`
	UserID       string `json:"user_id"`
}

// ConnectionRequest is returned when the broker starts a new authorization flow.
type ConnectionRequest struct {
	ID          string `json:"id"`
	RedirectURL string `json:"redirect_url"`
	Status      string `json:"status"`
}

// ConnectionDetail is a single connection together with the credentials the
// broker holds for it.
type ConnectionDetail struct {
	Connection
	AccessToken string `json:"-"`
	TokenType   string `json:"-"`
}

// ========== Wire types (Composio v3) ==========

type AuthConfigRef struct {
	ID string `json:"id"`
}

type ConnectedAccount struct {
	ID         string        `json:"id"`
	Status     string        `json:"status"`
	UserID     string        `json:"user_id"`
	Name       string        `json:"name"`
	AuthConfig AuthConfigRef `json:"auth_config"`
	State      *struct {
		AuthScheme string          `json:"authScheme"`
		Val        CredentialState `json:"val"`
	} `json:"state,omitempty"`
	Data *CredentialState `json:"data,omitempty"`
}

type CredentialState struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type ConnectedAccountList struct {
	Items      []ConnectedAccount `json:"items"`
	NextCursor *string            `json:"next_cursor"`
}

type InitiateConnectionRequest struct {
	AuthConfig AuthConfigRef      `json:"auth_config"`
	Connection InitiateConnection `json:"connection"`
}

type InitiateConnection struct {
	UserID      string `json:"user_id"`
	CallbackURL string `json:"callback_url,omitempty"`
}

type InitiateConnectionResponse struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	RedirectURL string `json:"redirect_url"`
	RedirectURI string `json:"redirect_uri"`
}

type ExecuteToolRequest struct {
	UserID    string         `json:"user_id"`
	Arguments map[string]any `json:"arguments"`
}

type ExecuteToolResponse struct {
	Data       json.RawMessage `json:"data"`
	Error      *string         `json:"error"`
	Successful bool            `json:"successful"`
}
