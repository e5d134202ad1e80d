package dto

// UserRequest is the body of POST /connect and POST /disconnect.
type UserRequest struct {
	UserID string `json:"userId"`
}

type StatusResponse struct {
	IsConnected    bool   `json:"isConnected"`
	ConnectedEmail string `json:"connectedEmail,omitempty"`
	Message        string `json:"message,omitempty"`
}

type ConnectResponse struct {
	RedirectURL string `json:"redirectUrl"`
}
