package mapper

import "calendar-digest/modules/broker/dto"

func ToConnection(account dto.ConnectedAccount) dto.Connection {
	return dto.Connection{
		ID:           account.ID,
		AuthConfigID: account.AuthConfig.ID,
		Name:         account.Name,
		Status:       account.Status,
		UserID:       account.UserID,
	}
}

func ToConnections(accounts []dto.ConnectedAccount) []dto.Connection {
	result := make([]dto.Connection, 0, len(accounts))
	for _, account := range accounts {
		result = append(result, ToConnection(account))
	}
	return result
}

func ToConnectionDetail(account dto.ConnectedAccount) *dto.ConnectionDetail {
	detail := &dto.ConnectionDetail{Connection: ToConnection(account)}
	switch {
	case account.State != nil && account.State.Val.AccessToken != "":
		detail.AccessToken = account.State.Val.AccessToken
		detail.TokenType = account.State.Val.TokenType
	case account.Data != nil:
		detail.AccessToken = account.Data.AccessToken
		detail.TokenType = account.Data.TokenType
	}
	return detail
}

func ToConnectionRequest(resp dto.InitiateConnectionResponse) *dto.ConnectionRequest {
	redirectURL := resp.RedirectURL
	if redirectURL == "" {
		redirectURL = resp.RedirectURI
	}
	return &dto.ConnectionRequest{
		ID:          resp.ID,
		RedirectURL: redirectURL,
		Status:      resp.Status,
	}
}
