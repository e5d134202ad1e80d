package service

import (
	"testing"
	"time"

	"calendar-digest/core/constants"
	"calendar-digest/core/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssue(t *testing.T) {
	now := time.Now()
	svc := NewSessionService("secret", time.Hour)

	res, appErr := svc.Issue(now)
	require.Nil(t, appErr)
	assert.Len(t, res.UserID, constants.SessionIDLength)
	assert.WithinDuration(t, now.Add(time.Hour), res.ExpiresAt, time.Second)

	claims, appErr := utils.ValidateAndParseToken(res.Token, "secret")
	require.Nil(t, appErr)
	assert.Equal(t, res.UserID, claims.UserID)
}

func TestIssue_UniqueUsers(t *testing.T) {
	svc := NewSessionService("secret", time.Hour)

	a, appErr := svc.Issue(time.Now())
	require.Nil(t, appErr)
	b, appErr := svc.Issue(time.Now())
	require.Nil(t, appErr)
	assert.NotEqual(t, a.UserID, b.UserID)
}
