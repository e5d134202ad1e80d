package constants

import "time"

// Outbound calls
const (
	DefaultTimeout = 30 * time.Second
	SummaryTimeout = 60 * time.Second
)

// Event listing
const (
	EventWindow        = 30 * 24 * time.Hour
	EventDisplayLimit  = 5
	PrimaryCalendarID  = "primary"
	EventsOrderBy      = "startTime"
	ToolEventsList     = "GOOGLECALENDAR_EVENTS_LIST"
	ConnectedAccountQS = "connected_account_id"
)

// Display fallbacks
const (
	UnknownEmail = "Unknown Email"
)

// Context keys
const (
	ContextUserID = "user_id"
)

// Session tokens
const (
	ScopeTokenSession = "session"
	SessionIDLength   = 21
)

// Redis keys
const (
	RedisKeyConnectLock = "calendar_digest:connect_lock:"
	// ConnectTimeout bounds the whole locked section of a connect; the lock
	// must outlive it.
	ConnectTimeout = DefaultTimeout
	ConnectLockTTL = 2 * ConnectTimeout
)
