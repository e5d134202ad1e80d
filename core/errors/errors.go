package errors

import "fmt"

type ErrorCode string

const (
	ErrInternalServer     ErrorCode = "INTERNAL_SERVER_ERROR"
	ErrInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrInvalidRequestData ErrorCode = "INVALID_REQUEST_DATA"
	ErrNotFound           ErrorCode = "NOT_FOUND"
	ErrAlreadyExists      ErrorCode = "ALREADY_EXISTS"
	ErrAlreadyInProgress  ErrorCode = "ALREADY_IN_PROGRESS"
	ErrUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrForbidden          ErrorCode = "FORBIDDEN"
	ErrTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	ErrInvalidTokenFormat ErrorCode = "INVALID_TOKEN_FORMAT"
	ErrNotConfigured      ErrorCode = "NOT_CONFIGURED"

	// Upstream failures
	ErrGetFailed      ErrorCode = "GET_FAILED"
	ErrCreateFailed   ErrorCode = "CREATE_FAILED"
	ErrDeleteFailed   ErrorCode = "DELETE_FAILED"
	ErrProviderFailed ErrorCode = "PROVIDER_FAILED"
)

// AppError carries an application error code alongside the message returned to clients.
// Err is the underlying cause and is never serialized.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}
