package credentials

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindAuthentication
	KindNotFound
)

// Error is the only error type the Service returns. Message is safe to show
// to clients; Err carries the cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind and Message so callers can compare with the sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

var (
	ErrRegisterFieldsRequired = &Error{Kind: KindValidation, Message: "Email, password, and first name are required"}
	ErrLoginFieldsRequired    = &Error{Kind: KindValidation, Message: "Email and password are required"}
	ErrPasswordFieldsRequired = &Error{Kind: KindValidation, Message: "Current password and new password are required"}
	ErrUserExists             = &Error{Kind: KindConflict, Message: "User already exists with this email"}
	ErrInvalidCredentials     = &Error{Kind: KindAuthentication, Message: "Invalid email or password"}
	ErrAccountDeactivated     = &Error{Kind: KindAuthentication, Message: "Account is deactivated"}
	ErrWrongCurrentPassword   = &Error{Kind: KindAuthentication, Message: "Current password is incorrect"}
	ErrUserNotFound           = &Error{Kind: KindNotFound, Message: "User not found"}
)

func internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: cause}
}

// StatusCode maps err to the HTTP status the handlers answer with.
func StatusCode(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the client-facing text for err.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "Internal server error"
}
