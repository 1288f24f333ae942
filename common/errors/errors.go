package errors

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Kind partitions application errors into the categories the handlers
// care about when deciding status codes and logging policy.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindConfiguration Kind = "configuration"
	KindNotFound      Kind = "not_found"
	KindCrypto        Kind = "crypto"
	KindInternal      Kind = "internal"
)

// Error represents an application error
type Error struct {
	Kind    Kind   `json:"-"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(kind Kind, code int, message string, err error) *Error {
	return &Error{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewValidation reports bad or missing client input. Maps to 400.
func NewValidation(message string) *Error {
	return New(KindValidation, http.StatusBadRequest, message, nil)
}

// NewConfiguration reports missing or malformed server configuration. Maps to 500.
func NewConfiguration(message string, err error) *Error {
	return New(KindConfiguration, http.StatusInternalServerError, message, err)
}

// NewNotFound reports a missing record. Maps to 404.
func NewNotFound(message string) *Error {
	return New(KindNotFound, http.StatusNotFound, message, nil)
}

// NewCrypto reports a failed encrypt/decrypt/checksum step. The message is
// generic on purpose; the cause carries detail for logs only and must never
// reach a response body.
func NewCrypto(err error) *Error {
	return New(KindCrypto, http.StatusInternalServerError, "payment gateway error", err)
}

// Is reports whether err is an application *Error of the given kind.
func Is(err error, kind Kind) bool {
	if appErr, ok := err.(*Error); ok {
		return appErr.Kind == kind
	}
	return false
}

// From converts any error into an application *Error, defaulting to a 500.
func From(err error) *Error {
	if appErr, ok := err.(*Error); ok {
		return appErr
	}
	return New(KindInternal, http.StatusInternalServerError, "Internal server error", err)
}

// ErrorMiddleware maps errors attached to the gin context to JSON responses.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			appErr := From(c.Errors.Last().Err)
			c.JSON(appErr.Code, appErr)
			c.Abort()
		}
	}
}
