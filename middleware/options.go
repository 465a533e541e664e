package middleware

import (
	"net/http"

	"github.com/sirupsen/logrus"
)

// ErrorHandler is called when validation fails.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

// ResponseErrorHandler is called when a response violates the contract.
// The response has already been sent.
type ResponseErrorHandler func(r *http.Request, err *ValidationError)

// Options configures middleware behavior.
type Options struct {
	ValidateRequest  bool
	ValidateResponse bool
	ErrorHandler     ErrorHandler
	OnResponseError  ResponseErrorHandler
	Logger           logrus.FieldLogger
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() *Options {
	return &Options{
		ValidateRequest:  true,
		ValidateResponse: true,
		Logger:           logrus.StandardLogger(),
	}
}
