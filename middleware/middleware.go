package middleware

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/pb33f/libopenapi"
	validator "github.com/pb33f/libopenapi-validator"
	validatorErrors "github.com/pb33f/libopenapi-validator/errors"
	"github.com/sirupsen/logrus"

	"github.com/kolah/apispec/internal/loader"
)

// Middleware validates traffic against an OpenAPI contract, typically one
// generated by "apispec openapi" from an earlier test run.
type Middleware struct {
	validator validator.Validator
	options   *Options
}

// New creates middleware from an OpenAPI spec string.
func New(spec string, opts *Options) (*Middleware, error) {
	return NewFromBytes([]byte(spec), opts)
}

// NewFromBytes creates middleware from OpenAPI spec bytes.
func NewFromBytes(spec []byte, opts *Options) (*Middleware, error) {
	doc, err := libopenapi.NewDocument(spec)
	if err != nil {
		return nil, err
	}
	return newMiddleware(doc, opts)
}

// NewFromFile creates middleware from an OpenAPI document on disk.
// Relative file references are resolved against its directory.
func NewFromFile(path string, opts *Options) (*Middleware, error) {
	contract, err := loader.LoadContract(path)
	if err != nil {
		return nil, err
	}
	return newMiddleware(contract.Document, opts)
}

func newMiddleware(doc libopenapi.Document, opts *Options) (*Middleware, error) {
	v, errs := validator.NewValidator(doc)
	if len(errs) > 0 {
		return nil, errs[0]
	}

	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	return &Middleware{
		validator: v,
		options:   opts,
	}, nil
}

// Handler returns an http.Handler middleware.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.options.ValidateRequest {
			valid, errors := m.validator.ValidateHttpRequestSync(r)
			if !valid {
				m.handleValidationError(w, r, errors)
				return
			}
		}

		if !m.options.ValidateResponse {
			next.ServeHTTP(w, r)
			return
		}

		capture := newResponseCapture(w)
		next.ServeHTTP(capture, r)
		m.validateResponse(r, capture)
	})
}

func (m *Middleware) validateResponse(r *http.Request, capture *responseCapture) {
	resp := &http.Response{
		StatusCode: capture.status,
		Header:     capture.Header().Clone(),
		Body:       io.NopCloser(bytes.NewReader(capture.body.Bytes())),
		Request:    r,
	}

	valid, errors := m.validator.ValidateHttpResponse(r, resp)
	if valid {
		return
	}

	err := &ValidationError{
		StatusCode: capture.status,
		Message:    fmt.Sprintf("response validation failed for %s %s", r.Method, r.URL.Path),
		Errors:     errors,
	}
	if m.options.OnResponseError != nil {
		m.options.OnResponseError(r, err)
		return
	}
	for _, e := range errors {
		m.options.Logger.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": capture.status,
			"reason": e.Reason,
		}).Warn(e.Message)
	}
}

func (m *Middleware) handleValidationError(w http.ResponseWriter, r *http.Request, errors []*validatorErrors.ValidationError) {
	err := &ValidationError{
		StatusCode: http.StatusBadRequest,
		Message:    "request validation failed",
		Errors:     errors,
	}

	if m.options.ErrorHandler != nil {
		m.options.ErrorHandler(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]any{
		"error":   "validation_error",
		"message": err.Message,
		"details": formatValidationErrors(errors),
	})
}

func formatValidationErrors(errors []*validatorErrors.ValidationError) []map[string]any {
	var result []map[string]any
	for _, e := range errors {
		item := map[string]any{
			"message": e.Message,
		}
		if e.Reason != "" {
			item["reason"] = e.Reason
		}
		if e.HowToFix != "" {
			item["howToFix"] = e.HowToFix
		}
		result = append(result, item)
	}
	return result
}
