package middleware

import (
	"context"
	"net/http"
)

type contextKey string

const operationContextKey contextKey = "apispec:operation"

// Operation names the documented operation a request belongs to.
type Operation struct {
	// Name is the operation id. It may contain {placeholder} references.
	Name string
	// URLTemplate is the request URI template, e.g. "/orders/{id}".
	URLTemplate string
	// Placeholders resolves {placeholder} references in Name.
	Placeholders map[string]string
}

// WithOperation stores the operation in the request context.
func WithOperation(ctx context.Context, op Operation) context.Context {
	return context.WithValue(ctx, operationContextKey, op)
}

// GetOperation retrieves the operation from the request context.
func GetOperation(ctx context.Context) (Operation, bool) {
	op, ok := ctx.Value(operationContextKey).(Operation)
	return op, ok
}

// Document returns a copy of r that the Recorder captures as op.
func Document(r *http.Request, op Operation) *http.Request {
	return r.WithContext(WithOperation(r.Context(), op))
}
