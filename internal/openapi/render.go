package openapi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pb33f/libopenapi"
	validator "github.com/pb33f/libopenapi-validator"
	validatorErrors "github.com/pb33f/libopenapi-validator/errors"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
)

// Render encodes the document as "yaml" or "json".
func Render(doc *v3.Document, format string) ([]byte, error) {
	switch format {
	case "", "yaml":
		return doc.Render()
	case "json":
		return doc.RenderJSON("  ")
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// DocumentError lists why a rendered document is not valid OpenAPI.
type DocumentError struct {
	Errors []*validatorErrors.ValidationError
}

func (e *DocumentError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		msg := err.Message
		if err.Reason != "" {
			msg += ": " + err.Reason
		}
		msgs = append(msgs, msg)
	}
	return "invalid OpenAPI document: " + strings.Join(msgs, "; ")
}

// Validate parses a rendered document and checks it against the OpenAPI
// schema.
func Validate(data []byte) error {
	doc, err := libopenapi.NewDocument(data)
	if err != nil {
		return fmt.Errorf("parsing OpenAPI document: %w", err)
	}

	v, errs := validator.NewValidator(doc)
	if len(errs) > 0 {
		return fmt.Errorf("creating validator: %w", errors.Join(errs...))
	}

	valid, validationErrs := v.ValidateDocument()
	if !valid {
		return &DocumentError{Errors: validationErrs}
	}
	return nil
}
