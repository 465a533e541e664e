package resource

import "fmt"

// MissingURLTemplateError reports a captured exchange without a usable URI template.
type MissingURLTemplateError struct {
	Operation string
	Template  string
}

func (e *MissingURLTemplateError) Error() string {
	if e.Template == "" {
		return fmt.Sprintf("operation %q: missing URL template", e.Operation)
	}
	return fmt.Sprintf("operation %q: cannot resolve URL template %q", e.Operation, e.Template)
}

// MissingRequestModelError reports a multipart request without a multipart
// request model, or a captured part that the model does not document.
type MissingRequestModelError struct {
	Operation   string
	ContentType string
	Part        string
}

func (e *MissingRequestModelError) Error() string {
	if e.Part != "" {
		return fmt.Sprintf("operation %q: request part %q is not documented", e.Operation, e.Part)
	}
	return fmt.Sprintf("operation %q: missing request model for %s request", e.Operation, e.ContentType)
}

// RequestModelMismatchError reports a multipart request documented with a
// non-multipart request model.
type RequestModelMismatchError struct {
	Operation   string
	ContentType string
	Model       string
}

func (e *RequestModelMismatchError) Error() string {
	return fmt.Sprintf("operation %q: %s request documented with a %s request model", e.Operation, e.ContentType, e.Model)
}

// MissingParameterError reports a documented parameter absent from the exchange.
type MissingParameterError struct {
	Operation string
	Location  string
	Name      string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("operation %q: documented %s parameter %q is not present in the request", e.Operation, e.Location, e.Name)
}
