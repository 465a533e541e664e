// Package resource assembles the per-operation resource document from a
// captured exchange and the documentation attached to it.
package resource

import (
	"fmt"
	"mime"
	"net/url"
	"strings"

	"github.com/goccy/go-json"

	"github.com/kolah/apispec/internal/jsonschema"
	"github.com/kolah/apispec/internal/model"
)

const (
	ContentTypeJSON      = "application/json"
	ContentTypeMultipart = "multipart/form-data"
	ContentTypeForm      = "application/x-www-form-urlencoded"
)

// SecurityExtractor derives the security requirements of a captured request.
type SecurityExtractor interface {
	Extract(req model.Request) *model.SecurityRequirements
}

// Options configures an Assembler. Zero values fall back to defaults.
type Options struct {
	Security SecurityExtractor
	Resolver TemplateResolver
}

// Assembler builds resource documents. It holds no mutable state.
type Assembler struct {
	security SecurityExtractor
	resolver TemplateResolver
}

func New(opts Options) *Assembler {
	a := &Assembler{security: opts.Security, resolver: opts.Resolver}
	if a.resolver == nil {
		a.resolver = DefaultResolver{}
	}
	return a
}

// Assemble builds the resource document for one snippet.
func (a *Assembler) Assemble(s model.Snippet) (*model.Resource, error) {
	ex := s.Exchange
	p := s.Parameters
	operation := ResolvePlaceholders(ex.Name, s.Placeholders)

	if strings.TrimSpace(ex.URLTemplate) == "" {
		return nil, &MissingURLTemplateError{Operation: operation}
	}
	tmpl, err := a.resolver.Resolve(ex.URLTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", &MissingURLTemplateError{Operation: operation, Template: ex.URLTemplate}, err)
	}

	if err := validateParameters(operation, tmpl, ex.Request, p); err != nil {
		return nil, err
	}

	summary, description := p.Summary, p.Description
	if summary == "" {
		summary = description
	}
	if description == "" {
		description = summary
	}

	req, err := a.requestModel(operation, tmpl, ex.Request, p)
	if err != nil {
		return nil, err
	}
	resp, err := responseModel(ex.Response, p)
	if err != nil {
		return nil, fmt.Errorf("operation %q: response schema: %w", operation, err)
	}

	return &model.Resource{
		OperationID:     operation,
		Summary:         summary,
		Description:     description,
		PrivateResource: p.PrivateResource,
		Deprecated:      p.Deprecated,
		Request:         *req,
		Response:        *resp,
		Tags:            tags(p.Tags, tmpl),
	}, nil
}

// Marshal encodes a resource document the way it is stored on disk.
func Marshal(r *model.Resource) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// ResolvePlaceholders replaces {key} references in name with values.
// Unknown placeholders are left untouched.
func ResolvePlaceholders(name string, values map[string]string) string {
	if len(values) == 0 || !strings.Contains(name, "{") {
		return name
	}
	pairs := make([]string, 0, len(values)*2)
	for k, v := range values {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(name)
}

func (a *Assembler) requestModel(operation string, tmpl URITemplate, req model.Request, p model.Parameters) (*model.RequestModel, error) {
	contentType := headerContentType(req.Headers.Get("Content-Type"), hasRequestBody(req))

	m := &model.RequestModel{
		Path:              tmpl.Path,
		Method:            strings.ToUpper(req.Method),
		ContentType:       contentType,
		Headers:           withExamples(p.RequestHeaders, req.Headers),
		PathParameters:    filterParameters(p.PathParameters),
		RequestParameters: filterParameters(p.RequestParameters),
	}
	if a.security != nil {
		m.SecurityRequirements = a.security.Extract(req)
	}

	if isMultipart(contentType) {
		switch r := model.Variant(p.Request).(type) {
		case nil:
			return nil, &MissingRequestModelError{Operation: operation, ContentType: contentType}
		case model.BodyRequest:
			return nil, &RequestModelMismatchError{Operation: operation, ContentType: contentType, Model: "body"}
		case model.MultipartRequest:
			parts, err := requestParts(operation, req.Parts, r)
			if err != nil {
				return nil, err
			}
			combined, err := jsonschema.GenerateMultipart(r.Parts)
			if err != nil {
				return nil, fmt.Errorf("operation %q: request schema: %w", operation, err)
			}
			m.RequestParts = parts
			m.JSONSchema = json.RawMessage(combined)
			return m, nil
		default:
			return nil, &RequestModelMismatchError{Operation: operation, ContentType: contentType, Model: fmt.Sprintf("%T", r)}
		}
	}

	switch r := model.Variant(p.Request).(type) {
	case nil:
		if hasRequestBody(req) {
			if err := setBody(m, nil, nil, req.Body); err != nil {
				return nil, fmt.Errorf("operation %q: request schema: %w", operation, err)
			}
		}
	case model.BodyRequest:
		if err := setBody(m, r.Schema, r.Fields, req.Body); err != nil {
			return nil, fmt.Errorf("operation %q: request schema: %w", operation, err)
		}
	case model.MultipartRequest:
		return nil, &RequestModelMismatchError{Operation: operation, ContentType: contentType, Model: "multipart"}
	default:
		return nil, &RequestModelMismatchError{Operation: operation, ContentType: contentType, Model: fmt.Sprintf("%T", r)}
	}
	return m, nil
}

func setBody(m *model.RequestModel, ref *model.SchemaRef, fields []model.FieldDescriptor, body []byte) error {
	schema, err := jsonschema.Generate(fields, schemaTitle(ref))
	if err != nil {
		return err
	}
	m.Schema = ref
	m.RequestFields = filterFields(fields)
	m.Example = string(body)
	m.JSONSchema = json.RawMessage(schema)
	return nil
}

func requestParts(operation string, captured []model.Part, doc model.MultipartRequest) ([]model.RequestPartModel, error) {
	parts := make([]model.RequestPartModel, 0, len(captured))
	for _, c := range captured {
		d, ok := doc.Part(c.Name)
		if !ok {
			return nil, &MissingRequestModelError{Operation: operation, ContentType: ContentTypeMultipart, Part: c.Name}
		}
		schema, err := jsonschema.Generate(d.Fields, schemaTitle(d.Schema))
		if err != nil {
			return nil, fmt.Errorf("operation %q: part %q schema: %w", operation, c.Name, err)
		}
		parts = append(parts, model.RequestPartModel{
			PartName:      c.Name,
			Description:   d.Description,
			Schema:        d.Schema,
			RequestFields: filterFields(d.Fields),
			Example:       string(c.Body),
			JSONSchema:    json.RawMessage(schema),
		})
	}
	return parts, nil
}

func responseModel(resp model.Response, p model.Parameters) (*model.ResponseModel, error) {
	hasBody := len(resp.Body) > 0
	m := &model.ResponseModel{
		Status:         resp.Status,
		ContentType:    headerContentType(resp.Headers.Get("Content-Type"), hasBody),
		Headers:        withExamples(p.ResponseHeaders, resp.Headers),
		ResponseFields: []model.FieldDescriptor{},
	}
	if !hasBody {
		return m, nil
	}

	schema, err := jsonschema.Generate(p.ResponseFields, schemaTitle(p.ResponseSchema))
	if err != nil {
		return nil, err
	}
	m.Schema = p.ResponseSchema
	m.ResponseFields = filterFields(p.ResponseFields)
	m.Example = string(resp.Body)
	m.JSONSchema = json.RawMessage(schema)
	return m, nil
}

func validateParameters(operation string, tmpl URITemplate, req model.Request, p model.Parameters) error {
	for _, param := range p.PathParameters {
		if param.Ignored || param.Optional {
			continue
		}
		if !tmpl.HasVariable(param.Name) {
			return &MissingParameterError{Operation: operation, Location: "path", Name: param.Name}
		}
	}

	var query url.Values
	for _, param := range p.RequestParameters {
		if param.Ignored || param.Optional {
			continue
		}
		if query == nil {
			query = capturedQuery(req)
		}
		if _, ok := query[param.Name]; !ok {
			return &MissingParameterError{Operation: operation, Location: "query", Name: param.Name}
		}
	}
	return nil
}

// capturedQuery merges the URI query with a form encoded body.
func capturedQuery(req model.Request) url.Values {
	values := url.Values{}
	if u, err := url.Parse(req.URI); err == nil {
		for k, v := range u.Query() {
			values[k] = append(values[k], v...)
		}
	}
	if mediaType(req.Headers.Get("Content-Type")) == ContentTypeForm {
		if form, err := url.ParseQuery(string(req.Body)); err == nil {
			for k, v := range form {
				values[k] = append(values[k], v...)
			}
		}
	}
	return values
}

func tags(explicit []string, tmpl URITemplate) []string {
	if len(explicit) == 0 {
		if seg := tmpl.FirstSegment(); seg != "" {
			return []string{seg}
		}
		return []string{}
	}
	seen := make(map[string]struct{}, len(explicit))
	out := make([]string, 0, len(explicit))
	for _, t := range explicit {
		if _, ok := seen[t]; ok || t == "" {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// withExamples returns the non-ignored headers with examples taken from
// the captured values. Preset examples are kept.
func withExamples(headers []model.HeaderDescriptor, captured map[string][]string) []model.HeaderDescriptor {
	out := make([]model.HeaderDescriptor, 0, len(headers))
	for _, h := range headers {
		if h.Ignored {
			continue
		}
		if h.Example == "" {
			h.Example = headerValue(captured, h.Name)
		}
		out = append(out, h)
	}
	return out
}

func headerValue(headers map[string][]string, name string) string {
	for k, v := range headers {
		if strings.EqualFold(k, name) && len(v) > 0 {
			return strings.Join(v, ", ")
		}
	}
	return ""
}

func filterParameters(params []model.ParameterDescriptor) []model.ParameterDescriptor {
	out := make([]model.ParameterDescriptor, 0, len(params))
	for _, p := range params {
		if !p.Ignored {
			out = append(out, p)
		}
	}
	return out
}

func filterFields(fields []model.FieldDescriptor) []model.FieldDescriptor {
	out := make([]model.FieldDescriptor, 0, len(fields))
	for _, f := range fields {
		if !f.Ignored {
			out = append(out, f)
		}
	}
	return out
}

func schemaTitle(ref *model.SchemaRef) string {
	if ref == nil {
		return ""
	}
	return ref.Name
}

func hasRequestBody(req model.Request) bool {
	return len(req.Body) > 0 || len(req.Parts) > 0
}

// headerContentType is the content type of a message. Messages without a
// body have none.
func headerContentType(value string, hasBody bool) string {
	if !hasBody {
		return ""
	}
	if value == "" {
		return ContentTypeJSON
	}
	return value
}

func isMultipart(contentType string) bool {
	return mediaType(contentType) == ContentTypeMultipart
}

func mediaType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt, _, _ = strings.Cut(contentType, ";")
	}
	return strings.ToLower(strings.TrimSpace(mt))
}
