// Package openapi aggregates resource documents into an OpenAPI 3 document.
package openapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/pb33f/libopenapi/datamodel/high/base"
	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
	"github.com/pb33f/libopenapi/orderedmap"

	"github.com/kolah/apispec/internal/model"
	"github.com/kolah/apispec/internal/naming"
	"github.com/kolah/apispec/internal/resource"
)

// Version is the OpenAPI version of generated documents.
const Version = "3.0.1"

type Options struct {
	Title          string
	Description    string
	Version        string
	Servers        []string
	ExtractSchemas bool
	OAuth2TokenURL string
}

type builder struct {
	opts       Options
	paths      *orderedmap.Map[string, *v3.PathItem]
	tags       []string
	schemas    *orderedmap.Map[string, *base.SchemaProxy]
	schemaJSON map[string]string
	taken      map[string]bool
	security   *securitySchemes
}

// Build merges resources into one document. Resources sharing a path and
// method become one operation whose responses are keyed by status code.
// Private resources are skipped.
func Build(resources []*model.Resource, opts Options) (*v3.Document, error) {
	b := &builder{
		opts:       opts,
		paths:      orderedmap.New[string, *v3.PathItem](),
		schemas:    orderedmap.New[string, *base.SchemaProxy](),
		schemaJSON: make(map[string]string),
		taken:      make(map[string]bool),
		security:   newSecuritySchemes(opts.OAuth2TokenURL),
	}

	for _, r := range resources {
		if r.PrivateResource {
			continue
		}
		if err := b.add(r); err != nil {
			return nil, fmt.Errorf("resource %q: %w", r.OperationID, err)
		}
	}

	doc := &v3.Document{
		Version: Version,
		Info: &base.Info{
			Title:       opts.Title,
			Description: opts.Description,
			Version:     opts.Version,
		},
		Paths: &v3.Paths{PathItems: b.paths},
	}
	for _, url := range opts.Servers {
		doc.Servers = append(doc.Servers, &v3.Server{URL: url})
	}
	for _, name := range b.tags {
		doc.Tags = append(doc.Tags, &base.Tag{Name: name})
	}

	components := &v3.Components{}
	if b.schemas.Len() > 0 {
		components.Schemas = b.schemas
	}
	if schemes := b.security.schemes(); schemes.Len() > 0 {
		components.SecuritySchemes = schemes
	}
	if components.Schemas != nil || components.SecuritySchemes != nil {
		doc.Components = components
	}

	return doc, nil
}

func (b *builder) add(r *model.Resource) error {
	path := normalizePath(r.Request.Path)
	item, ok := b.paths.Get(path)
	if !ok {
		item = &v3.PathItem{}
		b.paths.Set(path, item)
	}

	op := operation(item, r.Request.Method)
	if op == nil {
		return fmt.Errorf("unsupported method %q", r.Request.Method)
	}
	if *op == nil {
		*op = &v3.Operation{
			OperationId: r.OperationID,
			Responses:   &v3.Responses{Codes: orderedmap.New[string, *v3.Response]()},
		}
	}
	o := *op

	if o.Summary == "" {
		o.Summary = r.Summary
	}
	if o.Description == "" {
		o.Description = r.Description
	}
	if r.Deprecated {
		deprecated := true
		o.Deprecated = &deprecated
	}
	for _, t := range r.Tags {
		o.Tags = appendUnique(o.Tags, t)
		b.tags = appendUnique(b.tags, t)
	}

	b.addParameters(o, path, r.Request)

	if req := r.Request.SecurityRequirements; req != nil {
		b.addSecurity(o, req)
	}

	if err := b.addRequestBody(o, r); err != nil {
		return err
	}
	return b.addResponse(o, r)
}

func (b *builder) addParameters(o *v3.Operation, path string, req model.RequestModel) {
	documented := make(map[string]bool, len(req.PathParameters))
	for _, p := range req.PathParameters {
		documented[p.Name] = true
		o.Parameters = addParameter(o.Parameters, &v3.Parameter{
			Name:        p.Name,
			In:          "path",
			Description: p.Description,
			Required:    boolPtr(true),
			Schema:      scalarSchema(p.Type),
		})
	}
	for _, name := range pathVariables(path) {
		if !documented[name] {
			o.Parameters = addParameter(o.Parameters, &v3.Parameter{
				Name:     name,
				In:       "path",
				Required: boolPtr(true),
				Schema:   scalarSchema(string(model.TypeString)),
			})
		}
	}
	for _, p := range req.RequestParameters {
		o.Parameters = addParameter(o.Parameters, &v3.Parameter{
			Name:        p.Name,
			In:          "query",
			Description: p.Description,
			Required:    boolPtr(!p.Optional),
			Schema:      scalarSchema(p.Type),
		})
	}
	for _, h := range req.Headers {
		if reservedHeader(h.Name) {
			continue
		}
		o.Parameters = addParameter(o.Parameters, &v3.Parameter{
			Name:        h.Name,
			In:          "header",
			Description: h.Description,
			Required:    boolPtr(!h.Optional),
			Schema:      scalarSchema(h.Type),
			Example:     exampleNode("", h.Example),
		})
	}
}

func (b *builder) addSecurity(o *v3.Operation, req *model.SecurityRequirements) {
	name, scopes := b.security.add(req)
	for _, existing := range o.Security {
		if _, ok := existing.Requirements.Get(name); ok {
			return
		}
	}
	requirements := orderedmap.New[string, []string]()
	requirements.Set(name, scopes)
	o.Security = append(o.Security, &base.SecurityRequirement{Requirements: requirements})
}

func (b *builder) addRequestBody(o *v3.Operation, r *model.Resource) error {
	req := r.Request
	if req.ContentType == "" || (len(req.JSONSchema) == 0 && len(req.RequestParts) == 0) {
		return nil
	}

	contentType := mediaKey(req.ContentType)
	if o.RequestBody == nil {
		o.RequestBody = &v3.RequestBody{
			Required: boolPtr(true),
			Content:  orderedmap.New[string, *v3.MediaType](),
		}
	}
	if _, ok := o.RequestBody.Content.Get(contentType); ok {
		return nil
	}

	var schema *base.SchemaProxy
	var err error
	if len(req.RequestParts) > 0 {
		schema, err = b.multipartSchema(req.RequestParts)
	} else {
		schema, err = b.bodySchema(r.OperationID, "Request", req.Schema, req.JSONSchema)
	}
	if err != nil {
		return fmt.Errorf("request schema: %w", err)
	}

	media := &v3.MediaType{Schema: schema}
	if len(req.RequestParts) == 0 {
		media.Example = exampleNode(contentType, req.Example)
	}
	o.RequestBody.Content.Set(contentType, media)
	return nil
}

func (b *builder) addResponse(o *v3.Operation, r *model.Resource) error {
	resp := r.Response
	code := fmt.Sprintf("%d", resp.Status)

	out, ok := o.Responses.Codes.Get(code)
	if !ok {
		out = &v3.Response{Description: responseDescription(r)}
		o.Responses.Codes.Set(code, out)
	}

	for _, h := range resp.Headers {
		if out.Headers == nil {
			out.Headers = orderedmap.New[string, *v3.Header]()
		}
		if _, exists := out.Headers.Get(h.Name); exists {
			continue
		}
		out.Headers.Set(h.Name, &v3.Header{
			Description: h.Description,
			Required:    !h.Optional,
			Schema:      scalarSchema(h.Type),
			Example:     exampleNode("", h.Example),
		})
	}

	if resp.ContentType == "" || len(resp.JSONSchema) == 0 {
		return nil
	}
	contentType := mediaKey(resp.ContentType)
	if out.Content == nil {
		out.Content = orderedmap.New[string, *v3.MediaType]()
	}
	if _, exists := out.Content.Get(contentType); exists {
		return nil
	}

	schema, err := b.bodySchema(r.OperationID, "Response", resp.Schema, resp.JSONSchema)
	if err != nil {
		return fmt.Errorf("response schema: %w", err)
	}
	out.Content.Set(contentType, &v3.MediaType{
		Schema:  schema,
		Example: exampleNode(contentType, resp.Example),
	})
	return nil
}

// bodySchema inlines the schema or, when it is named or extraction is
// enabled, stores it under components/schemas and returns a reference.
func (b *builder) bodySchema(operationID, suffix string, ref *model.SchemaRef, raw []byte) (*base.SchemaProxy, error) {
	s, err := SchemaFromJSON(raw)
	if err != nil {
		return nil, err
	}
	if ref == nil && !b.opts.ExtractSchemas {
		return base.CreateSchemaProxy(s), nil
	}

	name := naming.SchemaName(operationID, suffix)
	if ref != nil && ref.Name != "" {
		name = ref.Name
	}
	if existing, ok := b.schemaJSON[name]; ok && existing == string(raw) {
		return base.CreateSchemaProxyRef(componentRef(name)), nil
	}
	name = naming.Unique(name, b.taken)
	b.schemaJSON[name] = string(raw)
	b.schemas.Set(name, base.CreateSchemaProxy(s))
	return base.CreateSchemaProxyRef(componentRef(name)), nil
}

func (b *builder) multipartSchema(parts []model.RequestPartModel) (*base.SchemaProxy, error) {
	s := &base.Schema{
		Type:       []string{string(model.TypeObject)},
		Properties: orderedmap.New[string, *base.SchemaProxy](),
	}
	for _, p := range parts {
		var part *base.Schema
		if len(p.RequestFields) == 0 || len(p.JSONSchema) == 0 {
			part = binarySchema(p.Description)
		} else {
			var err error
			part, err = SchemaFromJSON(p.JSONSchema)
			if err != nil {
				return nil, fmt.Errorf("part %q: %w", p.PartName, err)
			}
			if part.Description == "" {
				part.Description = p.Description
			}
		}
		s.Properties.Set(p.PartName, base.CreateSchemaProxy(part))
		s.Required = appendUnique(s.Required, p.PartName)
	}
	return base.CreateSchemaProxy(s), nil
}

func componentRef(name string) string {
	return "#/components/schemas/" + name
}

func operation(item *v3.PathItem, method string) **v3.Operation {
	switch strings.ToUpper(method) {
	case http.MethodGet:
		return &item.Get
	case http.MethodPost:
		return &item.Post
	case http.MethodPut:
		return &item.Put
	case http.MethodDelete:
		return &item.Delete
	case http.MethodPatch:
		return &item.Patch
	case http.MethodHead:
		return &item.Head
	case http.MethodOptions:
		return &item.Options
	case http.MethodTrace:
		return &item.Trace
	}
	return nil
}

func addParameter(params []*v3.Parameter, p *v3.Parameter) []*v3.Parameter {
	for _, existing := range params {
		if existing.In == p.In && strings.EqualFold(existing.Name, p.Name) {
			return params
		}
	}
	return append(params, p)
}

// reservedHeader reports headers OpenAPI describes outside of parameters.
func reservedHeader(name string) bool {
	switch http.CanonicalHeaderKey(name) {
	case "Accept", "Content-Type", "Authorization":
		return true
	}
	return false
}

// normalizePath drops variable patterns: /files/{id:[0-9]+} becomes /files/{id}.
func normalizePath(path string) string {
	if path == "" {
		return "/"
	}
	var b strings.Builder
	depth := 0
	skipping := false
	for _, r := range path {
		switch {
		case r == '{':
			depth++
			if depth == 1 {
				skipping = false
			}
		case r == '}':
			depth--
			if depth == 0 {
				skipping = false
				b.WriteRune(r)
				continue
			}
		case r == ':' && depth == 1:
			skipping = true
		}
		if !skipping {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func pathVariables(path string) []string {
	tmpl, err := resource.DefaultResolver{}.Resolve(path)
	if err != nil {
		return nil
	}
	return tmpl.Variables
}

func mediaKey(contentType string) string {
	if mt, _, _ := strings.Cut(contentType, ";"); strings.EqualFold(strings.TrimSpace(mt), resource.ContentTypeMultipart) {
		return resource.ContentTypeMultipart
	}
	return contentType
}

func responseDescription(r *model.Resource) string {
	if text := http.StatusText(r.Response.Status); text != "" {
		return text
	}
	return "Response"
}

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}

func boolPtr(b bool) *bool {
	return &b
}
