package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/kolah/apispec/internal/model"
)

// Request model kinds in capture files.
const (
	KindBody      = "body"
	KindMultipart = "multipart"
)

type snippetFile struct {
	Operation     string            `yaml:"operation"`
	URLTemplate   string            `yaml:"urlTemplate"`
	Placeholders  map[string]string `yaml:"placeholders,omitempty"`
	Documentation documentation     `yaml:"documentation"`
	Request       requestFile       `yaml:"request"`
	Response      responseFile      `yaml:"response"`
}

type documentation struct {
	Summary           string       `yaml:"summary,omitempty"`
	Description       string       `yaml:"description,omitempty"`
	PrivateResource   bool         `yaml:"privateResource,omitempty"`
	Deprecated        bool         `yaml:"deprecated,omitempty"`
	Tags              []string     `yaml:"tags,omitempty"`
	RequestHeaders    []header     `yaml:"requestHeaders,omitempty"`
	ResponseHeaders   []header     `yaml:"responseHeaders,omitempty"`
	PathParameters    []parameter  `yaml:"pathParameters,omitempty"`
	RequestParameters []parameter  `yaml:"requestParameters,omitempty"`
	Request           *requestDoc  `yaml:"request,omitempty"`
	ResponseSchema    string       `yaml:"responseSchema,omitempty"`
	ResponseFields    []fieldEntry `yaml:"responseFields,omitempty"`
}

type header struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Type        string `yaml:"type,omitempty"`
	Optional    bool   `yaml:"optional,omitempty"`
	Ignored     bool   `yaml:"ignored,omitempty"`
	Example     string `yaml:"example,omitempty"`
}

type parameter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Type        string `yaml:"type,omitempty"`
	Optional    bool   `yaml:"optional,omitempty"`
	Ignored     bool   `yaml:"ignored,omitempty"`
}

type fieldEntry struct {
	Path        string `yaml:"path"`
	Type        string `yaml:"type"`
	Description string `yaml:"description,omitempty"`
	Optional    bool   `yaml:"optional,omitempty"`
	Ignored     bool   `yaml:"ignored,omitempty"`
}

type requestDoc struct {
	Kind   string       `yaml:"kind"`
	Schema string       `yaml:"schema,omitempty"`
	Fields []fieldEntry `yaml:"fields,omitempty"`
	Parts  []partDoc    `yaml:"parts,omitempty"`
}

type partDoc struct {
	Name        string       `yaml:"name"`
	Description string       `yaml:"description,omitempty"`
	Schema      string       `yaml:"schema,omitempty"`
	Fields      []fieldEntry `yaml:"fields,omitempty"`
}

type requestFile struct {
	Method  string     `yaml:"method"`
	URI     string     `yaml:"uri"`
	Headers headers    `yaml:"headers,omitempty"`
	Body    string     `yaml:"body,omitempty"`
	Parts   []partFile `yaml:"parts,omitempty"`
}

type partFile struct {
	Name     string  `yaml:"name"`
	Filename string  `yaml:"filename,omitempty"`
	Headers  headers `yaml:"headers,omitempty"`
	Body     string  `yaml:"body,omitempty"`
}

type responseFile struct {
	Status  int     `yaml:"status"`
	Headers headers `yaml:"headers,omitempty"`
	Body    string  `yaml:"body,omitempty"`
}

// headers accepts a single value or a list of values per header name.
type headers map[string][]string

func (h *headers) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: headers must be a mapping", node.Line)
	}
	out := make(headers, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name, value := node.Content[i].Value, node.Content[i+1]
		switch value.Kind {
		case yaml.ScalarNode:
			out[name] = append(out[name], value.Value)
		case yaml.SequenceNode:
			var values []string
			if err := value.Decode(&values); err != nil {
				return fmt.Errorf("header %q: %w", name, err)
			}
			out[name] = append(out[name], values...)
		default:
			return fmt.Errorf("line %d: header %q must be a string or a list", value.Line, name)
		}
	}
	*h = out
	return nil
}

func (h headers) toHTTP() http.Header {
	if len(h) == 0 {
		return nil
	}
	out := make(http.Header, len(h))
	for k, v := range h {
		for _, value := range v {
			out.Add(k, value)
		}
	}
	return out
}

func fromHTTP(h http.Header) headers {
	if len(h) == 0 {
		return nil
	}
	out := make(headers, len(h))
	for k, v := range h {
		out[k] = slices.Clone(v)
	}
	return out
}

// LoadSnippets reads every capture file under path. A file may hold several
// YAML documents, one per captured operation.
func LoadSnippets(path string) ([]model.Snippet, error) {
	files, err := captureFiles(path)
	if err != nil {
		return nil, err
	}

	var snippets []model.Snippet
	for _, f := range files {
		loaded, err := loadSnippetFile(f)
		if err != nil {
			return nil, err
		}
		snippets = append(snippets, loaded...)
	}
	return snippets, nil
}

func captureFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading captures: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(p)) {
		case ".yaml", ".yml":
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking captures: %w", err)
	}
	return files, nil
}

func loadSnippetFile(path string) ([]model.Snippet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening capture file: %w", err)
	}
	defer f.Close()

	snippets, err := DecodeSnippets(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return snippets, nil
}

// DecodeSnippets decodes a stream of capture documents.
func DecodeSnippets(r io.Reader) ([]model.Snippet, error) {
	dec := yaml.NewDecoder(r)
	var snippets []model.Snippet
	for i := 1; ; i++ {
		var sf snippetFile
		err := dec.Decode(&sf)
		if errors.Is(err, io.EOF) {
			return snippets, nil
		}
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		s, err := sf.snippet()
		if err != nil {
			return nil, fmt.Errorf("document %d (%s): %w", i, sf.Operation, err)
		}
		snippets = append(snippets, s)
	}
}

// EncodeSnippets writes snippets in the capture file format.
func EncodeSnippets(w io.Writer, snippets []model.Snippet) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for _, s := range snippets {
		sf, err := toSnippetFile(s)
		if err != nil {
			return err
		}
		if err := enc.Encode(sf); err != nil {
			return fmt.Errorf("encoding %s: %w", s.Exchange.Name, err)
		}
	}
	return enc.Close()
}

func (sf snippetFile) snippet() (model.Snippet, error) {
	if sf.Operation == "" {
		return model.Snippet{}, errors.New("missing operation name")
	}

	req, err := sf.Documentation.requestObject()
	if err != nil {
		return model.Snippet{}, err
	}

	var parts []model.Part
	for _, p := range sf.Request.Parts {
		parts = append(parts, model.Part{
			Name:     p.Name,
			Filename: p.Filename,
			Headers:  p.Headers.toHTTP(),
			Body:     content(p.Body),
		})
	}

	d := sf.Documentation
	return model.Snippet{
		Exchange: model.Exchange{
			Name:        sf.Operation,
			URLTemplate: sf.URLTemplate,
			Request: model.Request{
				Method:  sf.Request.Method,
				URI:     sf.Request.URI,
				Headers: sf.Request.Headers.toHTTP(),
				Body:    content(sf.Request.Body),
				Parts:   parts,
			},
			Response: model.Response{
				Status:  sf.Response.Status,
				Headers: sf.Response.Headers.toHTTP(),
				Body:    content(sf.Response.Body),
			},
		},
		Parameters: model.Parameters{
			Summary:           d.Summary,
			Description:       d.Description,
			PrivateResource:   d.PrivateResource,
			Deprecated:        d.Deprecated,
			Tags:              d.Tags,
			RequestHeaders:    toHeaders(d.RequestHeaders),
			ResponseHeaders:   toHeaders(d.ResponseHeaders),
			PathParameters:    toParameters(d.PathParameters),
			RequestParameters: toParameters(d.RequestParameters),
			Request:           req,
			ResponseFields:    toFields(d.ResponseFields),
			ResponseSchema:    schemaRef(d.ResponseSchema),
		},
		Placeholders: sf.Placeholders,
	}, nil
}

func (d documentation) requestObject() (model.RequestObject, error) {
	if d.Request == nil {
		return nil, nil
	}
	switch d.Request.Kind {
	case KindBody, "":
		if len(d.Request.Parts) > 0 {
			return nil, errors.New("body request documents parts")
		}
		return model.BodyRequest{
			Schema: schemaRef(d.Request.Schema),
			Fields: toFields(d.Request.Fields),
		}, nil
	case KindMultipart:
		if len(d.Request.Fields) > 0 {
			return nil, errors.New("multipart request documents fields outside a part")
		}
		parts := make([]model.RequestPart, 0, len(d.Request.Parts))
		for _, p := range d.Request.Parts {
			parts = append(parts, model.RequestPart{
				Name:        p.Name,
				Description: p.Description,
				Schema:      schemaRef(p.Schema),
				Fields:      toFields(p.Fields),
			})
		}
		return model.MultipartRequest{Parts: parts}, nil
	default:
		return nil, fmt.Errorf("unknown request kind %q", d.Request.Kind)
	}
}

func toSnippetFile(s model.Snippet) (snippetFile, error) {
	ex, p := s.Exchange, s.Parameters

	d := documentation{
		Summary:           p.Summary,
		Description:       p.Description,
		PrivateResource:   p.PrivateResource,
		Deprecated:        p.Deprecated,
		Tags:              p.Tags,
		RequestHeaders:    fromHeaders(p.RequestHeaders),
		ResponseHeaders:   fromHeaders(p.ResponseHeaders),
		PathParameters:    fromParameters(p.PathParameters),
		RequestParameters: fromParameters(p.RequestParameters),
		ResponseSchema:    schemaName(p.ResponseSchema),
		ResponseFields:    fromFields(p.ResponseFields),
	}
	switch r := model.Variant(p.Request).(type) {
	case nil:
	case model.BodyRequest:
		d.Request = &requestDoc{Kind: KindBody, Schema: schemaName(r.Schema), Fields: fromFields(r.Fields)}
	case model.MultipartRequest:
		d.Request = &requestDoc{Kind: KindMultipart}
		for _, part := range r.Parts {
			d.Request.Parts = append(d.Request.Parts, partDoc{
				Name:        part.Name,
				Description: part.Description,
				Schema:      schemaName(part.Schema),
				Fields:      fromFields(part.Fields),
			})
		}
	default:
		return snippetFile{}, fmt.Errorf("%s: unsupported request model %T", ex.Name, r)
	}

	var parts []partFile
	for _, part := range ex.Request.Parts {
		parts = append(parts, partFile{
			Name:     part.Name,
			Filename: part.Filename,
			Headers:  fromHTTP(part.Headers),
			Body:     string(part.Body),
		})
	}

	return snippetFile{
		Operation:     ex.Name,
		URLTemplate:   ex.URLTemplate,
		Placeholders:  s.Placeholders,
		Documentation: d,
		Request: requestFile{
			Method:  ex.Request.Method,
			URI:     ex.Request.URI,
			Headers: fromHTTP(ex.Request.Headers),
			Body:    string(ex.Request.Body),
			Parts:   parts,
		},
		Response: responseFile{
			Status:  ex.Response.Status,
			Headers: fromHTTP(ex.Response.Headers),
			Body:    string(ex.Response.Body),
		},
	}, nil
}

func content(body string) []byte {
	if body == "" {
		return nil
	}
	return []byte(body)
}

func schemaRef(name string) *model.SchemaRef {
	if name == "" {
		return nil
	}
	return &model.SchemaRef{Name: name}
}

func schemaName(ref *model.SchemaRef) string {
	if ref == nil {
		return ""
	}
	return ref.Name
}

func toHeaders(in []header) []model.HeaderDescriptor {
	out := make([]model.HeaderDescriptor, 0, len(in))
	for _, h := range in {
		out = append(out, model.HeaderDescriptor(h))
	}
	return out
}

func fromHeaders(in []model.HeaderDescriptor) []header {
	var out []header
	for _, h := range in {
		out = append(out, header(h))
	}
	return out
}

func toParameters(in []parameter) []model.ParameterDescriptor {
	out := make([]model.ParameterDescriptor, 0, len(in))
	for _, p := range in {
		out = append(out, model.ParameterDescriptor(p))
	}
	return out
}

func fromParameters(in []model.ParameterDescriptor) []parameter {
	var out []parameter
	for _, p := range in {
		out = append(out, parameter(p))
	}
	return out
}

func toFields(in []fieldEntry) []model.FieldDescriptor {
	out := make([]model.FieldDescriptor, 0, len(in))
	for _, f := range in {
		out = append(out, model.FieldDescriptor{
			Path:        f.Path,
			Description: f.Description,
			Type:        f.Type,
			Optional:    f.Optional,
			Ignored:     f.Ignored,
		})
	}
	return out
}

func fromFields(in []model.FieldDescriptor) []fieldEntry {
	var out []fieldEntry
	for _, f := range in {
		out = append(out, fieldEntry{
			Path:        f.Path,
			Type:        f.Type,
			Description: f.Description,
			Optional:    f.Optional,
			Ignored:     f.Ignored,
		})
	}
	return out
}
