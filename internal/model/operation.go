package model

import "net/http"

type HeaderDescriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Optional    bool   `json:"optional"`
	Ignored     bool   `json:"ignored"`
	Example     string `json:"example,omitempty"`
}

type ParameterDescriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Optional    bool   `json:"optional"`
	Ignored     bool   `json:"ignored"`
}

type SecurityType string

const (
	SecurityOAuth2    SecurityType = "OAUTH2"
	SecurityBasic     SecurityType = "BASIC"
	SecurityAPIKey    SecurityType = "API_KEY"
	SecurityJWTBearer SecurityType = "JWT_BEARER"
)

// SecurityRequirements describes how a captured request authenticated.
type SecurityRequirements struct {
	Type           SecurityType `json:"type"`
	RequiredScopes []string     `json:"requiredScopes,omitempty"`
	HeaderName     string       `json:"headerName,omitempty"`
}

// RequestObject is the documented request model of an operation.
// The variants are BodyRequest and MultipartRequest; a nil RequestObject
// documents a request without a body.
type RequestObject interface {
	requestObject()
}

// BodyRequest documents a single request payload.
type BodyRequest struct {
	Schema *SchemaRef
	Fields []FieldDescriptor
}

// MultipartRequest documents a multipart/form-data request part by part.
type MultipartRequest struct {
	Parts []RequestPart
}

func (BodyRequest) requestObject()      {}
func (MultipartRequest) requestObject() {}

// Variant returns r as one of nil, BodyRequest or MultipartRequest.
// Pointers to either variant are dereferenced; a nil pointer documents a
// request without a body.
func Variant(r RequestObject) RequestObject {
	switch v := r.(type) {
	case *BodyRequest:
		if v == nil {
			return nil
		}
		return *v
	case *MultipartRequest:
		if v == nil {
			return nil
		}
		return *v
	}
	return r
}

// RequestPart documents one named part of a multipart request.
type RequestPart struct {
	Name        string
	Description string
	Schema      *SchemaRef
	Fields      []FieldDescriptor
}

// Part returns the documented part with the given name.
func (m MultipartRequest) Part(name string) (RequestPart, bool) {
	for _, p := range m.Parts {
		if p.Name == name {
			return p, true
		}
	}
	return RequestPart{}, false
}

// Parameters is everything a caller documents about one operation.
type Parameters struct {
	Summary           string
	Description       string
	PrivateResource   bool
	Deprecated        bool
	Tags              []string
	RequestHeaders    []HeaderDescriptor
	ResponseHeaders   []HeaderDescriptor
	PathParameters    []ParameterDescriptor
	RequestParameters []ParameterDescriptor
	Request           RequestObject
	ResponseFields    []FieldDescriptor
	ResponseSchema    *SchemaRef
}

// Exchange is one captured HTTP request/response pair.
type Exchange struct {
	// Name is the operation name; it may contain {placeholder} references.
	Name        string
	URLTemplate string
	Request     Request
	Response    Response
}

type Request struct {
	Method  string
	URI     string
	Headers http.Header
	Body    []byte
	Parts   []Part
}

type Part struct {
	Name     string
	Filename string
	Headers  http.Header
	Body     []byte
}

type Response struct {
	Status  int
	Headers http.Header
	Body    []byte
}

// Snippet pairs a captured exchange with its documentation.
type Snippet struct {
	Exchange     Exchange
	Parameters   Parameters
	Placeholders map[string]string
}
