package model

import "github.com/goccy/go-json"

// Resource is the per-operation document written as resource.json.
type Resource struct {
	OperationID     string        `json:"operationId"`
	Summary         string        `json:"summary,omitempty"`
	Description     string        `json:"description,omitempty"`
	PrivateResource bool          `json:"privateResource"`
	Deprecated      bool          `json:"deprecated"`
	Request         RequestModel  `json:"request"`
	Response        ResponseModel `json:"response"`
	Tags            []string      `json:"tags"`
}

type RequestModel struct {
	Path                 string                `json:"path"`
	Method               string                `json:"method"`
	ContentType          string                `json:"contentType,omitempty"`
	Headers              []HeaderDescriptor    `json:"headers"`
	PathParameters       []ParameterDescriptor `json:"pathParameters"`
	RequestParameters    []ParameterDescriptor `json:"requestParameters"`
	SecurityRequirements *SecurityRequirements `json:"securityRequirements,omitempty"`
	Schema               *SchemaRef            `json:"schema,omitempty"`
	RequestFields        []FieldDescriptor     `json:"requestFields,omitempty"`
	Example              string                `json:"example,omitempty"`
	JSONSchema           json.RawMessage       `json:"jsonSchema,omitempty"`
	RequestParts         []RequestPartModel    `json:"requestParts,omitempty"`
}

type RequestPartModel struct {
	PartName      string            `json:"partName"`
	Description   string            `json:"description,omitempty"`
	Schema        *SchemaRef        `json:"schema,omitempty"`
	RequestFields []FieldDescriptor `json:"requestFields"`
	Example       string            `json:"example,omitempty"`
	JSONSchema    json.RawMessage   `json:"jsonSchema,omitempty"`
}

type ResponseModel struct {
	Status         int                `json:"status"`
	ContentType    string             `json:"contentType,omitempty"`
	Schema         *SchemaRef         `json:"schema,omitempty"`
	Headers        []HeaderDescriptor `json:"headers"`
	ResponseFields []FieldDescriptor  `json:"responseFields"`
	Example        string             `json:"example,omitempty"`
	JSONSchema     json.RawMessage    `json:"jsonSchema,omitempty"`
}
