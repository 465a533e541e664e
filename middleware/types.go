package middleware

import (
	"github.com/kolah/apispec/internal/model"
	"github.com/kolah/apispec/internal/resource"
)

// Documentation accepted by Recorder.Describe.
type (
	Parameters          = model.Parameters
	HeaderDescriptor    = model.HeaderDescriptor
	ParameterDescriptor = model.ParameterDescriptor
	FieldDescriptor     = model.FieldDescriptor
	SchemaRef           = model.SchemaRef

	// RequestObject is nil, a BodyRequest or a MultipartRequest.
	RequestObject    = model.RequestObject
	BodyRequest      = model.BodyRequest
	MultipartRequest = model.MultipartRequest
	RequestPart      = model.RequestPart
)

// Recorded exchanges and the documents assembled from them.
type (
	Snippet              = model.Snippet
	Exchange             = model.Exchange
	Resource             = model.Resource
	SecurityType         = model.SecurityType
	SecurityRequirements = model.SecurityRequirements
	ResourceOptions      = resource.Options
)

const (
	SecurityOAuth2    = model.SecurityOAuth2
	SecurityBasic     = model.SecurityBasic
	SecurityAPIKey    = model.SecurityAPIKey
	SecurityJWTBearer = model.SecurityJWTBearer
)
