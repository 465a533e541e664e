package openapi

import (
	"sort"

	v3 "github.com/pb33f/libopenapi/datamodel/high/v3"
	"github.com/pb33f/libopenapi/orderedmap"

	"github.com/kolah/apispec/internal/model"
	"github.com/kolah/apispec/internal/naming"
)

// DefaultOAuth2TokenURL is used for oauth2 schemes when none is configured.
const DefaultOAuth2TokenURL = "/oauth/token"

type scheme struct {
	requirement model.SecurityRequirements
	scopes      map[string]bool
}

// securitySchemes collects the schemes operations refer to, in first-use order.
type securitySchemes struct {
	tokenURL string
	names    []string
	byKey    map[string]string
	byName   map[string]*scheme
	taken    map[string]bool
}

func newSecuritySchemes(tokenURL string) *securitySchemes {
	if tokenURL == "" {
		tokenURL = DefaultOAuth2TokenURL
	}
	return &securitySchemes{
		tokenURL: tokenURL,
		byKey:    make(map[string]string),
		byName:   make(map[string]*scheme),
		taken:    make(map[string]bool),
	}
}

// add registers a requirement and returns its scheme name and the scopes
// the operation needs.
func (s *securitySchemes) add(req *model.SecurityRequirements) (string, []string) {
	key := string(req.Type)
	if req.Type == model.SecurityAPIKey {
		key += ":" + req.HeaderName
	}

	name, ok := s.byKey[key]
	if !ok {
		name = naming.Unique(naming.CamelCase(string(req.Type)), s.taken)
		s.byKey[key] = name
		s.byName[name] = &scheme{requirement: *req, scopes: make(map[string]bool)}
		s.names = append(s.names, name)
	}

	scopes := []string{}
	if req.Type == model.SecurityOAuth2 {
		for _, scope := range req.RequiredScopes {
			s.byName[name].scopes[scope] = true
			scopes = append(scopes, scope)
		}
	}
	return name, scopes
}

func (s *securitySchemes) schemes() *orderedmap.Map[string, *v3.SecurityScheme] {
	out := orderedmap.New[string, *v3.SecurityScheme]()
	for _, name := range s.names {
		out.Set(name, s.scheme(s.byName[name]))
	}
	return out
}

func (s *securitySchemes) scheme(sc *scheme) *v3.SecurityScheme {
	switch sc.requirement.Type {
	case model.SecurityBasic:
		return &v3.SecurityScheme{Type: "http", Scheme: "basic"}
	case model.SecurityJWTBearer:
		return &v3.SecurityScheme{Type: "http", Scheme: "bearer", BearerFormat: "JWT"}
	case model.SecurityAPIKey:
		return &v3.SecurityScheme{Type: "apiKey", In: "header", Name: sc.requirement.HeaderName}
	default:
		scopes := make([]string, 0, len(sc.scopes))
		for scope := range sc.scopes {
			scopes = append(scopes, scope)
		}
		sort.Strings(scopes)

		described := orderedmap.New[string, string]()
		for _, scope := range scopes {
			described.Set(scope, "")
		}
		return &v3.SecurityScheme{
			Type: "oauth2",
			Flows: &v3.OAuthFlows{
				ClientCredentials: &v3.OAuthFlow{
					TokenUrl: s.tokenURL,
					Scopes:   described,
				},
			},
		}
	}
}
