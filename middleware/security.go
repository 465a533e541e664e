package middleware

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kolah/apispec/internal/model"
)

// SecurityExtractor derives the security requirements of a captured request
// from its Authorization or API key header.
type SecurityExtractor struct {
	// APIKeyHeader is the header carrying an API key, e.g. "X-API-Key".
	APIKeyHeader string
}

// Extract implements resource.SecurityExtractor.
func (e SecurityExtractor) Extract(req model.Request) *model.SecurityRequirements {
	if token := ExtractBearerToken(req.Headers); token != "" {
		if scopes, ok := jwtScopes(token); ok {
			return &model.SecurityRequirements{Type: model.SecurityOAuth2, RequiredScopes: scopes}
		}
		return &model.SecurityRequirements{Type: model.SecurityJWTBearer}
	}
	if _, _, ok := ExtractBasicAuth(req.Headers); ok {
		return &model.SecurityRequirements{Type: model.SecurityBasic}
	}
	if e.APIKeyHeader != "" && ExtractAPIKey(req.Headers, e.APIKeyHeader) != "" {
		return &model.SecurityRequirements{Type: model.SecurityAPIKey, HeaderName: e.APIKeyHeader}
	}
	return nil
}

// ExtractBearerToken extracts the bearer token from the Authorization header.
func ExtractBearerToken(h http.Header) string {
	auth := h.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return auth[7:]
	}
	return ""
}

// ExtractBasicAuth extracts username and password from Basic auth header.
func ExtractBasicAuth(h http.Header) (username, password string, ok bool) {
	auth := h.Get("Authorization")
	if len(auth) > 6 && strings.EqualFold(auth[:6], "Basic ") {
		payload, err := base64.StdEncoding.DecodeString(auth[6:])
		if err != nil {
			return "", "", false
		}
		username, password, ok = strings.Cut(string(payload), ":")
		if !ok {
			return "", "", false
		}
		return username, password, true
	}
	return "", "", false
}

// ExtractAPIKey extracts an API key from the named header.
func ExtractAPIKey(h http.Header, name string) string {
	return h.Get(name)
}

// jwtScopes reads the scope claim of an unverified JWT. The claim may be a
// space separated string ("scope") or a list ("scp").
func jwtScopes(token string) ([]string, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}

	for _, name := range []string{"scope", "scp"} {
		switch v := claims[name].(type) {
		case string:
			return strings.Fields(v), true
		case []any:
			scopes := make([]string, 0, len(v))
			for _, item := range v {
				if s, ok := item.(string); ok {
					scopes = append(scopes, s)
				}
			}
			return scopes, true
		}
	}
	return nil, false
}
