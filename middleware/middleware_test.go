package middleware

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

const testSpec = `
openapi: "3.0.1"
info:
  title: Test API
  version: "1.0"
paths:
  /pets:
    get:
      operationId: listPets
      responses:
        "200":
          description: OK
    post:
      operationId: createPet
      requestBody:
        required: true
        content:
          application/json:
            schema:
              type: object
              required:
                - name
              properties:
                name:
                  type: string
      responses:
        "201":
          description: Created
  /pets/{id}:
    get:
      operationId: getPet
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
      responses:
        "200":
          description: OK
          content:
            application/json:
              schema:
                type: object
                required:
                  - name
                properties:
                  name:
                    type: string
`

func TestNew(t *testing.T) {
	mw, err := New(testSpec, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if mw == nil {
		t.Fatal("New() returned nil middleware")
	}
}

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "openapi.yaml")
	if err := os.WriteFile(path, []byte(testSpec), 0o644); err != nil {
		t.Fatal(err)
	}
	mw, err := NewFromFile(path, nil)
	if err != nil {
		t.Fatalf("NewFromFile() error = %v", err)
	}
	if mw == nil {
		t.Fatal("NewFromFile() returned nil middleware")
	}

	if _, err := NewFromFile(filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Error("NewFromFile() should fail for a missing file")
	}
}

func TestMiddleware_RequestValidation(t *testing.T) {
	mw, err := New(testSpec, &Options{ValidateRequest: true})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	t.Run("missing required field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/pets", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), "validation_error") {
			t.Errorf("expected validation_error body, got %s", rec.Body.String())
		}
	})

	t.Run("valid request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/pets", strings.NewReader(`{"name":"Fluffy"}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Errorf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}

func TestMiddleware_CustomErrorHandler(t *testing.T) {
	var got error
	mw, err := New(testSpec, &Options{
		ValidateRequest: true,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			got = err
			w.WriteHeader(http.StatusTeapot)
		},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/pets", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mw.Handler(http.NotFoundHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Errorf("expected status 418, got %d", rec.Code)
	}
	verr, ok := got.(*ValidationError)
	if !ok || len(verr.Errors) == 0 {
		t.Fatalf("expected *ValidationError with details, got %#v", got)
	}
}

func TestMiddleware_ResponseValidation(t *testing.T) {
	var (
		mu     sync.Mutex
		errors []*ValidationError
	)
	opts := DefaultOptions()
	opts.OnResponseError = func(r *http.Request, err *ValidationError) {
		mu.Lock()
		defer mu.Unlock()
		errors = append(errors, err)
	}

	mw, err := New(testSpec, opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	serve := func(body string) *httptest.ResponseRecorder {
		handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(body))
		}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pets/1", nil))
		return rec
	}

	if rec := serve(`{"name":"Rex"}`); rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if len(errors) != 0 {
		t.Fatalf("expected no response errors, got %d", len(errors))
	}

	rec := serve(`{"name":5}`)
	if rec.Body.String() != `{"name":5}` {
		t.Errorf("response body altered: %s", rec.Body.String())
	}
	if len(errors) != 1 {
		t.Fatalf("expected one response error, got %d", len(errors))
	}
	if errors[0].StatusCode != http.StatusOK {
		t.Errorf("expected status 200 in error, got %d", errors[0].StatusCode)
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{"valid bearer", "Bearer token123", "token123"},
		{"lowercase bearer", "bearer token123", "token123"},
		{"no bearer prefix", "token123", ""},
		{"empty header", "", ""},
		{"basic auth", "Basic dXNlcjpwYXNz", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.header != "" {
				h.Set("Authorization", tt.header)
			}
			got := ExtractBearerToken(h)
			if got != tt.expected {
				t.Errorf("ExtractBearerToken() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestExtractBasicAuth(t *testing.T) {
	t.Run("valid basic auth", func(t *testing.T) {
		h := http.Header{}
		h.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("user:pa:ss")))
		username, password, ok := ExtractBasicAuth(h)
		if !ok {
			t.Error("ExtractBasicAuth() returned false")
		}
		if username != "user" || password != "pa:ss" {
			t.Errorf("ExtractBasicAuth() = %q, %q, want user, pa:ss", username, password)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		_, _, ok := ExtractBasicAuth(http.Header{})
		if ok {
			t.Error("ExtractBasicAuth() should return false for missing header")
		}
	})

	t.Run("invalid base64", func(t *testing.T) {
		h := http.Header{}
		h.Set("Authorization", "Basic not-base64!")
		_, _, ok := ExtractBasicAuth(h)
		if ok {
			t.Error("ExtractBasicAuth() should return false for invalid base64")
		}
	})
}
