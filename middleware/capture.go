package middleware

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/kolah/apispec/internal/model"
)

// responseCapture tees the response into a buffer.
type responseCapture struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func newResponseCapture(w http.ResponseWriter) *responseCapture {
	return &responseCapture{ResponseWriter: w, status: http.StatusOK}
}

func (c *responseCapture) WriteHeader(code int) {
	if !c.wroteHeader {
		c.status = code
		c.wroteHeader = true
	}
	c.ResponseWriter.WriteHeader(code)
}

func (c *responseCapture) Write(b []byte) (int, error) {
	if !c.wroteHeader {
		c.WriteHeader(http.StatusOK)
	}
	c.body.Write(b)
	return c.ResponseWriter.Write(b)
}

func (c *responseCapture) Unwrap() http.ResponseWriter {
	return c.ResponseWriter
}

func (c *responseCapture) response() model.Response {
	return model.Response{
		Status:  c.status,
		Headers: c.Header().Clone(),
		Body:    bytes.Clone(c.body.Bytes()),
	}
}

// captureRequest reads the request body and puts it back so the next
// handler can read it again.
func captureRequest(r *http.Request) (model.Request, error) {
	req := model.Request{
		Method:  r.Method,
		URI:     requestURI(r),
		Headers: r.Header.Clone(),
	}
	if r.Body == nil || r.Body == http.NoBody {
		return req, nil
	}

	body, err := io.ReadAll(r.Body)
	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return req, fmt.Errorf("reading request body: %w", err)
	}
	if len(body) == 0 {
		return req, nil
	}

	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err == nil && mediaType == "multipart/form-data" {
		parts, err := readParts(body, params["boundary"])
		if err != nil {
			return req, err
		}
		req.Parts = parts
		return req, nil
	}

	req.Body = body
	return req, nil
}

func readParts(body []byte, boundary string) ([]model.Part, error) {
	if boundary == "" {
		return nil, errors.New("multipart request without boundary")
	}
	mr := multipart.NewReader(bytes.NewReader(body), boundary)
	var parts []model.Part
	for {
		p, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return parts, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading multipart request: %w", err)
		}
		content, err := io.ReadAll(p)
		if err != nil {
			return nil, fmt.Errorf("reading part %q: %w", p.FormName(), err)
		}
		parts = append(parts, model.Part{
			Name:     p.FormName(),
			Filename: p.FileName(),
			Headers:  http.Header(p.Header),
			Body:     content,
		})
	}
}

func requestURI(r *http.Request) string {
	if r.URL.IsAbs() {
		return r.URL.String()
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	host := r.Host
	if host == "" {
		return r.URL.RequestURI()
	}
	return scheme + "://" + host + strings.TrimPrefix(r.URL.RequestURI(), "*")
}
