package middleware

import (
	"io"
	"net/http"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/kolah/apispec/internal/loader"
	"github.com/kolah/apispec/internal/model"
	"github.com/kolah/apispec/internal/resource"
)

// Recorder captures documented exchanges. Requests without an Operation in
// their context pass through unrecorded. It is safe for concurrent use.
type Recorder struct {
	mu       sync.Mutex
	snippets []model.Snippet
	docs     map[string]model.Parameters
	logger   logrus.FieldLogger
}

// NewRecorder creates a recorder. A nil logger uses the logrus standard logger.
func NewRecorder(logger logrus.FieldLogger) *Recorder {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Recorder{
		docs:   make(map[string]model.Parameters),
		logger: logger,
	}
}

// Describe attaches documentation to every exchange recorded as name.
func (rec *Recorder) Describe(name string, p Parameters) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.docs[name] = p
}

// Handler returns an http.Handler middleware.
func (rec *Recorder) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		op, ok := GetOperation(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		req, err := captureRequest(r)
		if err != nil {
			rec.logger.WithError(err).WithField("operation", op.Name).Warn("request not recorded")
			next.ServeHTTP(w, r)
			return
		}

		capture := newResponseCapture(w)
		next.ServeHTTP(capture, r)

		rec.record(model.Exchange{
			Name:        op.Name,
			URLTemplate: op.URLTemplate,
			Request:     req,
			Response:    capture.response(),
		}, op.Placeholders)
	})
}

func (rec *Recorder) record(ex model.Exchange, placeholders map[string]string) {
	rec.mu.Lock()
	defer rec.mu.Unlock()

	rec.snippets = append(rec.snippets, model.Snippet{Exchange: ex, Placeholders: placeholders})
	rec.logger.WithFields(logrus.Fields{
		"operation": ex.Name,
		"method":    ex.Request.Method,
		"status":    ex.Response.Status,
	}).Debug("recorded exchange")
}

// Snippets returns the recorded exchanges joined with their documentation.
func (rec *Recorder) Snippets() []Snippet {
	rec.mu.Lock()
	defer rec.mu.Unlock()

	out := slices.Clone(rec.snippets)
	for i := range out {
		out[i].Parameters = rec.docs[out[i].Exchange.Name]
	}
	return out
}

// Reset drops everything recorded so far. Documentation is kept.
func (rec *Recorder) Reset() {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.snippets = nil
}

// WriteCaptures writes the recorded snippets in the capture file format
// read by "apispec resource".
func (rec *Recorder) WriteCaptures(w io.Writer) error {
	return loader.EncodeSnippets(w, rec.Snippets())
}

// Resources assembles the recorded snippets directly.
func (rec *Recorder) Resources(opts ResourceOptions) ([]*Resource, error) {
	a := resource.New(opts)
	var out []*Resource
	for _, s := range rec.Snippets() {
		r, err := a.Assemble(s)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}
