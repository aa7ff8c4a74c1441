package views

import (
	"net/http"
)

// Result is a finished render: body bytes plus the content type and status
// code they should be written with. Immutable once produced.
type Result struct {
	Body        []byte
	ContentType string
	Status      int
}

// renderConfig collects per-render inputs.
type renderConfig struct {
	model       any
	data        Data
	validation  ValidationState
	contentType string
	status      int
}

// RenderOption configures a single Render call.
type RenderOption func(*renderConfig)

// WithModel sets the typed model the template renders. The model is
// read-only to the pipeline.
func WithModel(m any) RenderOption {
	return func(c *renderConfig) {
		c.model = m
	}
}

// WithData merges entries into the view-data bag. Later calls win on
// duplicate keys; user keys are never dropped by the pipeline itself.
func WithData(d Data) RenderOption {
	return func(c *renderConfig) {
		if c.data == nil {
			c.data = make(Data, len(d))
		}
		for k, v := range d {
			c.data[k] = v
		}
	}
}

// WithValue sets a single view-data entry.
func WithValue(key string, v any) RenderOption {
	return func(c *renderConfig) {
		if c.data == nil {
			c.data = Data{}
		}
		c.data[key] = v
	}
}

// WithValidation sets the validation state exposed to the template under
// the reserved Errors lookup. It never touches user-supplied data keys.
func WithValidation(state ValidationState) RenderOption {
	return func(c *renderConfig) {
		c.validation = state
	}
}

// WithContentType overrides the response content type.
// Defaults to "text/html; charset=utf-8".
func WithContentType(ct string) RenderOption {
	return func(c *renderConfig) {
		if ct != "" {
			c.contentType = ct
		}
	}
}

// WithStatus overrides the response status code. Defaults to 200.
func WithStatus(code int) RenderOption {
	return func(c *renderConfig) {
		if code > 0 {
			c.status = code
		}
	}
}

// startTracker is implemented by response writers that know whether the
// response has already been written. internal.ResponseWriter satisfies it.
type startTracker interface {
	Written() bool
}

// WriteResult writes a Result to the response: content type once, status
// before body, body bytes last. If the writer reports a started response,
// it fails with ErrResponseStarted instead of corrupting output.
func WriteResult(w http.ResponseWriter, res *Result) error {
	if st, ok := w.(startTracker); ok && st.Written() {
		return ErrResponseStarted
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.WriteHeader(res.Status)
	_, err := w.Write(res.Body)
	return err
}
