package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/anvilhq/anvil/pkg/binder"
	"github.com/anvilhq/anvil/pkg/cookie"
	"github.com/anvilhq/anvil/pkg/sanitizer"
	"github.com/anvilhq/anvil/pkg/storage"
	"github.com/anvilhq/anvil/pkg/validator"
	"github.com/anvilhq/anvil/pkg/views"
)

// ValidationErrors is a collection of validation errors.
type ValidationErrors = validator.ValidationErrors

// CSRFTokenKey is the context key under which the CSRF middleware
// stores the request token.
type CSRFTokenKey struct{}

// Context provides request/response access and helper methods.
// It also implements context.Context by delegating to the underlying
// request context.
type Context interface {
	context.Context

	// Request returns the underlying *http.Request.
	Request() *http.Request

	// Response returns the underlying http.ResponseWriter.
	Response() http.ResponseWriter

	// Context returns the request's context.Context.
	Context() context.Context

	// Param returns the URL parameter value by name.
	// Returns empty string if the parameter doesn't exist.
	Param(name string) string

	// Query returns the query parameter value by name.
	// Returns empty string if the parameter doesn't exist.
	Query(name string) string

	// QueryDefault returns the query parameter value or a default.
	QueryDefault(name, defaultValue string) string

	// Form returns the form value by name.
	// Calls ParseForm/ParseMultipartForm internally on first access.
	Form(name string) string

	// FormFile returns the first file for the given form key.
	FormFile(name string) (multipart.File, *multipart.FileHeader, error)

	// Header returns the request header value by name.
	Header(name string) string

	// SetHeader sets a response header.
	SetHeader(name, value string)

	// JSON writes a JSON response with the given status code.
	JSON(code int, v any) error

	// String writes a plain text response with the given status code.
	String(code int, s string) error

	// NoContent writes a response with no body.
	NoContent(code int) error

	// Redirect redirects to the given URL with the given status code.
	Redirect(code int, url string) error

	// Error creates and returns an HTTPError without writing a response.
	// Return it from the handler to trigger the error handler.
	Error(code int, message string, opts ...HTTPErrorOption) *HTTPError

	// Render renders a named template with the given status code.
	// When the CSRF middleware issued a token for this request it is
	// exposed to the template as .Data.CSRFToken.
	// Returns views.ErrNotConfigured if WithViews was not called.
	// Returns views.ErrTemplateNotFound if the view name does not
	// resolve under the view root.
	Render(code int, name string, opts ...views.RenderOption) error

	// Bind binds form data, sanitizes, and validates into a struct.
	// Validation failures are returned separately from system errors.
	Bind(v any) (ValidationErrors, error)

	// BindQuery binds query parameters, sanitizes, and validates into
	// a struct.
	BindQuery(v any) (ValidationErrors, error)

	// Written reports whether a response has already been written.
	Written() bool

	// Logger returns the request logger.
	Logger() *slog.Logger

	// LogDebug logs a debug message with optional attributes.
	LogDebug(msg string, attrs ...any)

	// LogInfo logs an info message with optional attributes.
	LogInfo(msg string, attrs ...any)

	// LogWarn logs a warning message with optional attributes.
	LogWarn(msg string, attrs ...any)

	// LogError logs an error message with optional attributes.
	LogError(msg string, attrs ...any)

	// Set stores a value in the request context.
	Set(key any, value any)

	// Get retrieves a value from the request context, or nil.
	Get(key any) any

	// Cookie returns a plain cookie value.
	Cookie(name string) (string, error)

	// SetCookie sets a plain cookie.
	SetCookie(name, value string, maxAge int)

	// DeleteCookie removes a cookie.
	DeleteCookie(name string)

	// CookieSigned returns a signed cookie value.
	// Returns cookie.ErrNoSecret if no secret is configured.
	CookieSigned(name string) (string, error)

	// SetCookieSigned sets a signed cookie.
	// Returns cookie.ErrNoSecret if no secret is configured.
	SetCookieSigned(name, value string, maxAge int) error

	// CookieEncrypted returns an encrypted cookie value.
	// Returns cookie.ErrNoSecret if no secret is configured.
	CookieEncrypted(name string) (string, error)

	// SetCookieEncrypted sets an encrypted cookie.
	// Returns cookie.ErrNoSecret if no secret is configured.
	SetCookieEncrypted(name, value string, maxAge int) error

	// CSRFToken returns the antiforgery token issued for this request,
	// or empty string if the CSRF middleware is not installed.
	CSRFToken() string

	// ResponseWriter returns the wrapped response writer for advanced
	// usage.
	ResponseWriter() *ResponseWriter

	// Storage returns the configured storage client.
	// Returns ErrStorageNotConfigured if WithStorage was not called.
	Storage() (storage.Storage, error)

	// Upload stores data and returns file info.
	Upload(r io.Reader, size int64, opts ...storage.Option) (*storage.FileInfo, error)

	// Download retrieves a file from storage.
	Download(key string) (io.ReadCloser, error)

	// DeleteFile removes a file from storage.
	DeleteFile(key string) error

	// FileURL generates a URL for accessing the file.
	FileURL(key string, opts ...storage.URLOption) (string, error)
}

// ErrStorageNotConfigured is returned by storage helpers when
// WithStorage was not called.
var ErrStorageNotConfigured = errors.New("anvil: storage not configured")

// requestContext implements the Context interface.
type requestContext struct {
	response       http.ResponseWriter
	request        *http.Request
	responseWriter *ResponseWriter
	logger         *slog.Logger
	cookieManager  *cookie.Manager
	viewEngine     *views.Engine
	storage        storage.Storage
}

func newContext(w http.ResponseWriter, r *http.Request, app *App) *requestContext {
	rw := NewResponseWriter(w)

	return &requestContext{
		request:        r,
		response:       rw,
		responseWriter: rw,
		logger:         app.logger,
		cookieManager:  app.cookieManager,
		viewEngine:     app.viewEngine,
		storage:        app.storage,
	}
}

func (c *requestContext) Request() *http.Request {
	return c.request
}

func (c *requestContext) Response() http.ResponseWriter {
	return c.response
}

func (c *requestContext) Context() context.Context {
	return c.request.Context()
}

func (c *requestContext) Param(name string) string {
	return chi.URLParam(c.request, name)
}

func (c *requestContext) Query(name string) string {
	return c.request.URL.Query().Get(name)
}

func (c *requestContext) QueryDefault(name, defaultValue string) string {
	v := c.request.URL.Query().Get(name)
	if v == "" {
		return defaultValue
	}
	return v
}

func (c *requestContext) Form(name string) string {
	return c.request.FormValue(name)
}

func (c *requestContext) FormFile(name string) (multipart.File, *multipart.FileHeader, error) {
	return c.request.FormFile(name)
}

func (c *requestContext) Deadline() (time.Time, bool) {
	return c.request.Context().Deadline()
}

func (c *requestContext) Done() <-chan struct{} {
	return c.request.Context().Done()
}

func (c *requestContext) Err() error {
	return c.request.Context().Err()
}

func (c *requestContext) Value(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Header(name string) string {
	return c.request.Header.Get(name)
}

func (c *requestContext) SetHeader(name, value string) {
	c.response.Header().Set(name, value)
}

func (c *requestContext) JSON(code int, v any) error {
	c.response.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.response.WriteHeader(code)
	return json.NewEncoder(c.response).Encode(v)
}

func (c *requestContext) String(code int, s string) error {
	c.response.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.response.WriteHeader(code)
	_, err := c.response.Write([]byte(s))
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.response.WriteHeader(code)
	return nil
}

func (c *requestContext) Redirect(code int, url string) error {
	http.Redirect(c.response, c.request, url, code)
	return nil
}

func (c *requestContext) Error(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(code, message, opts...)
}

// Render resolves the view name, executes the template into a buffer,
// and writes the result. Failures surface before any response bytes go
// out, so the error handler can still render a full error page.
func (c *requestContext) Render(code int, name string, opts ...views.RenderOption) error {
	if c.viewEngine == nil {
		return views.ErrNotConfigured
	}

	if token := c.CSRFToken(); token != "" {
		opts = append([]views.RenderOption{views.WithValue("CSRFToken", token)}, opts...)
	}
	opts = append(opts, views.WithStatus(code))
	res, err := c.viewEngine.Render(name, opts...)
	if err != nil {
		return err
	}
	return views.WriteResult(c.response, res)
}

func (c *requestContext) Bind(v any) (ValidationErrors, error) {
	return c.bindAndValidate(binder.Form(), v, "bind form")
}

func (c *requestContext) BindQuery(v any) (ValidationErrors, error) {
	return c.bindAndValidate(binder.Query(), v, "bind query")
}

// bindAndValidate binds request data, sanitizes, and validates into a
// struct.
func (c *requestContext) bindAndValidate(bind binder.BindFunc, v any, label string) (ValidationErrors, error) {
	if err := bind(c.request, v); err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	if err := sanitizer.SanitizeStruct(v); err != nil {
		return nil, fmt.Errorf("sanitize: %w", err)
	}
	if err := validator.ValidateStruct(v); err != nil {
		if validator.IsValidationError(err) {
			return validator.ExtractValidationErrors(err), nil
		}
		return nil, fmt.Errorf("validate: %w", err)
	}
	return nil, nil
}

func (c *requestContext) Written() bool {
	return c.responseWriter.Written()
}

func (c *requestContext) Logger() *slog.Logger {
	return c.logger
}

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.logger.DebugContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.logger.InfoContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.logger.WarnContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.logger.ErrorContext(c.request.Context(), msg, attrs...)
}

func (c *requestContext) Set(key, value any) {
	ctx := context.WithValue(c.request.Context(), key, value)
	c.request = c.request.WithContext(ctx)
}

func (c *requestContext) Get(key any) any {
	return c.request.Context().Value(key)
}

func (c *requestContext) Cookie(name string) (string, error) {
	return c.cookieManager.Get(c.request, name)
}

func (c *requestContext) SetCookie(name, value string, maxAge int) {
	c.cookieManager.Set(c.response, name, value, maxAge)
}

func (c *requestContext) DeleteCookie(name string) {
	c.cookieManager.Delete(c.response, name)
}

func (c *requestContext) CookieSigned(name string) (string, error) {
	return c.cookieManager.GetSigned(c.request, name)
}

func (c *requestContext) SetCookieSigned(name, value string, maxAge int) error {
	return c.cookieManager.SetSigned(c.response, name, value, maxAge)
}

func (c *requestContext) CookieEncrypted(name string) (string, error) {
	return c.cookieManager.GetEncrypted(c.request, name)
}

func (c *requestContext) SetCookieEncrypted(name, value string, maxAge int) error {
	return c.cookieManager.SetEncrypted(c.response, name, value, maxAge)
}

func (c *requestContext) CSRFToken() string {
	if token, ok := c.Get(CSRFTokenKey{}).(string); ok {
		return token
	}
	return ""
}

func (c *requestContext) ResponseWriter() *ResponseWriter {
	return c.responseWriter
}

func (c *requestContext) Storage() (storage.Storage, error) {
	if c.storage == nil {
		return nil, ErrStorageNotConfigured
	}
	return c.storage, nil
}

func (c *requestContext) Upload(r io.Reader, size int64, opts ...storage.Option) (*storage.FileInfo, error) {
	if c.storage == nil {
		return nil, ErrStorageNotConfigured
	}
	return c.storage.Put(c.Context(), r, size, opts...)
}

func (c *requestContext) Download(key string) (io.ReadCloser, error) {
	if c.storage == nil {
		return nil, ErrStorageNotConfigured
	}
	return c.storage.Get(c.Context(), key)
}

func (c *requestContext) DeleteFile(key string) error {
	if c.storage == nil {
		return ErrStorageNotConfigured
	}
	return c.storage.Delete(c.Context(), key)
}

func (c *requestContext) FileURL(key string, opts ...storage.URLOption) (string, error) {
	if c.storage == nil {
		return "", ErrStorageNotConfigured
	}
	return c.storage.URL(c.Context(), key, opts...)
}
