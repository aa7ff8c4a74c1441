package anvil

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/anvilhq/anvil/internal"
	"github.com/anvilhq/anvil/pkg/cookie"
	"github.com/anvilhq/anvil/pkg/csrf"
	"github.com/anvilhq/anvil/pkg/logger"
	"github.com/anvilhq/anvil/pkg/storage"
	"github.com/anvilhq/anvil/pkg/views"
)

// Type aliases - public API
type (
	// App orchestrates the application lifecycle.
	// It manages HTTP routing, middleware, view rendering, and graceful shutdown.
	App = internal.App

	// Router is the interface handlers use to declare routes.
	Router = internal.Router

	// Context provides request/response access and helper methods.
	Context = internal.Context

	// Handler declares routes on a router.
	Handler = internal.Handler

	// HandlerFunc is the signature for route handlers.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc to add cross-cutting concerns.
	Middleware = internal.Middleware

	// ErrorHandler handles errors returned from handlers.
	ErrorHandler = internal.ErrorHandler

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HTTPError carries a status code and message to the error handler.
	HTTPError = internal.HTTPError

	// HTTPErrorOption customizes an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// ValidationErrors is a collection of validation errors.
	ValidationErrors = internal.ValidationErrors

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// CheckFunc is a readiness check function.
	CheckFunc = internal.CheckFunc

	// ContextExtractor extracts a slog attribute from context.
	// Used with WithLogger to add request-scoped values to logs.
	ContextExtractor = logger.ContextExtractor

	// CookieOption configures the cookie manager.
	CookieOption = cookie.Option

	// ResponseWriter wraps http.ResponseWriter with status and size tracking.
	ResponseWriter = internal.ResponseWriter

	// Extractor pulls a value from a request using an ordered list of sources.
	Extractor = internal.Extractor

	// ExtractorSource reads a value from one request location.
	ExtractorSource = internal.ExtractorSource

	// CSRFTokenKey is the context key under which the antiforgery token
	// is stored for the current request.
	CSRFTokenKey = internal.CSRFTokenKey

	// ViewEngine locates, compiles, and renders templates.
	ViewEngine = views.Engine

	// ViewOption configures the view engine.
	ViewOption = views.Option

	// RenderOption customizes a single render call.
	RenderOption = views.RenderOption

	// ViewData is the auxiliary key-value bag supplied to a template.
	ViewData = views.Data

	// ValidationState maps field names to error messages for templates.
	ValidationState = views.ValidationState

	// Storage is the file storage interface.
	Storage = storage.Storage

	// StorageConfig configures S3-compatible storage.
	StorageConfig = storage.Config

	// FileInfo describes a stored file.
	FileInfo = storage.FileInfo

	// CSRFManager signs and verifies antiforgery tokens.
	CSRFManager = csrf.Manager
)

// Constructors

// New creates a new application with the given options.
// The App is immutable after creation.
//
// Example:
//
//	app := anvil.New(
//	    anvil.WithViews(engine),
//	    anvil.WithHandlers(
//	        handlers.NewPerson(),
//	    ),
//	)
//
//	err := app.Run(":8080", anvil.Logger(slog))
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// NewViews creates a view engine over the given template root directory.
//
// Example:
//
//	engine, err := anvil.NewViews("views",
//	    anvil.WithViewExtension(".html"),
//	)
func NewViews(root string, opts ...ViewOption) (*ViewEngine, error) {
	return views.New(root, opts...)
}

// NewCSRF creates an antiforgery token manager.
// The secret must be at least 32 bytes.
func NewCSRF(secret string) (*CSRFManager, error) {
	return csrf.New(secret)
}

// NewStorage creates an S3-compatible storage client.
func NewStorage(cfg StorageConfig) (Storage, error) {
	return storage.New(cfg)
}

// App options

// WithViews sets the view engine used by c.Render.
func WithViews(engine *ViewEngine) Option {
	return internal.WithViews(engine)
}

// WithMiddleware adds global middleware to the application.
// Middleware is applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithHandlers registers handlers that declare routes.
// Each handler's Routes method is called during setup.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithStaticFiles mounts a static file handler at the given pattern.
// Directory listings are disabled. Files are served with default cache headers.
//
// Example:
//
//	//go:embed public
//	var assets embed.FS
//
//	anvil.New(
//	    anvil.WithStaticFiles("/static/", assets, "public"),
//	)
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return internal.WithStaticFiles(pattern, fsys, subDir)
}

// WithErrorHandler sets a custom error handler for handler errors.
// Called when a handler returns a non-nil error.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithNotFoundHandler sets a custom 404 handler.
func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

// WithMethodNotAllowedHandler sets a custom 405 handler.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return internal.WithMethodNotAllowedHandler(h)
}

// WithHealthChecks enables health check endpoints with optional configuration.
// Liveness (/health/live): Always returns OK if process is running.
// Readiness (/health/ready): Runs all configured checks.
//
// Example:
//
//	anvil.WithHealthChecks(
//	    anvil.WithReadinessCheck("storage", storageCheck),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithLogger creates a logger with a component name and optional extractors.
// The component name is added to every log entry for easy filtering.
// Extractors pull values from context (e.g., request_id).
//
// Example:
//
//	anvil.New(
//	    anvil.WithLogger("web", middlewares.RequestIDExtractor()),
//	)
func WithLogger(component string, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, extractors...)
}

// WithCustomLogger sets a fully custom logger.
// Use this when you need complete control over logging configuration.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// WithCookieOptions configures the cookie manager.
//
// Example:
//
//	anvil.New(
//	    anvil.WithCookieOptions(
//	        anvil.WithCookieSecret(os.Getenv("COOKIE_SECRET")),
//	        anvil.WithCookieSecure(true),
//	    ),
//	)
func WithCookieOptions(opts ...CookieOption) Option {
	return internal.WithCookieOptions(opts...)
}

// WithStorage sets the storage client used by c.Upload and friends.
func WithStorage(s Storage) Option {
	return internal.WithStorage(s)
}

// Health check options

// WithLivenessPath sets a custom liveness endpoint path.
// Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath sets a custom readiness endpoint path.
// Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named readiness check.
// Checks run in parallel during readiness probe.
func WithReadinessCheck(name string, fn CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Run options

// Logger sets the application logger.
// If nil, logging is disabled.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout sets the timeout for graceful shutdown.
// This applies to both the HTTP server and shutdown hooks.
// Defaults to 30 seconds.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// ShutdownHook registers a cleanup function to run during shutdown.
// Hooks are called in the order they were registered.
// Each hook receives a context with the shutdown timeout.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets a custom base context for signal handling.
// Useful for testing or when integrating with existing context hierarchies.
// Defaults to context.Background() if not set.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// View options

// WithViewExtension sets the template file extension.
// Defaults to ".html".
func WithViewExtension(ext string) ViewOption {
	return views.WithExtension(ext)
}

// WithViewFuncs merges additional template functions.
func WithViewFuncs(funcs map[string]any) ViewOption {
	return views.WithFuncs(funcs)
}

// WithViewLogger sets the view engine logger.
func WithViewLogger(l *slog.Logger) ViewOption {
	return views.WithLogger(l)
}

// Render options

// WithModel sets the strongly typed page model for a render.
func WithModel(model any) RenderOption {
	return views.WithModel(model)
}

// WithViewData merges entries into the bag available as .Data.
func WithViewData(data map[string]any) RenderOption {
	return views.WithData(data)
}

// WithViewValue sets a single .Data entry.
func WithViewValue(key string, v any) RenderOption {
	return views.WithValue(key, v)
}

// WithViewErrors exposes validation errors to the template as .Errors.
func WithViewErrors(errs ValidationErrors) RenderOption {
	return views.WithValidation(views.ValidationState(errs.Fields()))
}

// WithValidation exposes a prepared validation state as .Errors.
func WithValidation(state ValidationState) RenderOption {
	return views.WithValidation(state)
}

// Context helpers

// ContextValue retrieves a typed value from the context.
// Returns the zero value of T if the key is not found or type assertion fails.
//
// Example:
//
//	type tenantKey struct{}
//
//	tenant := anvil.ContextValue[string](c, tenantKey{})
func ContextValue[T any](c Context, key any) T {
	return internal.ContextValue[T](c, key)
}

// Param returns a typed URL parameter, or the zero value when missing
// or unparseable.
func Param[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string) T {
	return internal.Param[T](c, name)
}

// Query returns a typed query parameter, or the zero value when
// missing or unparseable.
func Query[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string) T {
	return internal.Query[T](c, name)
}

// QueryDefault returns a typed query parameter, or the default when
// missing or unparseable.
func QueryDefault[T ~string | ~int | ~int64 | ~float64 | ~bool](c Context, name string, defaultValue T) T {
	return internal.QueryDefault[T](c, name, defaultValue)
}

// Extractors

// NewExtractor builds an extractor that tries each source in order.
func NewExtractor(sources ...ExtractorSource) Extractor {
	return internal.NewExtractor(sources...)
}

// FromHeader reads a value from a request header.
func FromHeader(name string) ExtractorSource {
	return internal.FromHeader(name)
}

// FromQuery reads a value from a query parameter.
func FromQuery(name string) ExtractorSource {
	return internal.FromQuery(name)
}

// FromForm reads a value from a form field.
func FromForm(name string) ExtractorSource {
	return internal.FromForm(name)
}

// FromParam reads a value from a URL parameter.
func FromParam(name string) ExtractorSource {
	return internal.FromParam(name)
}

// FromCookie reads a value from a plain cookie.
func FromCookie(name string) ExtractorSource {
	return internal.FromCookie(name)
}

// FromCookieSigned reads a value from a signed cookie.
func FromCookieSigned(name string) ExtractorSource {
	return internal.FromCookieSigned(name)
}

// FromBearerToken reads a bearer token from the Authorization header.
func FromBearerToken() ExtractorSource {
	return internal.FromBearerToken()
}

// HTTP errors

// NewHTTPError creates an HTTPError with the given status code and message.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

// WithTitle overrides the derived status text.
func WithTitle(title string) HTTPErrorOption {
	return internal.WithTitle(title)
}

// WithDetail adds a human-readable detail message.
func WithDetail(detail string) HTTPErrorOption {
	return internal.WithDetail(detail)
}

// WithError attaches the underlying cause.
func WithError(err error) HTTPErrorOption {
	return internal.WithError(err)
}

// Common HTTP error constructors.
var (
	ErrBadRequest         = internal.ErrBadRequest
	ErrUnauthorized       = internal.ErrUnauthorized
	ErrForbidden          = internal.ErrForbidden
	ErrNotFound           = internal.ErrNotFound
	ErrUnprocessable      = internal.ErrUnprocessable
	ErrInternal           = internal.ErrInternal
	ErrServiceUnavailable = internal.ErrServiceUnavailable
)

// IsHTTPError reports whether err is an *HTTPError.
func IsHTTPError(err error) bool {
	return internal.IsHTTPError(err)
}

// AsHTTPError returns err as an *HTTPError, or nil.
func AsHTTPError(err error) *HTTPError {
	return internal.AsHTTPError(err)
}

// ErrStorageNotConfigured is returned by storage helpers when
// WithStorage was not called.
var ErrStorageNotConfigured = internal.ErrStorageNotConfigured

// Cookie options

// WithCookieSecret sets the secret for signing and encryption.
// Must be at least 32 bytes.
func WithCookieSecret(secret string) CookieOption {
	return cookie.WithSecret(secret)
}

// WithCookieDomain sets the cookie domain.
func WithCookieDomain(domain string) CookieOption {
	return cookie.WithDomain(domain)
}

// WithCookiePath sets the cookie path.
func WithCookiePath(path string) CookieOption {
	return cookie.WithPath(path)
}

// WithCookieSecure sets the Secure flag.
func WithCookieSecure(secure bool) CookieOption {
	return cookie.WithSecure(secure)
}

// WithCookieHTTPOnly sets the HttpOnly flag.
func WithCookieHTTPOnly(httpOnly bool) CookieOption {
	return cookie.WithHTTPOnly(httpOnly)
}

// WithCookieSameSite sets the SameSite attribute.
func WithCookieSameSite(ss http.SameSite) CookieOption {
	return cookie.WithSameSite(ss)
}

// Cookie errors for checking return values.
var (
	ErrCookieNotFound = cookie.ErrNotFound
	ErrCookieNoSecret = cookie.ErrNoSecret
	ErrCookieBadSig   = cookie.ErrBadSig
	ErrCookieDecrypt  = cookie.ErrDecrypt
)

// View errors for checking return values.
var (
	ErrViewsNotConfigured = views.ErrNotConfigured
	ErrTemplateNotFound   = views.ErrTemplateNotFound
	ErrResponseStarted    = views.ErrResponseStarted
)
