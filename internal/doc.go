// Package internal provides the core types and implementation for the
// Anvil view engine and application layer.
//
// This package is internal and should not be used directly. Import
// "github.com/anvilhq/anvil" instead, which re-exports the public API.
//
// # Core Types
//
// The package defines the fundamental types that users interact with:
//
//   - App: Orchestrates the application lifecycle, HTTP routing, view
//     rendering, and graceful shutdown
//   - Context: Provides request/response access and helper methods
//   - Router: Interface handlers use to declare routes with HTTP
//     methods and grouping
//   - Handler: Interface implemented by types that declare routes
//   - HandlerFunc: Signature for individual route handlers that
//     return errors
//   - Middleware: Wraps handlers to add cross-cutting concerns
//   - ErrorHandler: Custom error handling function for handler errors
//
// # Context as context.Context
//
// Context embeds context.Context, so it can be passed directly to any
// function that expects a standard library context. The Deadline,
// Done, Err, and Value methods delegate to the underlying request
// context.
//
// # Handler Pattern
//
// Handlers implement the Handler interface and declare routes:
//
//	type PersonHandler struct{}
//
//	func (h *PersonHandler) Routes(r internal.Router) {
//	    r.GET("/person", h.show)
//	    r.POST("/person", h.create)
//	}
//
// Handlers receive dependencies via constructor injection, not context
// helpers. This keeps handler logic explicit and testable.
//
// # Request Handling
//
// Each request receives a Context with helper methods for rendering
// and form handling:
//
//	func (h *PersonHandler) create(c internal.Context) error {
//	    var form CreatePersonRequest
//	    verrs, err := c.Bind(&form)
//	    if err != nil {
//	        return err
//	    }
//	    if !verrs.IsEmpty() {
//	        return c.Render(http.StatusOK, "CreatePerson",
//	            views.WithValidation(views.ValidationState(verrs.Fields())))
//	    }
//	    return c.Render(http.StatusOK, "Person", views.WithModel(person))
//	}
//
// # Error Handling
//
// Errors returned from handlers trigger the ErrorHandler. Without a
// custom handler, *HTTPError values map to their status code and
// everything else becomes a 500.
//
// # Features
//
// The Context provides helpers for common request patterns:
//   - Named template rendering with model, view data, and validation
//     state
//   - Form binding with validation and sanitization
//   - JSON encoding
//   - Cookie management (plain, signed, encrypted)
//   - Antiforgery token access
//   - File upload/download with S3-compatible storage
//   - Structured logging with request-scoped values
//   - Standard library context.Context compatibility
//
// See the anvil package documentation for the public API and usage
// examples.
package internal
