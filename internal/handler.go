package internal

// Handler declares routes on a router.
//
// Example:
//
//	type PersonHandler struct {
//	    store *people.Store
//	}
//
//	func (h *PersonHandler) Routes(r anvil.Router) {
//	    r.GET("/person", h.showPerson)
//	    r.POST("/person", h.createPerson)
//	}
type Handler interface {
	Routes(r Router)
}

// HandlerFunc is the signature for route handlers. Returning a non-nil
// error triggers the application error handler.
type HandlerFunc func(c Context) error

// Middleware wraps a HandlerFunc to add cross-cutting concerns. It can
// inspect the request, short-circuit processing, or wrap the response.
//
// Example:
//
//	func RequireAuth(next anvil.HandlerFunc) anvil.HandlerFunc {
//	    return func(c anvil.Context) error {
//	        if !loggedIn(c) {
//	            return c.Redirect(302, "/login")
//	        }
//	        return next(c)
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler handles errors returned from handlers.
type ErrorHandler func(Context, error) error
