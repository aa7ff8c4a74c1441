// Package anvil provides a server-side view engine and a thin HTTP
// application layer for building form-driven web applications in Go.
//
// Templates live as plain files under a root directory, are compiled on
// first use, cached, and rendered through a buffered pipeline so a
// template failure never produces a half-written response. Handlers are
// plain Go functions returning errors; the framework routes, binds,
// validates, and renders.
//
// # Quick Start
//
// Create a view engine over a template directory, wire it into an app,
// and run:
//
//	engine, err := anvil.NewViews("views")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	app := anvil.New(
//	    anvil.WithViews(engine),
//	    anvil.WithHandlers(handlers.NewPerson()),
//	)
//
//	if err := app.Run(":8080"); err != nil {
//	    log.Fatal(err)
//	}
//
// # Handlers
//
// Handlers implement the [Handler] interface to declare routes:
//
//	type PersonHandler struct{}
//
//	func NewPerson() *PersonHandler { return &PersonHandler{} }
//
//	func (h *PersonHandler) Routes(r anvil.Router) {
//	    r.GET("/person", h.show)
//	    r.POST("/person", h.create)
//	}
//
//	func (h *PersonHandler) show(c anvil.Context) error {
//	    return c.Render(200, "Person",
//	        anvil.WithModel(Person{Name: "Razor"}),
//	        anvil.WithViewValue("Title", "Mr Fox"),
//	    )
//	}
//
// # Rendering
//
// Templates execute against a scope with three roots: .Model for the
// typed page model, .Data for the loose view-data bag, and .Errors for
// validation state. Model and view data never collide.
//
// # Form Binding
//
// c.Bind decodes form fields into a struct, sanitizes string inputs,
// and validates. Validation failures come back separately from system
// errors so the handler can re-render the form:
//
//	func (h *PersonHandler) create(c anvil.Context) error {
//	    var req CreatePersonRequest
//	    verrs, err := c.Bind(&req)
//	    if err != nil {
//	        return err
//	    }
//	    if !verrs.IsEmpty() {
//	        return c.Render(200, "CreatePerson", anvil.WithViewErrors(verrs))
//	    }
//	    // ...
//	}
//
// # Middleware
//
// Cross-cutting concerns wrap handlers. The middlewares package ships
// panic recovery, request IDs, timeouts, and antiforgery protection:
//
//	anvil.New(
//	    anvil.WithMiddleware(
//	        middlewares.Recover(),
//	        middlewares.RequestID(),
//	        middlewares.CSRF(csrfManager),
//	    ),
//	)
package anvil
