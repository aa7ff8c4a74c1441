// Package middlewares provides HTTP middleware for anvil applications:
// panic recovery, request IDs, request timeouts, and antiforgery
// protection.
//
// Middleware is written against the anvil Context interface and
// installed globally via anvil.WithMiddleware or per route:
//
//	app := anvil.New(
//	    anvil.WithMiddleware(
//	        middlewares.Recover(),
//	        middlewares.RequestID(),
//	        middlewares.Timeout(15*time.Second),
//	        middlewares.CSRF(csrfManager),
//	    ),
//	)
package middlewares
