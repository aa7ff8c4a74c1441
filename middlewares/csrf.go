package middlewares

import (
	"net/http"

	"github.com/anvilhq/anvil/internal"
	"github.com/anvilhq/anvil/pkg/csrf"
)

// Default CSRF transport names.
const (
	DefaultCSRFCookieName = "__csrf"
	DefaultCSRFFieldName  = "csrf_token"
	DefaultCSRFHeaderName = "X-CSRF-Token"
)

// DefaultCSRFCookieMaxAge keeps the token cookie for 12 hours.
const DefaultCSRFCookieMaxAge = 12 * 60 * 60

// CSRFConfig configures the antiforgery middleware.
type CSRFConfig struct {
	CookieName   string
	FieldName    string
	HeaderName   string
	CookieMaxAge int
}

// CSRFOption configures CSRFConfig.
type CSRFOption func(*CSRFConfig)

// WithCSRFCookieName sets the token cookie name.
func WithCSRFCookieName(name string) CSRFOption {
	return func(cfg *CSRFConfig) {
		if name != "" {
			cfg.CookieName = name
		}
	}
}

// WithCSRFFieldName sets the form field carrying the submitted token.
func WithCSRFFieldName(name string) CSRFOption {
	return func(cfg *CSRFConfig) {
		if name != "" {
			cfg.FieldName = name
		}
	}
}

// WithCSRFHeaderName sets the header carrying the submitted token.
func WithCSRFHeaderName(name string) CSRFOption {
	return func(cfg *CSRFConfig) {
		if name != "" {
			cfg.HeaderName = name
		}
	}
}

// WithCSRFCookieMaxAge sets the token cookie lifetime in seconds.
func WithCSRFCookieMaxAge(seconds int) CSRFOption {
	return func(cfg *CSRFConfig) {
		if seconds > 0 {
			cfg.CookieMaxAge = seconds
		}
	}
}

// CSRF returns double-submit antiforgery middleware. Safe methods get a
// signed token issued into a cookie and exposed via c.CSRFToken() for
// form rendering. Unsafe methods must echo that token back in the
// configured form field or header; mismatches are rejected with 403
// before the handler runs.
func CSRF(manager *csrf.Manager, opts ...CSRFOption) internal.Middleware {
	cfg := &CSRFConfig{
		CookieName:   DefaultCSRFCookieName,
		FieldName:    DefaultCSRFFieldName,
		HeaderName:   DefaultCSRFHeaderName,
		CookieMaxAge: DefaultCSRFCookieMaxAge,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	submitted := internal.NewExtractor(
		internal.FromForm(cfg.FieldName),
		internal.FromHeader(cfg.HeaderName),
	)

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			if isSafeMethod(c.Request().Method) {
				token, err := ensureToken(c, manager, cfg)
				if err != nil {
					return err
				}
				c.Set(internal.CSRFTokenKey{}, token)
				return next(c)
			}

			cookieToken, err := c.Cookie(cfg.CookieName)
			if err != nil {
				return internal.ErrForbidden("antiforgery token missing", internal.WithError(err))
			}

			submittedToken, ok := submitted.Extract(c)
			if !ok {
				return internal.ErrForbidden("antiforgery token missing")
			}

			if err := manager.Compare(cookieToken, submittedToken); err != nil {
				c.LogWarn("antiforgery validation failed", "error", err.Error())
				return internal.ErrForbidden("antiforgery token invalid", internal.WithError(err))
			}

			c.Set(internal.CSRFTokenKey{}, cookieToken)
			return next(c)
		}
	}
}

// ensureToken returns the valid token from the cookie, issuing and
// setting a fresh one when absent or tampered.
func ensureToken(c internal.Context, manager *csrf.Manager, cfg *CSRFConfig) (string, error) {
	if token, err := c.Cookie(cfg.CookieName); err == nil {
		if manager.Verify(token) == nil {
			return token, nil
		}
	}

	token, err := manager.Issue()
	if err != nil {
		return "", internal.ErrInternal("antiforgery token generation failed", internal.WithError(err))
	}
	c.SetCookie(cfg.CookieName, token, cfg.CookieMaxAge)
	return token, nil
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}
