package anvil_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anvilhq/anvil"
	"github.com/anvilhq/anvil/middlewares"
)

type person struct {
	Name string
}

type createPersonRequest struct {
	Name    string `form:"Name" sanitize:"strict" validate:"required"`
	CheckMe bool   `form:"CheckMe"`
}

// personHandler mirrors a typical form-driven page: show a person,
// render a creation form, and handle its submission.
type personHandler struct{}

func (h *personHandler) Routes(r anvil.Router) {
	r.GET("/person", h.show)
	r.GET("/person/new", h.showForm)
	r.POST("/person", h.create)
}

func (h *personHandler) show(c anvil.Context) error {
	name := anvil.QueryDefault(c, "name", "Razor")
	return c.Render(http.StatusOK, "Person",
		anvil.WithModel(person{Name: name}),
		anvil.WithViewValue("Title", "Mr Fox"),
	)
}

func (h *personHandler) showForm(c anvil.Context) error {
	return c.Render(http.StatusOK, "CreatePerson")
}

func (h *personHandler) create(c anvil.Context) error {
	var req createPersonRequest
	verrs, err := c.Bind(&req)
	if err != nil {
		return err
	}
	if !req.CheckMe {
		verrs.Add("CheckMe", "Checkbox must be checked")
	}
	if !verrs.IsEmpty() {
		return c.Render(http.StatusOK, "CreatePerson",
			anvil.WithModel(req),
			anvil.WithViewErrors(verrs),
		)
	}
	return c.Redirect(http.StatusSeeOther, "/person?name="+url.QueryEscape(req.Name))
}

func (h *personHandler) broken(c anvil.Context) error {
	return c.Render(http.StatusOK, "DoesNotExist")
}

func writeTemplates(t *testing.T, templates map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, body := range templates {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return dir
}

func newTestApp(t *testing.T, opts ...anvil.Option) *anvil.App {
	t.Helper()

	dir := writeTemplates(t, map[string]string{
		"Person.html": `<h1>{{.Data.Title}}</h1><p>{{.Model.Name}}</p>`,
		"CreatePerson.html": `<form method="post" action="/person">` +
			`{{range .Errors.Field "Name"}}<span class="error">{{.}}</span>{{end}}` +
			`{{range .Errors.Field "CheckMe"}}<span class="error">{{.}}</span>{{end}}` +
			`<input name="Name" value="{{with .Model}}{{.Name}}{{end}}">` +
			`<input type="checkbox" name="CheckMe">` +
			`</form>`,
	})

	engine, err := anvil.NewViews(dir)
	require.NoError(t, err)

	opts = append([]anvil.Option{anvil.WithViews(engine)}, opts...)
	return anvil.New(opts...)
}

func TestPersonPage(t *testing.T) {
	t.Parallel()

	t.Run("default model", func(t *testing.T) {
		t.Parallel()

		app := newTestApp(t, anvil.WithHandlers(&personHandler{}))

		req := httptest.NewRequest(http.MethodGet, "/person", nil)
		rec := httptest.NewRecorder()
		app.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, rec.Body.String(), "Razor")
		assert.Contains(t, rec.Body.String(), "Mr Fox")
	})

	t.Run("query overrides the name", func(t *testing.T) {
		t.Parallel()

		app := newTestApp(t, anvil.WithHandlers(&personHandler{}))

		req := httptest.NewRequest(http.MethodGet, "/person?name=Fantastic", nil)
		rec := httptest.NewRecorder()
		app.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Fantastic")
	})
}

func TestCreatePersonForm(t *testing.T) {
	t.Parallel()

	t.Run("unchecked checkbox re-renders with error", func(t *testing.T) {
		t.Parallel()

		app := newTestApp(t, anvil.WithHandlers(&personHandler{}))

		form := url.Values{"Name": {"Razor"}}
		req := httptest.NewRequest(http.MethodPost, "/person", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		app.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Checkbox must be checked")
		assert.Contains(t, rec.Body.String(), `value="Razor"`)
	})

	t.Run("checked checkbox redirects to person", func(t *testing.T) {
		t.Parallel()

		app := newTestApp(t, anvil.WithHandlers(&personHandler{}))

		form := url.Values{"Name": {"Razor"}, "CheckMe": {"on"}}
		req := httptest.NewRequest(http.MethodPost, "/person", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		app.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/person?name=Razor", rec.Header().Get("Location"))
	})

	t.Run("missing name fails validation", func(t *testing.T) {
		t.Parallel()

		app := newTestApp(t, anvil.WithHandlers(&personHandler{}))

		form := url.Values{"CheckMe": {"on"}}
		req := httptest.NewRequest(http.MethodPost, "/person", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		app.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Name is required")
	})

	t.Run("script input is sanitized", func(t *testing.T) {
		t.Parallel()

		app := newTestApp(t, anvil.WithHandlers(&personHandler{}))

		form := url.Values{
			"Name":    {`<script>alert(1)</script>Razor`},
			"CheckMe": {"on"},
		}
		req := httptest.NewRequest(http.MethodPost, "/person", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		app.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/person?name=Razor", rec.Header().Get("Location"))
	})
}

func TestMissingTemplate(t *testing.T) {
	t.Parallel()

	h := &personHandler{}
	app := newTestApp(t, anvil.WithHandlers(routeFunc(func(r anvil.Router) {
		r.GET("/broken", h.broken)
	})))

	req := httptest.NewRequest(http.MethodGet, "/broken", nil)
	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestErrorHandler(t *testing.T) {
	t.Parallel()

	t.Run("custom handler sees http error", func(t *testing.T) {
		t.Parallel()

		app := newTestApp(t,
			anvil.WithHandlers(routeFunc(func(r anvil.Router) {
				r.GET("/teapot", func(c anvil.Context) error {
					return anvil.NewHTTPError(http.StatusTeapot, "short and stout")
				})
			})),
			anvil.WithErrorHandler(func(c anvil.Context, err error) error {
				if httpErr := anvil.AsHTTPError(err); httpErr != nil {
					return c.String(httpErr.Code, httpErr.Message)
				}
				return c.String(http.StatusInternalServerError, "internal error")
			}),
		)

		req := httptest.NewRequest(http.MethodGet, "/teapot", nil)
		rec := httptest.NewRecorder()
		app.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.Equal(t, "short and stout", rec.Body.String())
	})
}

func TestCSRFProtectedForm(t *testing.T) {
	t.Parallel()

	newProtectedApp := func(t *testing.T) *anvil.App {
		manager, err := anvil.NewCSRF("0123456789abcdef0123456789abcdef")
		require.NoError(t, err)

		return newTestApp(t,
			anvil.WithMiddleware(middlewares.CSRF(manager)),
			anvil.WithHandlers(&personHandler{}),
		)
	}

	t.Run("get issues token cookie", func(t *testing.T) {
		t.Parallel()

		app := newProtectedApp(t)

		req := httptest.NewRequest(http.MethodGet, "/person/new", nil)
		rec := httptest.NewRecorder()
		app.Router().ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, middlewares.DefaultCSRFCookieName, cookies[0].Name)
		assert.NotEmpty(t, cookies[0].Value)
	})

	t.Run("post without token rejected", func(t *testing.T) {
		t.Parallel()

		app := newProtectedApp(t)

		form := url.Values{"Name": {"Razor"}, "CheckMe": {"on"}}
		req := httptest.NewRequest(http.MethodPost, "/person", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		app.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("post with token passes", func(t *testing.T) {
		t.Parallel()

		app := newProtectedApp(t)

		getReq := httptest.NewRequest(http.MethodGet, "/person/new", nil)
		getRec := httptest.NewRecorder()
		app.Router().ServeHTTP(getRec, getReq)
		cookies := getRec.Result().Cookies()
		require.Len(t, cookies, 1)
		token := cookies[0].Value

		form := url.Values{
			"Name":       {"Razor"},
			"CheckMe":    {"on"},
			"csrf_token": {token},
		}
		req := httptest.NewRequest(http.MethodPost, "/person", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(cookies[0])
		rec := httptest.NewRecorder()
		app.Router().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/person?name=Razor", rec.Header().Get("Location"))
	})
}

func TestTypedHelpers(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, anvil.WithHandlers(routeFunc(func(r anvil.Router) {
		r.GET("/page", func(c anvil.Context) error {
			page := anvil.QueryDefault(c, "page", 1)
			return c.JSON(http.StatusOK, map[string]int{"page": page})
		})
	})))

	req := httptest.NewRequest(http.MethodGet, "/page?page=7", nil)
	rec := httptest.NewRecorder()
	app.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"page":7`)
}

// routeFunc adapts a function to the Handler interface.
type routeFunc func(r anvil.Router)

func (f routeFunc) Routes(r anvil.Router) { f(r) }
