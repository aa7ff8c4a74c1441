package views_test

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anvilhq/anvil/pkg/views"
)

type person struct {
	Name string
}

func newEngine(t *testing.T, files map[string]string, opts ...views.Option) *views.Engine {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		writeTemplate(t, root, name, content)
	}
	engine, err := views.New(root, opts...)
	require.NoError(t, err)
	return engine
}

func TestEngine_Render(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, map[string]string{
		"Person.html":  `<h1>{{.Data.Title}}</h1><p>Hello, {{.Model.Name}}</p>`,
		"Broken.html":  `{{.Model.Name`,
		"Explode.html": `{{.Model.Missing.Deep}}`,
	})

	t.Run("binds model and view data", func(t *testing.T) {
		t.Parallel()
		res, err := engine.Render("Person",
			views.WithModel(person{Name: "Razor"}),
			views.WithValue("Title", "Mr Fox"),
		)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.Status)
		assert.Equal(t, "text/html; charset=utf-8", res.ContentType)
		assert.Contains(t, string(res.Body), "Razor")
		assert.Contains(t, string(res.Body), "Mr Fox")
	})

	t.Run("status and content type overrides", func(t *testing.T) {
		t.Parallel()
		res, err := engine.Render("Person",
			views.WithModel(person{Name: "x"}),
			views.WithStatus(http.StatusUnprocessableEntity),
			views.WithContentType("application/xhtml+xml"),
		)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnprocessableEntity, res.Status)
		assert.Equal(t, "application/xhtml+xml", res.ContentType)
	})

	t.Run("deterministic output", func(t *testing.T) {
		t.Parallel()
		opts := []views.RenderOption{
			views.WithModel(person{Name: "Razor"}),
			views.WithData(views.Data{"Title": "Mr Fox", "Count": 3}),
		}
		first, err := engine.Render("Person", opts...)
		require.NoError(t, err)
		for i := 0; i < 5; i++ {
			again, err := engine.Render("Person", opts...)
			require.NoError(t, err)
			assert.Equal(t, first.Body, again.Body)
		}
	})

	t.Run("unknown template", func(t *testing.T) {
		t.Parallel()
		_, err := engine.Render("Nope")
		assert.ErrorIs(t, err, views.ErrTemplateNotFound)
	})

	t.Run("compile failure wraps render error", func(t *testing.T) {
		t.Parallel()
		_, err := engine.Render("Broken")
		re, ok := views.AsRenderError(err)
		require.True(t, ok)
		assert.Equal(t, "Broken", re.Template)
		assert.Error(t, re.Unwrap())
	})

	t.Run("execution failure wraps render error", func(t *testing.T) {
		t.Parallel()
		_, err := engine.Render("Explode", views.WithModel(person{Name: "x"}))
		assert.True(t, views.IsRenderError(err))
	})
}

func TestEngine_ValidationScope(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, map[string]string{
		"Form.html": `{{range .Errors.Field "Name"}}<span>{{.}}</span>{{end}}` +
			`{{if .Errors.Has "CheckMe"}}<em>{{index (.Errors.Field "CheckMe") 0}}</em>{{end}}` +
			`<i>{{.Data.Errors}}</i>`,
	})

	t.Run("validation state reaches the reserved lookup", func(t *testing.T) {
		t.Parallel()
		res, err := engine.Render("Form", views.WithValidation(views.ValidationState{
			"Name":    {"Name is required"},
			"CheckMe": {"Checkbox must be checked"},
		}))
		require.NoError(t, err)
		assert.Contains(t, string(res.Body), "Name is required")
		assert.Contains(t, string(res.Body), "Checkbox must be checked")
	})

	t.Run("user data key named Errors survives", func(t *testing.T) {
		t.Parallel()
		res, err := engine.Render("Form",
			views.WithValue("Errors", "user-owned"),
			views.WithValidation(views.ValidationState{"Name": {"bad"}}),
		)
		require.NoError(t, err)
		assert.Contains(t, string(res.Body), "user-owned")
		assert.Contains(t, string(res.Body), "bad")
	})

	t.Run("empty state renders nothing", func(t *testing.T) {
		t.Parallel()
		res, err := engine.Render("Form")
		require.NoError(t, err)
		assert.NotContains(t, string(res.Body), "<span>")
	})
}

func TestEngine_Funcs(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, map[string]string{
		"Doc.html": `{{markdown .Model}}`,
		"Raw.html": `{{safe .Model}}`,
	}, views.WithFuncs(map[string]any{
		"shout": func(s string) string { return s + "!" },
	}))

	t.Run("markdown", func(t *testing.T) {
		t.Parallel()
		res, err := engine.Render("Doc", views.WithModel("# Title"))
		require.NoError(t, err)
		assert.Contains(t, string(res.Body), "<h1>Title</h1>")
	})

	t.Run("safe strips scripts", func(t *testing.T) {
		t.Parallel()
		res, err := engine.Render("Raw", views.WithModel(`<p>ok</p><script>evil()</script>`))
		require.NoError(t, err)
		assert.Contains(t, string(res.Body), "<p>ok</p>")
		assert.NotContains(t, string(res.Body), "script")
	})
}

func TestEngine_ConcurrentRender(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, map[string]string{
		"Page.html": `<p>{{.Model.Name}}</p>`,
	})

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := engine.Render("Page", views.WithModel(person{Name: "Razor"}))
			assert.NoError(t, err)
			assert.Contains(t, string(res.Body), "Razor")
		}()
	}
	wg.Wait()
}

func TestEngine_Reload(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTemplate(t, root, "Page.html", "v1")

	engine, err := views.New(root)
	require.NoError(t, err)
	require.NoError(t, engine.EnableReload())
	t.Cleanup(func() { _ = engine.Close() })

	res, err := engine.Render("Page")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(res.Body))

	writeTemplate(t, root, "Page.html", "v2")

	assert.Eventually(t, func() bool {
		res, err := engine.Render("Page")
		return err == nil && string(res.Body) == "v2"
	}, 3*time.Second, 50*time.Millisecond)
}
