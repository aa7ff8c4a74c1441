package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anvilhq/anvil/pkg/cookie"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func requestWith(t *testing.T, w *httptest.ResponseRecorder) *http.Request {
	t.Helper()

	req := httptest.NewRequest("GET", "/", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestPlainCookies(t *testing.T) {
	t.Parallel()

	t.Run("set and get round trip", func(t *testing.T) {
		t.Parallel()

		m := cookie.New()
		w := httptest.NewRecorder()
		m.Set(w, "theme", "dark", 3600)

		got, err := m.Get(requestWith(t, w), "theme")
		require.NoError(t, err)
		assert.Equal(t, "dark", got)
	})

	t.Run("missing cookie", func(t *testing.T) {
		t.Parallel()

		m := cookie.New()
		req := httptest.NewRequest("GET", "/", nil)

		_, err := m.Get(req, "absent")
		assert.ErrorIs(t, err, cookie.ErrNotFound)
	})

	t.Run("delete expires", func(t *testing.T) {
		t.Parallel()

		m := cookie.New()
		w := httptest.NewRecorder()
		m.Delete(w, "theme")

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, -1, cookies[0].MaxAge)
		assert.Empty(t, cookies[0].Value)
	})

	t.Run("attribute options applied", func(t *testing.T) {
		t.Parallel()

		m := cookie.New(
			cookie.WithDomain("example.com"),
			cookie.WithPath("/app"),
			cookie.WithSecure(true),
			cookie.WithSameSite(http.SameSiteStrictMode),
		)
		w := httptest.NewRecorder()
		m.Set(w, "theme", "dark", 0)

		c := w.Result().Cookies()[0]
		assert.Equal(t, "example.com", c.Domain)
		assert.Equal(t, "/app", c.Path)
		assert.True(t, c.Secure)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	})
}

func TestSignedCookies(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		m := cookie.New(cookie.WithSecret(testSecret))
		w := httptest.NewRecorder()
		require.NoError(t, m.SetSigned(w, "session", "user-42", 3600))

		got, err := m.GetSigned(requestWith(t, w), "session")
		require.NoError(t, err)
		assert.Equal(t, "user-42", got)
	})

	t.Run("tampered value rejected", func(t *testing.T) {
		t.Parallel()

		m := cookie.New(cookie.WithSecret(testSecret))
		w := httptest.NewRecorder()
		require.NoError(t, m.SetSigned(w, "session", "user-42", 3600))

		c := w.Result().Cookies()[0]
		req := httptest.NewRequest("GET", "/", nil)
		req.AddCookie(&http.Cookie{Name: c.Name, Value: "x" + c.Value})

		_, err := m.GetSigned(req, "session")
		assert.ErrorIs(t, err, cookie.ErrBadSig)
	})

	t.Run("different secret rejected", func(t *testing.T) {
		t.Parallel()

		m := cookie.New(cookie.WithSecret(testSecret))
		w := httptest.NewRecorder()
		require.NoError(t, m.SetSigned(w, "session", "user-42", 3600))

		other := cookie.New(cookie.WithSecret(strings.Repeat("z", 32)))
		_, err := other.GetSigned(requestWith(t, w), "session")
		assert.ErrorIs(t, err, cookie.ErrBadSig)
	})

	t.Run("requires secret", func(t *testing.T) {
		t.Parallel()

		m := cookie.New()
		w := httptest.NewRecorder()
		assert.ErrorIs(t, m.SetSigned(w, "session", "v", 0), cookie.ErrNoSecret)

		_, err := m.GetSigned(httptest.NewRequest("GET", "/", nil), "session")
		assert.ErrorIs(t, err, cookie.ErrNoSecret)
	})

	t.Run("short secret ignored", func(t *testing.T) {
		t.Parallel()

		m := cookie.New(cookie.WithSecret("too-short"))
		w := httptest.NewRecorder()
		assert.ErrorIs(t, m.SetSigned(w, "session", "v", 0), cookie.ErrNoSecret)
	})
}

func TestEncryptedCookies(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		m := cookie.New(cookie.WithSecret(testSecret))
		w := httptest.NewRecorder()
		require.NoError(t, m.SetEncrypted(w, "state", `{"cart":3}`, 3600))

		c := w.Result().Cookies()[0]
		assert.NotContains(t, c.Value, "cart")

		got, err := m.GetEncrypted(requestWith(t, w), "state")
		require.NoError(t, err)
		assert.Equal(t, `{"cart":3}`, got)
	})

	t.Run("corrupted payload rejected", func(t *testing.T) {
		t.Parallel()

		m := cookie.New(cookie.WithSecret(testSecret))
		req := httptest.NewRequest("GET", "/", nil)
		req.AddCookie(&http.Cookie{Name: "state", Value: "bm90LXJlYWwtY2lwaGVydGV4dA"})

		_, err := m.GetEncrypted(req, "state")
		assert.ErrorIs(t, err, cookie.ErrDecrypt)
	})
}
