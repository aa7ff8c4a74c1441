package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults applied", func(t *testing.T) {
		t.Parallel()

		cfg := Config{Bucket: "b", AccessKey: "a", SecretKey: "s"}
		cfg.applyDefaults()

		assert.Equal(t, DefaultRegion, cfg.Region)
		assert.Equal(t, ACLPrivate, cfg.DefaultACL)
	})

	t.Run("missing required fields rejected", func(t *testing.T) {
		t.Parallel()

		for _, cfg := range []Config{
			{},
			{Bucket: "b"},
			{Bucket: "b", AccessKey: "a"},
		} {
			assert.ErrorIs(t, cfg.validate(), ErrInvalidConfig)
		}
	})

	t.Run("new rejects invalid config", func(t *testing.T) {
		t.Parallel()

		_, err := New(Config{})
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestBuildKey(t *testing.T) {
	t.Parallel()

	s, err := New(Config{Bucket: "b", AccessKey: "a", SecretKey: "s"})
	require.NoError(t, err)

	t.Run("extension follows content type", func(t *testing.T) {
		t.Parallel()

		key := s.buildKey("", "image/png")
		assert.True(t, len(key) > len(".png"))
		assert.Contains(t, key, ".png")
		assert.NotContains(t, key, "/")
	})

	t.Run("unknown type falls back to bin", func(t *testing.T) {
		t.Parallel()

		key := s.buildKey("", "application/x-mystery")
		assert.Contains(t, key, ".bin")
	})

	t.Run("prefix sanitized", func(t *testing.T) {
		t.Parallel()

		key := s.buildKey("../etc/passwd", "text/plain; charset=utf-8")
		assert.NotContains(t, key, "..")
		assert.Contains(t, key, ".txt")
	})

	t.Run("keys are unique", func(t *testing.T) {
		t.Parallel()

		assert.NotEqual(t, s.buildKey("uploads", "image/png"), s.buildKey("uploads", "image/png"))
	})
}

func TestPublicURL(t *testing.T) {
	t.Parallel()

	t.Run("cdn prefix wins", func(t *testing.T) {
		t.Parallel()

		s, err := New(Config{
			Bucket: "b", AccessKey: "a", SecretKey: "s",
			PublicURL: "https://cdn.example.com/",
		})
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/uploads/pic.png", s.publicURL("uploads/pic.png"))
	})

	t.Run("path style endpoint", func(t *testing.T) {
		t.Parallel()

		s, err := New(Config{
			Bucket: "files", AccessKey: "a", SecretKey: "s",
			Endpoint: "http://localhost:9000", PathStyle: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:9000/files/pic.png", s.publicURL("pic.png"))
	})

	t.Run("default aws format", func(t *testing.T) {
		t.Parallel()

		s, err := New(Config{Bucket: "files", AccessKey: "a", SecretKey: "s"})
		require.NoError(t, err)
		assert.Equal(t, "https://files.s3.us-east-1.amazonaws.com/pic.png", s.publicURL("pic.png"))
	})
}

func TestMIME(t *testing.T) {
	t.Parallel()

	t.Run("ext lookup normalizes parameters", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, ".txt", ExtFromMIME("text/plain; charset=utf-8"))
		assert.Equal(t, ".png", ExtFromMIME("IMAGE/PNG"))
		assert.Empty(t, ExtFromMIME("application/x-mystery"))
	})

	t.Run("nil header falls back", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, MIMEOctetStream, DetectMIME(nil))
	})
}
