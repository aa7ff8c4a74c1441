package views

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultExtension is appended to template names that carry no extension.
const DefaultExtension = ".html"

// Locator resolves template names to files under a single root directory.
// A name must resolve to exactly one existing file inside the root;
// anything else is ErrTemplateNotFound. There is no fallback chain.
type Locator struct {
	root string
	ext  string
}

// NewLocator creates a Locator for the given root directory.
// If ext is empty, DefaultExtension is used.
func NewLocator(root, ext string) *Locator {
	if ext == "" {
		ext = DefaultExtension
	}
	return &Locator{root: filepath.Clean(root), ext: ext}
}

// Root returns the configured root directory.
func (l *Locator) Root() string {
	return l.root
}

// Locate resolves a template name to an absolute file path under the root.
// Names are slash-separated and relative; the default extension is appended
// when the name has none. Traversal sequences, absolute paths, and names
// that resolve outside the root fail with ErrTemplateNotFound rather than
// being normalized away.
func (l *Locator) Locate(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrTemplateNotFound)
	}
	if strings.ContainsRune(name, '\\') || filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == ".." || seg == "" {
			return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
		}
	}

	rel := name
	if filepath.Ext(rel) == "" {
		rel += l.ext
	}

	full := filepath.Join(l.root, filepath.FromSlash(rel))

	// Join cleans the path; verify the result is still inside the root.
	if r, err := filepath.Rel(l.root, full); err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}

	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}

	return full, nil
}
