package views

import (
	"bytes"
	"context"
	"html/template"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/singleflight"
)

// DefaultContentType is used when a render call does not override it.
const DefaultContentType = "text/html; charset=utf-8"

// Engine locates, compiles, and executes templates from a root directory.
// Compiled templates are cached; cache population is deduplicated so at
// most one compilation per template name runs at a time. All methods are
// safe for concurrent use.
type Engine struct {
	locator *Locator
	funcs   template.FuncMap
	logger  *slog.Logger
	watcher *fsnotify.Watcher

	mu    sync.RWMutex
	cache map[string]*template.Template
	group singleflight.Group
}

// Option configures the Engine.
type Option func(*Engine)

// WithExtension sets the default template file extension.
// Defaults to ".html".
func WithExtension(ext string) Option {
	return func(e *Engine) {
		if ext != "" {
			e.locator = NewLocator(e.locator.Root(), ext)
		}
	}
}

// WithFuncs merges additional template functions over the defaults.
func WithFuncs(funcs template.FuncMap) Option {
	return func(e *Engine) {
		for name, fn := range funcs {
			e.funcs[name] = fn
		}
	}
}

// WithLogger sets the engine logger. Defaults to a discarding logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Engine rendering templates from rootDir.
func New(rootDir string, opts ...Option) (*Engine, error) {
	e := &Engine{
		locator: NewLocator(rootDir, ""),
		funcs:   defaultFuncs(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		cache:   make(map[string]*template.Template),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// EnableReload watches the template root and evicts cached templates when
// their source files change. Intended for development; production setups
// keep the immutable cache. Call Close to stop the watcher.
func (e *Engine) EnableReload() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(e.locator.Root()); err != nil {
		_ = w.Close()
		return err
	}
	e.watcher = w
	go e.watch()
	return nil
}

// Close stops the reload watcher if one is running.
func (e *Engine) Close() error {
	if e.watcher == nil {
		return nil
	}
	return e.watcher.Close()
}

// ShutdownHook adapts Close to the server shutdown hook signature.
func (e *Engine) ShutdownHook() func(context.Context) error {
	return func(context.Context) error {
		return e.Close()
	}
}

// watch drains watcher events and invalidates affected cache entries.
func (e *Engine) watch() {
	for {
		select {
		case ev, ok := <-e.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				e.invalidate(filepath.Base(ev.Name))
			}
		case err, ok := <-e.watcher.Errors:
			if !ok {
				return
			}
			e.logger.Warn("template watcher error", slog.Any("error", err))
		}
	}
}

// invalidate drops cached templates whose source file matches base.
func (e *Engine) invalidate(base string) {
	name := strings.TrimSuffix(base, filepath.Ext(base))

	e.mu.Lock()
	defer e.mu.Unlock()
	for key := range e.cache {
		if key == name || key == base || filepath.Base(key) == base {
			delete(e.cache, key)
			e.logger.Debug("template cache invalidated", slog.String("template", key))
		}
	}
}

// template returns the compiled template for name, compiling on first use.
func (e *Engine) template(name string) (*template.Template, error) {
	e.mu.RLock()
	t, ok := e.cache[name]
	e.mu.RUnlock()
	if ok {
		return t, nil
	}

	v, err, _ := e.group.Do(name, func() (any, error) {
		// Re-check under the group: a concurrent caller may have
		// populated the cache while this call waited.
		e.mu.RLock()
		t, ok := e.cache[name]
		e.mu.RUnlock()
		if ok {
			return t, nil
		}

		path, err := e.locator.Locate(name)
		if err != nil {
			return nil, err
		}

		t, err = template.New(filepath.Base(path)).Funcs(e.funcs).ParseFiles(path)
		if err != nil {
			return nil, &RenderError{Template: name, Err: err}
		}

		e.mu.Lock()
		e.cache[name] = t
		e.mu.Unlock()
		e.logger.Debug("template compiled", slog.String("template", name))
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*template.Template), nil
}

// Render executes the named template against the configured model, view
// data, and validation state, returning the finished Result. Nothing is
// written anywhere; the caller decides how the Result reaches a response.
// Rendering is deterministic for fixed inputs.
func (e *Engine) Render(name string, opts ...RenderOption) (*Result, error) {
	cfg := renderConfig{
		contentType: DefaultContentType,
		status:      200,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	t, err := e.template(name)
	if err != nil {
		return nil, err
	}

	scope := Scope{
		Model:  cfg.model,
		Data:   cfg.data,
		Errors: cfg.validation,
	}
	if scope.Data == nil {
		scope.Data = Data{}
	}
	if scope.Errors == nil {
		scope.Errors = ValidationState{}
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, scope); err != nil {
		return nil, &RenderError{Template: name, Err: err}
	}

	return &Result{
		Body:        buf.Bytes(),
		ContentType: cfg.contentType,
		Status:      cfg.status,
	}, nil
}
