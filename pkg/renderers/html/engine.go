package html

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
	"github.com/goccy/go-json"
	gotemplatepkg "github.com/goliatone/go-template"
)

// EngineOption configures the template engine before construction.
type EngineOption func(*engineConfig)

type engineConfig struct {
	baseDir   string
	templates fs.FS
	extension string
	globals   map[string]any
}

// WithBaseDir loads theme templates from a directory on disk.
func WithBaseDir(dir string) EngineOption {
	return func(cfg *engineConfig) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads theme templates from an fs.FS, typically an embed.FS.
func WithFS(files fs.FS) EngineOption {
	return func(cfg *engineConfig) {
		cfg.templates = files
	}
}

// WithExtension overrides the default ".html" template extension.
func WithExtension(ext string) EngineOption {
	return func(cfg *engineConfig) {
		trimmed := strings.TrimSpace(ext)
		if trimmed == "" {
			return
		}
		if !strings.HasPrefix(trimmed, ".") {
			trimmed = "." + trimmed
		}
		cfg.extension = trimmed
	}
}

// WithGlobals seeds context values available to every template.
func WithGlobals(data map[string]any) EngineOption {
	return func(cfg *engineConfig) {
		if len(data) == 0 {
			return
		}
		if cfg.globals == nil {
			cfg.globals = make(map[string]any, len(data))
		}
		for key, value := range data {
			cfg.globals[strings.TrimSpace(key)] = value
		}
	}
}

// WithEngineOptions exists for callers migrating from go-template backed
// engines and is currently a no-op.
func WithEngineOptions(_ ...gotemplatepkg.Option) EngineOption {
	return func(*engineConfig) {}
}

// Engine renders field markup through a pongo2 template set. Compiled
// templates are cached per path and per source string; the engine is safe for
// concurrent renders.
type Engine struct {
	mu sync.RWMutex

	set      *pongo2.TemplateSet
	byPath   map[string]*pongo2.Template
	bySource map[string]*pongo2.Template
	tplExt   string
}

// NewEngine constructs an Engine. A template source is optional: an engine
// with neither a base directory nor an fs.FS can still render inline template
// strings, which is how the built-in field renderers operate.
func NewEngine(options ...EngineOption) (*Engine, error) {
	cfg := &engineConfig{extension: ".html"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(cfg)
	}

	var loaders []pongo2.TemplateLoader
	if cfg.baseDir != "" {
		loader, err := pongo2.NewLocalFileSystemLoader(cfg.baseDir)
		if err != nil {
			return nil, fmt.Errorf("html: create local loader: %w", err)
		}
		loaders = append(loaders, loader)
	}
	if cfg.templates != nil {
		loaders = append(loaders, pongo2.NewFSLoader(cfg.templates))
	}
	if len(loaders) == 0 {
		// Inline-only engine; pongo2 still needs a loader to build a set.
		loaders = append(loaders, pongo2.MustNewLocalFileSystemLoader(""))
	}

	engine := &Engine{
		set:      pongo2.NewSet("formkit", loaders...),
		byPath:   make(map[string]*pongo2.Template),
		bySource: make(map[string]*pongo2.Template),
		tplExt:   cfg.extension,
	}
	if len(cfg.globals) > 0 {
		ctx, err := toContext(cfg.globals)
		if err != nil {
			return nil, fmt.Errorf("html: apply globals: %w", err)
		}
		if engine.set.Globals == nil {
			engine.set.Globals = make(pongo2.Context)
		}
		engine.set.Globals.Update(ctx)
	}
	return engine, nil
}

// RenderTemplate renders a named template from the configured loaders.
func (e *Engine) RenderTemplate(name string, data any) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("html: engine is nil")
	}
	path := name
	if !strings.HasSuffix(path, e.tplExt) {
		path += e.tplExt
	}

	e.mu.RLock()
	tmpl, ok := e.byPath[path]
	e.mu.RUnlock()
	if !ok {
		e.mu.Lock()
		if tmpl, ok = e.byPath[path]; !ok {
			var err error
			tmpl, err = e.set.FromFile(path)
			if err != nil {
				e.mu.Unlock()
				return "", fmt.Errorf("html: load template %q: %w", path, err)
			}
			e.byPath[path] = tmpl
		}
		e.mu.Unlock()
	}

	return e.execute(tmpl, data, path)
}

// RenderString renders an inline template source, compiling it at most once.
func (e *Engine) RenderString(source string, data any) (string, error) {
	if e == nil || e.set == nil {
		return "", errors.New("html: engine is nil")
	}

	e.mu.RLock()
	tmpl, ok := e.bySource[source]
	e.mu.RUnlock()
	if !ok {
		e.mu.Lock()
		if tmpl, ok = e.bySource[source]; !ok {
			var err error
			tmpl, err = e.set.FromString(source)
			if err != nil {
				e.mu.Unlock()
				return "", fmt.Errorf("html: parse template string: %w", err)
			}
			e.bySource[source] = tmpl
		}
		e.mu.Unlock()
	}

	return e.execute(tmpl, data, "inline")
}

func (e *Engine) execute(tmpl *pongo2.Template, data any, label string) (string, error) {
	ctx, err := toContext(data)
	if err != nil {
		return "", fmt.Errorf("html: convert data: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(ctx, &buf); err != nil {
		return "", fmt.Errorf("html: execute template %s: %w", label, err)
	}
	return buf.String(), nil
}

// toContext normalises arbitrary data into a pongo2 context. Maps pass
// through; structs round-trip through JSON so template lookups see field
// names the way the wire format spells them.
func toContext(data any) (pongo2.Context, error) {
	switch v := data.(type) {
	case nil:
		return pongo2.Context{}, nil
	case pongo2.Context:
		return v, nil
	case map[string]any:
		return pongo2.Context(v), nil
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		out := map[string]any{}
		if err := json.Unmarshal(raw, &out); err != nil {
			return nil, err
		}
		return pongo2.Context(out), nil
	}
}
