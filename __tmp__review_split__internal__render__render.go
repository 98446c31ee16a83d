package render

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	gotemplate "github.com/goliatone/go-template"
	"go.uber.org/zap"
)

// templateSuffix marks renderable files; the suffix is stripped from the
// artifact name.
const templateSuffix = ".j2"

// SecretFunc resolves a secret reference encountered in a template.
type SecretFunc func(key, secretType string, byteLength int) (string, error)

// Renderer renders every template under a directory with the merged
// configuration tree exposed as "config" and a "secret" function bound to
// the run's resolver. Template syntax is pongo2, the Go rendition of the
// Jinja2 dialect the deployment templates are written in.
type Renderer struct {
	templatesDir string
	logger       *zap.Logger
}

// New returns a renderer over the given template directory.
func New(templatesDir string, logger *zap.Logger) *Renderer {
	return &Renderer{templatesDir: templatesDir, logger: logger}
}

// RenderAll renders each *.j2 template in sorted path order into outDir,
// preserving subdirectories and stripping the suffix. It returns the written
// artifact paths. Any error, including one raised by the secret resolver
// inside a template, aborts the run.
func (r *Renderer) RenderAll(outDir string, config map[string]any, resolve SecretFunc) ([]string, error) {
	// pongo2 calls context functions with plain return values, so resolver
	// failures are captured on the side and surfaced after each render.
	var resolveErr error
	secretFn := func(key, secretType string, byteLength int) string {
		value, err := resolve(key, secretType, byteLength)
		if err != nil && resolveErr == nil {
			resolveErr = err
		}
		return value
	}

	engine, err := gotemplate.NewRenderer(
		gotemplate.WithBaseDir(r.templatesDir),
		gotemplate.WithTemplateFunc(map[string]any{"secret": secretFn}),
	)
	if err != nil {
		return nil, fmt.Errorf("init template engine: %w", err)
	}

	templates, err := r.discover()
	if err != nil {
		return nil, err
	}

	written := make([]string, 0, len(templates))
	for _, rel := range templates {
		raw, err := os.ReadFile(filepath.Join(r.templatesDir, rel))
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", rel, err)
		}

		rendered, err := engine.RenderString(string(raw), map[string]any{"config": config})
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", rel, err)
		}
		if resolveErr != nil {
			return nil, fmt.Errorf("render %s: %w", rel, resolveErr)
		}

		dest := filepath.Join(outDir, strings.TrimSuffix(rel, templateSuffix))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return nil, fmt.Errorf("create output dir for %s: %w", rel, err)
		}
		if err := os.WriteFile(dest, []byte(rendered), 0o644); err != nil {
			return nil, fmt.Errorf("write artifact %s: %w", dest, err)
		}

		r.logger.Info("rendered template", zap.String("template", rel), zap.String("dest", dest))
		written = append(written, dest)
	}
	return written, nil
}

// discover lists template paths relative to the templates dir, sorted so
// render and write order is deterministic.
func (r *Renderer) discover() ([]string, error) {
	var rels []string
	err := filepath.WalkDir(r.templatesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), templateSuffix) {
			return nil
		}
		rel, err := filepath.Rel(r.templatesDir, path)
		if err != nil {
			return err
		}
		rels = append(rels, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan templates %s: %w", r.templatesDir, err)
	}
	sort.Strings(rels)
	return rels, nil
}


