package configure

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/whisper-darkly/sticky-dvr/internal/config"
	"github.com/whisper-darkly/sticky-dvr/internal/confmap"
	"github.com/whisper-darkly/sticky-dvr/internal/envfile"
	"github.com/whisper-darkly/sticky-dvr/internal/render"
	"github.com/whisper-darkly/sticky-dvr/internal/secrets"
)

const envFileName = ".env"

// Layer is one ordered configuration source. A missing optional layer is
// skipped with a warning; a missing required layer aborts the run.
type Layer struct {
	Name     string
	Path     string
	Optional bool
}

// knownSecrets are the deployment credentials every run resolves whether or
// not a template references them; the values feed the derived env file.
var knownSecrets = []struct {
	key        string
	descriptor secrets.Descriptor
}{
	{"jwt_secret", secrets.Descriptor{Type: secrets.TypeHex, Bytes: 32}},
	{"db_admin_pass", secrets.Descriptor{Type: secrets.TypeURLSafe, Bytes: 18}},
	{"db_app_pass", secrets.Descriptor{Type: secrets.TypeURLSafe, Bytes: 18}},
	{"admin_password", secrets.Descriptor{Type: secrets.TypeURLSafe, Bytes: 18}},
}

// Pipeline wires the layer merger, secret resolver, store, renderer, and env
// writer into one run.
type Pipeline struct {
	cfg      config.Config
	store    *secrets.Store
	renderer *render.Renderer
	logger   *zap.Logger
}

// Result reports the outcome of a run.
type Result struct {
	Tree      confmap.Tree
	Generated []string
	Artifacts []string
}

// New initializes the pipeline from the provided configuration.
func New(cfg config.Config, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		store:    secrets.NewStore(cfg.SecretsFile),
		renderer: render.New(cfg.TemplatesDir, logger),
		logger:   logger,
	}
}

// Layers returns the layer stack for this run in ascending precedence:
// tracked defaults first, then the local override. The local layer is the
// explicit --local path when given (required), otherwise the default local
// file next to the base config (optional), unless skipped entirely.
func (p *Pipeline) Layers() []Layer {
	layers := []Layer{{Name: "defaults", Path: p.cfg.BaseConfig}}

	switch {
	case p.cfg.SkipLocal:
	case p.cfg.LocalConfig != "":
		layers = append(layers, Layer{Name: "local", Path: p.cfg.LocalConfig})
	default:
		path := filepath.Join(filepath.Dir(p.cfg.BaseConfig), config.DefaultLocalPath)
		layers = append(layers, Layer{Name: "local", Path: path, Optional: true})
	}
	return layers
}

// Run executes the full resolution pipeline. Secrets resolve only after all
// layers are merged, so a pin in any layer always preempts generation.
func (p *Pipeline) Run() (*Result, error) {
	p.logger.Info("rendering templates", zap.String("out", p.cfg.OutDir))

	tree, err := p.mergeLayers(p.Layers())
	if err != nil {
		return nil, err
	}

	if !p.store.Exists() {
		p.logger.Warn("secret store not found, starting empty", zap.String("path", p.store.Path()))
	}
	records, err := p.store.Load()
	if err != nil {
		return nil, err
	}
	session := secrets.NewSession(tree, records)

	resolved := make(map[string]string, len(knownSecrets))
	for _, known := range knownSecrets {
		value, err := session.Resolve(known.key, known.descriptor)
		if err != nil {
			return nil, err
		}
		resolved[known.key] = value
	}

	if err := os.MkdirAll(p.cfg.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", p.cfg.OutDir, err)
	}

	boundResolve := func(key, secretType string, byteLength int) (string, error) {
		return session.Resolve(key, secrets.Descriptor{Type: secretType, Bytes: byteLength})
	}
	artifacts, err := p.renderer.RenderAll(p.cfg.OutDir, tree, boundResolve)
	if err != nil {
		return nil, err
	}

	if err := p.store.Flush(session.Records(), session.Dirty()); err != nil {
		return nil, err
	}
	if session.Dirty() {
		p.logger.Info("generated secrets",
			zap.Strings("keys", session.Generated()),
			zap.String("store", p.store.Path()))
	}

	envPath := filepath.Join(p.cfg.OutDir, envFileName)
	err = envfile.Write(envPath, tree, envfile.Secrets{
		JWTSecret:     resolved["jwt_secret"],
		DBAdminPass:   resolved["db_admin_pass"],
		DBAppPass:     resolved["db_app_pass"],
		AdminPassword: resolved["admin_password"],
	})
	if err != nil {
		return nil, err
	}
	p.logger.Info("wrote env file", zap.String("dest", envPath))
	artifacts = append(artifacts, envPath)

	return &Result{
		Tree:      tree,
		Generated: session.Generated(),
		Artifacts: artifacts,
	}, nil
}

// mergeLayers folds the layer stack into one tree, lowest precedence first.
func (p *Pipeline) mergeLayers(layers []Layer) (confmap.Tree, error) {
	merged := confmap.Tree{}
	for _, layer := range layers {
		tree, found, err := loadLayer(layer)
		if err != nil {
			return nil, err
		}
		if !found {
			p.logger.Warn("optional layer missing, skipped",
				zap.String("layer", layer.Name),
				zap.String("path", layer.Path))
			continue
		}
		merged = confmap.Merge(merged, tree)
		p.logger.Info("merged layer",
			zap.String("layer", layer.Name),
			zap.String("path", layer.Path))
	}
	return merged, nil
}

// loadLayer reads and parses one layer document. found is false only for a
// missing optional layer; an empty document is an empty tree, not a miss.
func loadLayer(layer Layer) (confmap.Tree, bool, error) {
	data, err := os.ReadFile(layer.Path)
	if errors.Is(err, os.ErrNotExist) && layer.Optional {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load %s layer %s: %w", layer.Name, layer.Path, err)
	}

	var tree confmap.Tree
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, false, fmt.Errorf("parse %s layer %s: %w", layer.Name, layer.Path, err)
	}
	if tree == nil {
		tree = confmap.Tree{}
	}
	return tree, true, nil
}


