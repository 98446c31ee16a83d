package secrets

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// storeDocument is the on-disk shape of the secret store file.
type storeDocument struct {
	Secrets map[string]string `yaml:"secrets"`
}

// Store persists generated secret records in a YAML file so values stay
// stable across runs. The file is loaded once at run start and rewritten at
// most once at run end.
type Store struct {
	path string
}

// NewStore returns a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the store file is present on disk.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the record set. A missing file is an empty record set, not an
// error; malformed content is fatal. An empty or null document, or one
// without a secrets section, is likewise an empty record set.
func (s *Store) Load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read secret store %s: %w", s.path, err)
	}

	var doc storeDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse secret store %s: %w", s.path, err)
	}
	if doc.Secrets == nil {
		return map[string]string{}, nil
	}
	return doc.Secrets, nil
}

// Flush rewrites the store with the full record set. It is a no-op unless
// dirty, leaving the file's content and modification time untouched when no
// secret was generated. The write is atomic: new content lands in a temp
// file that replaces the old store by rename, so an interrupted flush never
// corrupts previously persisted records. Mode 0600; the contents are
// credential material.
func (s *Store) Flush(records map[string]string, dirty bool) error {
	if !dirty {
		return nil
	}

	data, err := yaml.Marshal(storeDocument{Secrets: records})
	if err != nil {
		return fmt.Errorf("encode secret store: %w", err)
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("flush secret store %s: %w", s.path, err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename into place: %w", err)
	}

	if dir, err := os.Open(filepath.Dir(path)); err == nil {
		_ = dir.Sync()
		_ = dir.Close()
	}
	return nil
}
