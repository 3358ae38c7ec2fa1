// Package manifest persists build manifests as pretty-printed JSON.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/custodia-labs/structdb/internal/core/domain"
	"github.com/custodia-labs/structdb/internal/core/ports/driven"
	"github.com/custodia-labs/structdb/internal/fsutil"
)

// Ensure Store implements the interface.
var _ driven.ManifestStore = (*Store)(nil)

// FileName is the manifest file name inside the output directory.
const FileName = domain.ManifestFileName

// Store reads and writes manifest files.
type Store struct{}

// NewStore creates a manifest store.
func NewStore() *Store {
	return &Store{}
}

// Write replaces the manifest at path atomically.
func (s *Store) Write(path string, m *domain.BuildManifest) error {
	if m == nil {
		return fmt.Errorf("%w: nil manifest", domain.ErrInvalidInput)
	}
	out := *m
	if out.Sequences == nil {
		out.Sequences = []string{}
	}
	if out.InputPaths == nil {
		out.InputPaths = []string{}
	}
	return fsutil.WriteFileAtomic(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "    ")
		return enc.Encode(&out)
	})
}

// Read loads the manifest at path.
func (s *Store) Read(path string) (*domain.BuildManifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: manifest %s", domain.ErrNotFound, path)
	}
	if err != nil {
		return nil, err
	}

	var m domain.BuildManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: manifest %s: %w", domain.ErrParse, path, err)
	}
	return &m, nil
}
