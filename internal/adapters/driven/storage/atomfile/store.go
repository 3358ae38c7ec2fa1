package atomfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/structdb/internal/core/domain"
	"github.com/custodia-labs/structdb/internal/core/ports/driven"
	"github.com/custodia-labs/structdb/internal/fsutil"
)

// Ensure Store implements the interface.
var _ driven.AtomStore = (*Store)(nil)

// Extension is the file extension of atom files.
const Extension = ".bin"

// Store keeps one atom file per structure id in a single directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir, creating the directory if needed.
func NewStore(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("%w: empty atom store directory", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(dir, fsutil.DirPerm); err != nil {
		return nil, fmt.Errorf("create atom store directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file path for a structure id.
func (s *Store) Path(id string) string {
	return filepath.Join(s.dir, id+Extension)
}

// Exists reports whether an atom file for id is already stored.
func (s *Store) Exists(id string) (bool, error) {
	if err := validateID(id); err != nil {
		return false, err
	}
	_, err := os.Stat(s.Path(id))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Save encodes positions and index and writes them atomically.
func (s *Store) Save(id string, positions []domain.Vec3, index domain.ResidueGroupIndex) error {
	if err := validateID(id); err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(s.Path(id), func(w io.Writer) error {
		return Encode(w, positions, index)
	})
}

// Load reads and decodes the atom file for id.
func (s *Store) Load(id string) ([]domain.Vec3, domain.ResidueGroupIndex, error) {
	if err := validateID(id); err != nil {
		return nil, nil, err
	}
	f, err := os.Open(s.Path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil, fmt.Errorf("%w: atom file for %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	positions, index, err := Decode(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", id, err)
	}
	return positions, index, nil
}

// List returns all stored structure ids, sorted.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list atom store: %w", err)
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != Extension {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, Extension))
	}
	sort.Strings(ids)
	return ids, nil
}

func validateID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: structure id %q", domain.ErrInvalidInput, id)
	}
	return nil
}
