// Package filesystem discovers structure files on local disk and watches
// input directories for new ones.
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/structdb/internal/core/domain"
	"github.com/custodia-labs/structdb/internal/core/ports/driven"
	"github.com/custodia-labs/structdb/internal/logger"
)

// Ensure Finder implements the interface.
var _ driven.StructureFinder = (*Finder)(nil)

// Finder walks input paths for structure files.
type Finder struct {
	log *logger.Logger
}

// NewFinder creates a structure file finder.
func NewFinder(log *logger.Logger) *Finder {
	return &Finder{log: log}
}

// Find maps each structure id to its file path.
//
// Inputs are visited in the order given and directories are walked
// recursively in lexical order, skipping hidden entries. Files whose
// extension is not a structure format are ignored. When two files derive
// the same id the later one wins and a warning is logged.
func (f *Finder) Find(ctx context.Context, inputPaths []string) (map[string]string, error) {
	found := make(map[string]string)

	add := func(path string) {
		id, _, _, err := domain.DetectFormat(path)
		if err != nil {
			return
		}
		if prev, ok := found[id]; ok && prev != path {
			f.log.Warn("Duplicate structure id %s: %s replaces %s", id, path, prev)
		}
		found[id] = path
	}

	for _, input := range inputPaths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := os.Stat(input)
		if err != nil {
			f.log.Warn("Skipping input %s: %v", input, err)
			continue
		}

		if !info.IsDir() {
			if _, _, _, err := domain.DetectFormat(input); err != nil {
				f.log.Warn("Skipping input %s: not a structure file", input)
				continue
			}
			add(input)
			continue
		}

		err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				f.log.Warn("Skipping %s: %v", path, err)
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if path != input && isHidden(d.Name()) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.Type().IsRegular() {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", input, err)
		}
	}

	if len(found) == 0 {
		return nil, fmt.Errorf("%w under %s", domain.ErrDiscovery, strings.Join(inputPaths, ", "))
	}
	f.log.Debug("Discovered %d structure files", len(found))
	return found, nil
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == filepath.Separator
	}) {
		if part != "." && part != ".." && strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
