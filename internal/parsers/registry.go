// Package parsers selects and runs structure file parsers.
package parsers

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/custodia-labs/structdb/internal/core/domain"
	"github.com/custodia-labs/structdb/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ParserRegistry = (*Registry)(nil)

// Registry maps structure formats to their parsers.
// It is safe for concurrent use once populated.
type Registry struct {
	mu      sync.RWMutex
	parsers map[domain.Format]driven.StructureParser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{
		parsers: make(map[domain.Format]driven.StructureParser),
	}
}

// Register adds a parser, replacing any parser for the same format.
func (r *Registry) Register(p driven.StructureParser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers[p.Format()] = p
}

// Get returns the parser for a format.
func (r *Registry) Get(format domain.Format) (driven.StructureParser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.parsers[format]
	if !ok {
		return nil, fmt.Errorf("%w: no parser for format %q", domain.ErrUnsupportedType, format)
	}
	return p, nil
}

// Formats returns the registered formats, sorted.
func (r *Registry) Formats() []domain.Format {
	r.mu.RLock()
	defer r.mu.RUnlock()
	formats := make([]domain.Format, 0, len(r.parsers))
	for f := range r.parsers {
		formats = append(formats, f)
	}
	sort.Slice(formats, func(i, j int) bool { return formats[i] < formats[j] })
	return formats
}

// ParseFile opens, decompresses if needed, and parses a structure file.
func (r *Registry) ParseFile(path string) (*domain.ParsedStructure, error) {
	_, format, compressed, err := domain.DetectFormat(path)
	if err != nil {
		return nil, err
	}
	parser, err := r.Get(format)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open structure file: %w", err)
	}
	defer f.Close()

	var src io.Reader = bufio.NewReader(f)
	if compressed {
		gz, err := gzip.NewReader(src)
		if err != nil {
			return nil, fmt.Errorf("%w: gzip: %w", domain.ErrParse, err)
		}
		defer gz.Close()
		src = gz
	}

	return parser.Parse(src)
}
