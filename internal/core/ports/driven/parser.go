package driven

import (
	"io"

	"github.com/custodia-labs/structdb/internal/core/domain"
)

// StructureParser reads one structure file format.
type StructureParser interface {
	// Format returns the format this parser handles.
	Format() domain.Format

	// Parse reads a structure stream into a ParsedStructure.
	// Returns an error wrapping domain.ErrParse when no coordinate records
	// are found or the header is malformed.
	Parse(r io.Reader) (*domain.ParsedStructure, error)
}

// ParserRegistry selects a parser for a structure file.
type ParserRegistry interface {
	// Register adds a parser, replacing any parser for the same format.
	Register(p StructureParser)

	// Get returns the parser for a format.
	// Returns domain.ErrUnsupportedType if none is registered.
	Get(format domain.Format) (StructureParser, error)

	// ParseFile opens, decompresses if needed, and parses a structure file.
	// The format is derived from the file extension.
	ParseFile(path string) (*domain.ParsedStructure, error)
}
