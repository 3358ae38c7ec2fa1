// Package pdb parses ATOM records of legacy fixed-column PDB files.
package pdb

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/custodia-labs/structdb/internal/core/domain"
	"github.com/custodia-labs/structdb/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.StructureParser = (*Parser)(nil)

// Column ranges of an ATOM record (zero-based, half-open).
const (
	colRecordStart  = 0
	colRecordEnd    = 6
	colAtomStart    = 12
	colAtomEnd      = 16
	colAltLoc       = 16
	colResNameStart = 17
	colResNameEnd   = 20
	colChain        = 21
	colResSeqStart  = 22
	colResSeqEnd    = 26
	colInsCode      = 26
	colXStart       = 30
	colYStart       = 38
	colZStart       = 46
	colZEnd         = 54
	colElemStart    = 76
	colElemEnd      = 78
)

// Parser reads the first model of a PDB file.
// Only heavy atoms of standard amino-acid residues are retained; for atoms
// with alternate locations only the first conformer is kept.
type Parser struct{}

// New creates a new PDB parser.
func New() *Parser {
	return &Parser{}
}

// Format returns the format this parser handles.
func (p *Parser) Format() domain.Format {
	return domain.FormatPDB
}

// Parse reads a PDB stream into a ParsedStructure.
func (p *Parser) Parse(r io.Reader) (*domain.ParsedStructure, error) {
	scanner := bufio.NewScanner(r)
	out := &domain.ParsedStructure{}

	atomRecords := 0
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		record := strings.TrimSpace(field(line, colRecordStart, colRecordEnd))
		if record == "ENDMDL" || record == "END" {
			break
		}
		if record != "ATOM" {
			continue
		}
		atomRecords++

		if len(line) < colZEnd {
			return nil, fmt.Errorf("%w: line %d: ATOM record too short (%d columns)", domain.ErrParse, lineNo, len(line))
		}

		residue := strings.TrimSpace(field(line, colResNameStart, colResNameEnd))
		if !domain.IsStandardResidue(residue) || isHydrogen(line) {
			continue
		}
		if alt := line[colAltLoc]; alt != ' ' && alt != 'A' && alt != '1' {
			continue
		}

		var pos domain.Vec3
		for i, start := range []int{colXStart, colYStart, colZStart} {
			raw := strings.TrimSpace(line[start : start+8])
			v, err := strconv.ParseFloat(raw, 32)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: bad coordinate %q", domain.ErrParse, lineNo, raw)
			}
			pos[i] = float32(v)
		}

		group := string(line[colChain]) +
			strings.TrimSpace(line[colResSeqStart:colResSeqEnd]) +
			strings.TrimSpace(string(line[colInsCode]))

		out.Sequence = append(out.Sequence, residue)
		out.Positions = append(out.Positions, pos)
		out.Groups = append(out.Groups, group)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading line %d: %w", domain.ErrParse, lineNo, err)
	}

	if atomRecords == 0 {
		return nil, fmt.Errorf("%w: no ATOM records", domain.ErrParse)
	}
	if out.Len() == 0 {
		return nil, fmt.Errorf("%w: no atoms retained", domain.ErrParse)
	}
	return out, nil
}

// isHydrogen uses the element column when present and falls back to the
// first letter of the atom name.
func isHydrogen(line string) bool {
	if element := strings.TrimSpace(field(line, colElemStart, colElemEnd)); element != "" {
		return element == "H" || element == "D"
	}
	name := strings.TrimLeftFunc(field(line, colAtomStart, colAtomEnd), func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsDigit(r)
	})
	return strings.HasPrefix(name, "H") || strings.HasPrefix(name, "D")
}

// field returns line[start:end], clipped to the line length.
func field(line string, start, end int) string {
	if start >= len(line) {
		return ""
	}
	if end > len(line) {
		end = len(line)
	}
	return line[start:end]
}
