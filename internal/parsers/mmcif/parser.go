// Package mmcif parses the atom_site loop of PDBx/mmCIF structure files.
package mmcif

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/custodia-labs/structdb/internal/core/domain"
	"github.com/custodia-labs/structdb/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.StructureParser = (*Parser)(nil)

const (
	atomSitePrefix   = "_atom_site."
	atomCountItem    = "_refine_hist.pdbx_number_atoms_protein"
	atomRecord       = "ATOM"
	loopTerminator   = "#"
	hydrogenSymbol   = "H"
	maxLineBytes     = 1 << 20
	residueCodeWidth = 3
)

// Column labels of the atom_site loop that the parser needs.
const (
	colSymbol   = "type_symbol"
	colAssembly = "label_asym_id"
	colSeqID    = "label_seq_id"
	colResidue  = "label_comp_id"
	colX        = "Cartn_x"
	colY        = "Cartn_y"
	colZ        = "Cartn_z"
)

var requiredColumns = []string{colSymbol, colAssembly, colSeqID, colResidue, colX, colY, colZ}

// Parser reads mmCIF files.
//
// Header lines are scanned first to build a column map of the atom_site
// loop and to read the declared protein atom count. Data rows are then
// indexed through that map, so column order may differ between files.
//
// When the header declares a positive atom count, heavy atoms are retained.
// Without a declared count only hydrogen atoms are retained. Both branches
// mirror the two upstream conventions this reader has to accept.
type Parser struct{}

// New creates a new mmCIF parser.
func New() *Parser {
	return &Parser{}
}

// Format returns the format this parser handles.
func (p *Parser) Format() domain.Format {
	return domain.FormatMMCIF
}

// header is the result of the first pass.
type header struct {
	// atomCount is the declared protein atom count, or -1 if absent.
	atomCount int
	columns   map[string]int
	width     int
}

func (h *header) column(label string) int {
	return h.columns[label]
}

// Parse reads an mmCIF stream into a ParsedStructure.
func (p *Parser) Parse(r io.Reader) (*domain.ParsedStructure, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	lineNo := 0
	hdr, firstRow, found, err := readHeader(scanner, &lineNo)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: no ATOM records", domain.ErrParse)
	}

	keep := func(symbol string) bool { return symbol == hydrogenSymbol }
	capacity := 0
	if hdr.atomCount > 0 {
		keep = func(symbol string) bool { return symbol != hydrogenSymbol }
		capacity = hdr.atomCount
	}

	out := &domain.ParsedStructure{
		Sequence:  make([]string, 0, capacity),
		Positions: make([]domain.Vec3, 0, capacity),
		Groups:    make([]string, 0, capacity),
	}

	line := firstRow
	for {
		if strings.HasPrefix(line, loopTerminator) {
			break
		}
		if strings.HasPrefix(line, atomRecord) {
			if err := appendRow(out, hdr, line, lineNo, keep); err != nil {
				return nil, err
			}
		}
		if !scanner.Scan() {
			break
		}
		lineNo++
		line = scanner.Text()
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading line %d: %w", domain.ErrParse, lineNo, err)
	}

	if out.Len() == 0 {
		return nil, fmt.Errorf("%w: no atoms retained", domain.ErrParse)
	}
	return shrink(out), nil
}

// readHeader consumes lines up to and including the first ATOM row.
func readHeader(scanner *bufio.Scanner, lineNo *int) (*header, string, bool, error) {
	hdr := &header{atomCount: -1, columns: make(map[string]int)}
	known := make(map[string]struct{}, len(requiredColumns))
	for _, label := range requiredColumns {
		known[label] = struct{}{}
	}

	for scanner.Scan() {
		*lineNo++
		line := scanner.Text()

		if strings.HasPrefix(line, atomRecord) {
			if err := hdr.validate(); err != nil {
				return nil, "", false, err
			}
			return hdr, line, true, nil
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch {
		case fields[0] == atomCountItem:
			n, err := strconv.Atoi(fields[len(fields)-1])
			if len(fields) < 2 || err != nil || n < 0 {
				return nil, "", false, fmt.Errorf("%w: line %d: malformed atom count %q",
					domain.ErrParse, *lineNo, strings.TrimSpace(line))
			}
			hdr.atomCount = n

		case strings.HasPrefix(fields[0], atomSitePrefix):
			label := strings.TrimPrefix(fields[0], atomSitePrefix)
			if _, ok := known[label]; ok {
				hdr.columns[label] = hdr.width
			}
			hdr.width++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, "", false, fmt.Errorf("%w: reading line %d: %w", domain.ErrParse, *lineNo, err)
	}
	return hdr, "", false, nil
}

func (h *header) validate() error {
	var missing []string
	for _, label := range requiredColumns {
		if _, ok := h.columns[label]; !ok {
			missing = append(missing, label)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: atom_site loop missing columns %s", domain.ErrParse, strings.Join(missing, ", "))
	}
	return nil
}

func appendRow(out *domain.ParsedStructure, hdr *header, line string, lineNo int, keep func(string) bool) error {
	fields := strings.Fields(line)
	if len(fields) < hdr.width {
		return fmt.Errorf("%w: line %d: expected %d columns, found %d",
			domain.ErrParse, lineNo, hdr.width, len(fields))
	}

	residue := fields[hdr.column(colResidue)]
	if len(residue) != residueCodeWidth || !keep(fields[hdr.column(colSymbol)]) {
		return nil
	}

	var pos domain.Vec3
	for i, label := range []string{colX, colY, colZ} {
		v, err := strconv.ParseFloat(fields[hdr.column(label)], 32)
		if err != nil {
			return fmt.Errorf("%w: line %d: bad coordinate %q", domain.ErrParse, lineNo, fields[hdr.column(label)])
		}
		pos[i] = float32(v)
	}

	out.Sequence = append(out.Sequence, residue)
	out.Positions = append(out.Positions, pos)
	out.Groups = append(out.Groups, fields[hdr.column(colAssembly)]+fields[hdr.column(colSeqID)])
	return nil
}

// shrink releases capacity reserved from the declared atom count.
func shrink(s *domain.ParsedStructure) *domain.ParsedStructure {
	n := s.Len()
	if cap(s.Positions) == n {
		return s
	}
	out := &domain.ParsedStructure{
		Sequence:  make([]string, n),
		Positions: make([]domain.Vec3, n),
		Groups:    make([]string, n),
	}
	copy(out.Sequence, s.Sequence)
	copy(out.Positions, s.Positions)
	copy(out.Groups, s.Groups)
	return out
}
