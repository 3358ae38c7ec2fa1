package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Vec3 is a Cartesian coordinate in ångström.
type Vec3 [3]float32

// Format identifies the on-disk layout of a structure file.
type Format string

// Supported structure file formats.
const (
	// FormatPDB is the legacy fixed-column PDB layout.
	FormatPDB Format = "pdb"

	// FormatMMCIF is the tagged-column PDBx/mmCIF layout.
	FormatMMCIF Format = "mmcif"
)

// IsValid returns true if the format is recognised.
func (f Format) IsValid() bool {
	switch f {
	case FormatPDB, FormatMMCIF:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (f Format) String() string {
	return string(f)
}

// structureExtensions maps lower-case file extensions to their format.
var structureExtensions = map[string]Format{
	".pdb":   FormatPDB,
	".ent":   FormatPDB,
	".cif":   FormatMMCIF,
	".mmcif": FormatMMCIF,
}

// DetectFormat derives the format and structure id from a file path.
// A trailing ".gz" is accepted and reported through compressed.
// Returns ErrUnsupportedType for files that are not structure files.
func DetectFormat(path string) (id string, format Format, compressed bool, err error) {
	name := filepath.Base(path)
	lower := strings.ToLower(name)

	if strings.HasSuffix(lower, ".gz") {
		compressed = true
		name = name[:len(name)-len(".gz")]
		lower = lower[:len(lower)-len(".gz")]
	}

	ext := filepath.Ext(lower)
	format, ok := structureExtensions[ext]
	if !ok {
		return "", "", false, fmt.Errorf("%w: %s", ErrUnsupportedType, path)
	}

	id = name[:len(name)-len(ext)]
	if id == "" {
		return "", "", false, fmt.Errorf("%w: empty structure id in %s", ErrInvalidInput, path)
	}
	return id, format, compressed, nil
}

// ParsedStructure is the normalised content of one structure file.
//
// Sequence, Positions and Groups are index-aligned: element i of each
// describes the same retained atom. Values are never mutated after the
// parser returns them; Truncate produces copies.
type ParsedStructure struct {
	// Sequence holds the 3-letter residue code of each retained atom.
	Sequence []string

	// Positions holds the coordinates of each retained atom.
	Positions []Vec3

	// Groups holds the residue label of each retained atom
	// (assembly/chain id concatenated with the residue sequence id).
	Groups []string
}

// Len returns the number of retained atoms.
func (s *ParsedStructure) Len() int {
	return len(s.Positions)
}

// Validate checks that the three parallel containers are index-aligned.
func (s *ParsedStructure) Validate() error {
	if len(s.Sequence) != len(s.Positions) || len(s.Groups) != len(s.Positions) {
		return fmt.Errorf("%w: misaligned structure (sequence=%d positions=%d groups=%d)",
			ErrInvalidInput, len(s.Sequence), len(s.Positions), len(s.Groups))
	}
	return nil
}

// GroupIndex derives the residue boundaries of the structure.
// A boundary is recorded at the first atom of every distinct residue label.
func (s *ParsedStructure) GroupIndex() ResidueGroupIndex {
	seen := make(map[string]struct{})
	index := make(ResidueGroupIndex, 0, 64)
	for i, g := range s.Groups {
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		index = append(index, int32(i))
	}
	return append(index, int32(len(s.Groups)))
}

// Residues returns the 3-letter code of each residue, one per group.
func (s *ParsedStructure) Residues() []string {
	index := s.GroupIndex()
	residues := make([]string, 0, index.Residues())
	for i := 0; i < index.Residues(); i++ {
		start, _ := index.Range(i)
		residues = append(residues, s.Sequence[start])
	}
	return residues
}

// OneLetterSequence returns the residue sequence in 1-letter codes.
func (s *ParsedStructure) OneLetterSequence() string {
	var b strings.Builder
	for _, code := range s.Residues() {
		b.WriteByte(OneLetterCode(code))
	}
	return b.String()
}

// Truncate returns the structure cut to at most maxResidues residues.
// The cut always lands on a residue boundary; residues are never split.
// A non-positive maxResidues disables truncation.
func (s *ParsedStructure) Truncate(maxResidues int) *ParsedStructure {
	index := s.GroupIndex()
	if maxResidues <= 0 || index.Residues() <= maxResidues {
		return s
	}

	cut := int(index[maxResidues])
	out := &ParsedStructure{
		Sequence:  make([]string, cut),
		Positions: make([]Vec3, cut),
		Groups:    make([]string, cut),
	}
	copy(out.Sequence, s.Sequence[:cut])
	copy(out.Positions, s.Positions[:cut])
	copy(out.Groups, s.Groups[:cut])
	return out
}

// ResidueGroupIndex holds the atom offset at which each residue starts,
// followed by a sentinel equal to the total atom count.
type ResidueGroupIndex []int32

// Residues returns the number of residues described by the index.
func (idx ResidueGroupIndex) Residues() int {
	if len(idx) == 0 {
		return 0
	}
	return len(idx) - 1
}

// Range returns the half-open atom range [start, end) of residue i.
func (idx ResidueGroupIndex) Range(i int) (start, end int) {
	return int(idx[i]), int(idx[i+1])
}

// Validate checks the index against an atom count: offsets must be
// strictly increasing and the sentinel must equal atomCount.
func (idx ResidueGroupIndex) Validate(atomCount int) error {
	if len(idx) == 0 {
		return fmt.Errorf("%w: empty residue index", ErrInvalidInput)
	}
	if last := int(idx[len(idx)-1]); last != atomCount {
		return fmt.Errorf("%w: residue index sentinel %d != atom count %d", ErrInvalidInput, last, atomCount)
	}
	if idx[0] < 0 {
		return fmt.Errorf("%w: negative residue offset %d", ErrInvalidInput, idx[0])
	}
	for i := 1; i < len(idx); i++ {
		if idx[i] <= idx[i-1] {
			return fmt.Errorf("%w: residue offsets not increasing at %d", ErrInvalidInput, i)
		}
	}
	return nil
}
