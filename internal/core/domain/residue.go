package domain

// oneLetterCodes maps standard 3-letter residue codes to 1-letter codes.
var oneLetterCodes = map[string]byte{
	"ALA": 'A',
	"ARG": 'R',
	"ASN": 'N',
	"ASP": 'D',
	"CYS": 'C',
	"GLN": 'Q',
	"GLU": 'E',
	"GLY": 'G',
	"HIS": 'H',
	"ILE": 'I',
	"LEU": 'L',
	"LYS": 'K',
	"MET": 'M',
	"PHE": 'F',
	"PRO": 'P',
	"SER": 'S',
	"THR": 'T',
	"TRP": 'W',
	"TYR": 'Y',
	"VAL": 'V',

	// Non-canonical residues commonly found in ATOM records.
	"MSE": 'M',
	"SEC": 'U',
	"PYL": 'O',
}

// IsStandardResidue reports whether code is a recognised amino-acid code.
func IsStandardResidue(code string) bool {
	_, ok := oneLetterCodes[code]
	return ok
}

// OneLetterCode returns the 1-letter code for a 3-letter residue code,
// or 'X' if the residue is unknown.
func OneLetterCode(code string) byte {
	if c, ok := oneLetterCodes[code]; ok {
		return c
	}
	return 'X'
}
