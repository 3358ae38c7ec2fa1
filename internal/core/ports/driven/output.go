package driven

import "github.com/custodia-labs/structdb/internal/core/domain"

// SequenceRecord is one entry of a FASTA file.
type SequenceRecord struct {
	ID       string
	Sequence string
}

// SequenceWriter writes residue sequences for the search tool.
type SequenceWriter interface {
	// WriteSequences writes records to path as FASTA, replacing any existing file.
	WriteSequences(path string, records []SequenceRecord) error
}

// SequenceReader reads FASTA files.
type SequenceReader interface {
	// ReadSequences returns every record of the FASTA file at path, in file order.
	ReadSequences(path string) ([]SequenceRecord, error)
}

// ManifestStore persists build manifests.
type ManifestStore interface {
	// Write replaces the manifest at path atomically.
	Write(path string, manifest *domain.BuildManifest) error

	// Read loads the manifest at path.
	// Returns domain.ErrNotFound if it does not exist.
	Read(path string) (*domain.BuildManifest, error)
}
