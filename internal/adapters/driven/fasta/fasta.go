// Package fasta reads and writes protein FASTA files with biogo.
package fasta

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/biogo/biogo/alphabet"
	biofasta "github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"

	"github.com/custodia-labs/structdb/internal/core/domain"
	"github.com/custodia-labs/structdb/internal/core/ports/driven"
	"github.com/custodia-labs/structdb/internal/fsutil"
)

// Ensure File implements the interfaces.
var (
	_ driven.SequenceWriter = (*File)(nil)
	_ driven.SequenceReader = (*File)(nil)
)

// DefaultLineWidth is the number of residues per sequence line.
const DefaultLineWidth = 80

// File reads and writes FASTA files of protein sequences.
type File struct {
	width int
}

// New creates a FASTA reader/writer wrapping sequence lines at width residues.
// A non-positive width uses DefaultLineWidth.
func New(width int) *File {
	if width <= 0 {
		width = DefaultLineWidth
	}
	return &File{width: width}
}

// WriteSequences writes records to path atomically, in the given order.
func (f *File) WriteSequences(path string, records []driven.SequenceRecord) error {
	return fsutil.WriteFileAtomic(path, func(w io.Writer) error {
		return f.Encode(w, records)
	})
}

// Encode writes records to w.
func (f *File) Encode(w io.Writer, records []driven.SequenceRecord) error {
	fw := biofasta.NewWriter(w, f.width)
	for _, r := range records {
		if r.ID == "" {
			return fmt.Errorf("%w: FASTA record without id", domain.ErrInvalidInput)
		}
		s := linear.NewSeq(r.ID, alphabet.BytesToLetters([]byte(r.Sequence)), alphabet.Protein)
		if _, err := fw.Write(s); err != nil {
			return fmt.Errorf("write FASTA record %s: %w", r.ID, err)
		}
	}
	return nil
}

// ReadSequences returns every record of the FASTA file at path.
func (f *File) ReadSequences(path string) ([]driven.SequenceRecord, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return f.Decode(file)
}

// Decode reads FASTA records from r.
func (f *File) Decode(r io.Reader) ([]driven.SequenceRecord, error) {
	fr := biofasta.NewReader(r, linear.NewSeq("", nil, alphabet.Protein))

	var records []driven.SequenceRecord
	for {
		s, err := fr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: FASTA: %w", domain.ErrParse, err)
		}
		l, ok := s.(*linear.Seq)
		if !ok {
			return nil, fmt.Errorf("%w: FASTA: unexpected sequence type %T", domain.ErrParse, s)
		}
		records = append(records, driven.SequenceRecord{
			ID:       l.Name(),
			Sequence: alphabet.Letters(l.Seq).String(),
		})
	}
	return records, nil
}
