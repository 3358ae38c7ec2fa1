package mmseqs

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/custodia-labs/structdb/internal/core/domain"
	"github.com/custodia-labs/structdb/internal/core/ports/driven"
	"github.com/custodia-labs/structdb/internal/fsutil"
)

// Ensure TabularFile implements the interfaces.
var (
	_ driven.HitReader = (*TabularFile)(nil)
	_ driven.HitWriter = (*TabularFile)(nil)
)

// TabularFile reads and writes tab-separated alignment files in the
// twelve-column order of domain.AlignmentColumns.
type TabularFile struct{}

// NewTabularFile creates a tabular alignment reader/writer.
func NewTabularFile() *TabularFile {
	return &TabularFile{}
}

// ReadHits parses every row of a tabular alignment file.
func (f *TabularFile) ReadHits(path string) ([]domain.AlignmentHit, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	hits, err := DecodeHits(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return hits, nil
}

// WriteHits replaces path with hits, one row per hit.
func (f *TabularFile) WriteHits(path string, hits []domain.AlignmentHit) error {
	return fsutil.WriteFileAtomic(path, func(w io.Writer) error {
		return EncodeHits(w, hits)
	})
}

// DecodeHits reads tab-separated alignment rows from r.
func DecodeHits(r io.Reader) ([]domain.AlignmentHit, error) {
	rd := csv.NewReader(r)
	rd.Comma = '\t'
	rd.Comment = '#'
	rd.FieldsPerRecord = len(domain.AlignmentColumns)
	rd.LazyQuotes = true
	rd.ReuseRecord = true

	var hits []domain.AlignmentHit
	for {
		fields, err := rd.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrParse, err)
		}
		line, _ := rd.FieldPos(0)
		h, err := parseHit(fields)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", domain.ErrParse, line, err)
		}
		hits = append(hits, h)
	}
	return hits, nil
}

// EncodeHits writes hits as tab-separated rows to w.
func EncodeHits(w io.Writer, hits []domain.AlignmentHit) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	row := make([]string, len(domain.AlignmentColumns))
	for _, h := range hits {
		row[0] = h.Query
		row[1] = h.Target
		row[2] = formatFloat(h.Identity)
		row[3] = strconv.Itoa(h.AlignmentLength)
		row[4] = strconv.Itoa(h.Mismatches)
		row[5] = strconv.Itoa(h.GapOpenings)
		row[6] = strconv.Itoa(h.QueryStart)
		row[7] = strconv.Itoa(h.QueryEnd)
		row[8] = strconv.Itoa(h.TargetStart)
		row[9] = strconv.Itoa(h.TargetEnd)
		row[10] = formatFloat(h.EValue)
		row[11] = formatFloat(h.BitScore)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func parseHit(fields []string) (domain.AlignmentHit, error) {
	h := domain.AlignmentHit{Query: fields[0], Target: fields[1]}

	floats := []struct {
		dst *float64
		idx int
	}{{&h.Identity, 2}, {&h.EValue, 10}, {&h.BitScore, 11}}
	for _, f := range floats {
		v, err := strconv.ParseFloat(fields[f.idx], 64)
		if err != nil {
			return h, fmt.Errorf("column %s: %q is not a number", domain.AlignmentColumns[f.idx], fields[f.idx])
		}
		*f.dst = v
	}

	ints := []struct {
		dst *int
		idx int
	}{
		{&h.AlignmentLength, 3}, {&h.Mismatches, 4}, {&h.GapOpenings, 5},
		{&h.QueryStart, 6}, {&h.QueryEnd, 7}, {&h.TargetStart, 8}, {&h.TargetEnd, 9},
	}
	for _, f := range ints {
		v, err := strconv.Atoi(fields[f.idx])
		if err != nil {
			return h, fmt.Errorf("column %s: %q is not an integer", domain.AlignmentColumns[f.idx], fields[f.idx])
		}
		*f.dst = v
	}
	return h, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
