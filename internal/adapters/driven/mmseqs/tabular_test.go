package mmseqs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/structdb/internal/core/domain"
)

const sampleResults = "q1\t1abc\t0.853\t120\t17\t1\t1\t120\t3\t122\t2.1E-40\t250\n" +
	"q1\t2def\t0.5\t80\t40\t2\t5\t84\t1\t80\t1e-5\t90.5\n" +
	"q2\t1abc\t1\t50\t0\t0\t1\t50\t1\t50\t0\t110\n"

func TestDecodeHits(t *testing.T) {
	hits, err := DecodeHits(strings.NewReader(sampleResults))

	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, domain.AlignmentHit{
		Query: "q1", Target: "1abc", Identity: 0.853, AlignmentLength: 120,
		Mismatches: 17, GapOpenings: 1, QueryStart: 1, QueryEnd: 120,
		TargetStart: 3, TargetEnd: 122, EValue: 2.1e-40, BitScore: 250,
	}, hits[0])
	assert.Equal(t, 90.5, hits[1].BitScore)
	assert.Equal(t, 0.0, hits[2].EValue)
}

func TestDecodeHits_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"too few columns", "q1\t1abc\t0.5\n"},
		{"bad float", strings.Replace(sampleResults, "0.853", "high", 1)},
		{"bad integer", strings.Replace(sampleResults, "\t120\t17", "\t12x\t17", 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeHits(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, domain.ErrParse)
		})
	}
}

func TestDecodeHits_Empty(t *testing.T) {
	hits, err := DecodeHits(strings.NewReader(""))

	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestTabularFile_WriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filtered.m8")
	hits, err := DecodeHits(strings.NewReader(sampleResults))
	require.NoError(t, err)

	tf := NewTabularFile()
	require.NoError(t, tf.WriteHits(path, hits))

	got, err := tf.ReadHits(path)
	require.NoError(t, err)
	assert.Equal(t, hits, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(data), "\n"))
	assert.Equal(t, 11, strings.Count(strings.Split(string(data), "\n")[0], "\t"))
}

func TestTabularFile_ReadMissing(t *testing.T) {
	_, err := NewTabularFile().ReadHits(filepath.Join(t.TempDir(), "none.m8"))

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
