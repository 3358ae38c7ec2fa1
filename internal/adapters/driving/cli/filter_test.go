package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/structdb/internal/core/domain"
)

func TestFilterCmd_RequiresExactlyOneArg(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"filter-hits"})

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestFilterCmd_PrintsKeptHits(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	ts.hitFilter.hits = []domain.AlignmentHit{
		{Query: "q1", Target: "1abc", Identity: 0.9, EValue: 1e-10, BitScore: 200},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"filter-hits", "results.m8"})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "results.m8", ts.hitFilter.path)
	assert.Equal(t, "q1\t1abc\t0.9\t1e-10\t200\n", buf.String())
}

func TestFilterCmd_SettingsAndFlagOverrides(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	minBits := 40.0
	ts.settings.settings.Filter.KBestHits = 12
	ts.settings.settings.Filter.Thresholds.MinBitScore = &minBits

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"filter-hits", "results.m8", "--min-identity", "0.5", "--filter-threads", "4"})

	require.NoError(t, rootCmd.Execute())

	opts := ts.hitFilter.opts
	assert.Equal(t, 12, opts.K)
	assert.Equal(t, 4, opts.Workers)
	require.NotNil(t, opts.Thresholds.MinIdentity)
	assert.Equal(t, 0.5, *opts.Thresholds.MinIdentity)
	require.NotNil(t, opts.Thresholds.MinBitScore)
	assert.Equal(t, 40.0, *opts.Thresholds.MinBitScore)
	assert.Nil(t, opts.Thresholds.MaxEValue)
}

func TestFilterCmd_KBestFlag(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"filter-hits", "results.m8", "-k", "0"})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, 0, ts.hitFilter.opts.K)
}

func TestFilterCmd_WritesOutputFile(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	ts.hitFilter.hits = []domain.AlignmentHit{{Query: "q1", Target: "1abc"}}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"filter-hits", "results.m8", "-o", "kept.m8"})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "kept.m8", ts.hitWriter.path)
	assert.Len(t, ts.hitWriter.hits, 1)
	assert.Contains(t, buf.String(), "Kept 1 hits, written to kept.m8")
}

func TestFilterCmd_ServiceError(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	ts.hitFilter.err = errors.New("bad row")

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"filter-hits", "results.m8"})

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "filter failed: bad row")
}
