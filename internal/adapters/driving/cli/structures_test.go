package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/structdb/internal/core/domain"
)

func TestStructuresCmd_RequiresDatabase(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"structures"})

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "database")
}

func TestStructuresCmd_Lists(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	ts.catalog.records = []domain.StructureRecord{
		{ID: "1abc", Path: "/in/1abc.pdb", Status: domain.Success(), Residues: 120, Atoms: 950},
		{ID: "3bad", Path: "/in/3bad.pdb", Status: domain.Fail("no ATOM records")},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"structures", "-d", "/db"})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "/db", ts.catalog.root)
	assert.Equal(t, domain.Outcome(""), ts.catalog.outcome)
	assert.Contains(t, buf.String(), "1abc\tSUCCESS\t120 residues\t950 atoms")
	assert.Contains(t, buf.String(), "3bad\tFAIL:no ATOM records\t/in/3bad.pdb")
}

func TestStructuresCmd_FailedOnly(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"structures", "-d", "/db", "--failed"})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, domain.OutcomeFail, ts.catalog.outcome)
	assert.Contains(t, buf.String(), "No structures recorded.")
}

func TestStructuresCmd_JSON(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	ts.catalog.records = []domain.StructureRecord{{ID: "1abc", Status: domain.Success()}}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"structures", "-d", "/db", "--json"})

	require.NoError(t, rootCmd.Execute())

	var records []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "1abc", records[0]["ID"])
}

func TestStructuresShowCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	ts.catalog.record = &domain.StructureRecord{
		ID:       "1abc",
		Path:     "/in/1abc.pdb",
		RunID:    "run-1",
		Status:   domain.Success(),
		Residues: 2,
		Atoms:    9,
		Sequence: "MK",
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"structures", "show", "1abc", "-d", "/db"})

	require.NoError(t, rootCmd.Execute())
	out := buf.String()
	assert.Contains(t, out, "ID:       1abc")
	assert.Contains(t, out, "Run:      run-1")
	assert.Contains(t, out, "Sequence: MK")
}

func TestStructuresShowCmd_NotFound(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"structures", "show", "9zzz", "-d", "/db"})

	err := rootCmd.Execute()

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStructuresManifestCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	ts.catalog.manifest = domain.NewBuildManifest([]string{"2def", "1abc"}, 1000, []string{"/in"})

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"structures", "manifest", "-d", "/db"})

	require.NoError(t, rootCmd.Execute())

	var m domain.BuildManifest
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	assert.Equal(t, []string{"1abc", "2def"}, m.Sequences)
	assert.Equal(t, 1000, m.MaxLength)
}

func TestStructuresIDsCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	ts.catalog.ids = []string{"1abc", "2def"}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"structures", "ids", "-d", "/db"})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "/db", ts.catalog.root)
	assert.Equal(t, "1abc\n2def\n", buf.String())
}
