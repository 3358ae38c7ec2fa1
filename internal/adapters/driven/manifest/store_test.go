package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/structdb/internal/core/domain"
)

func TestStore_WriteFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	m := domain.NewBuildManifest([]string{"2def", "1abc"}, 1000, []string{"/in/b", "/in/a"})

	require.NoError(t, NewStore().Write(path, m))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{
    "sequences": [
        "1abc",
        "2def"
    ],
    "MAX_PROTEIN_LENGTH": 1000,
    "input_structures_path": [
        "/in/a",
        "/in/b"
    ]
}
`, string(data))
}

func TestStore_WriteEmptyLists(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)

	require.NoError(t, NewStore().Write(path, &domain.BuildManifest{MaxLength: 5}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"sequences": []`)
}

func TestStore_RoundTripAndRewrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", FileName)
	s := NewStore()

	require.NoError(t, s.Write(path, domain.NewBuildManifest([]string{"a"}, 10, []string{"/in"})))
	second := domain.NewBuildManifest([]string{"b", "c"}, 20, []string{"/in2"})
	require.NoError(t, s.Write(path, second))

	got, err := s.Read(path)
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestStore_Errors(t *testing.T) {
	dir := t.TempDir()
	s := NewStore()

	assert.ErrorIs(t, s.Write(filepath.Join(dir, FileName), nil), domain.ErrInvalidInput)

	_, err := s.Read(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	_, err = s.Read(bad)
	assert.ErrorIs(t, err, domain.ErrParse)
}
