package domain

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseLayout(t *testing.T) {
	root := filepath.Join("data", "db")
	l := DatabaseLayout{Root: root}

	assert.Equal(t, filepath.Join(root, "seq_atom_db"), l.AtomDir())
	assert.Equal(t, filepath.Join(root, "db_params.json"), l.Manifest())
	assert.Equal(t, filepath.Join(root, "merged_sequences.faa"), l.Sequences())
	assert.Equal(t, filepath.Join(root, "targetDB"), l.TargetDatabase())
}
