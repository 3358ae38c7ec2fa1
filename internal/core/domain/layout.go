package domain

import "path/filepath"

// Entries of a structure database directory.
const (
	// AtomDirName holds one binary atom file per structure id.
	AtomDirName = "seq_atom_db"

	// ManifestFileName is the build manifest.
	ManifestFileName = "db_params.json"

	// SequencesFileName is the FASTA of sequences added by the last build.
	SequencesFileName = "merged_sequences.faa"

	// TargetDatabaseName is the search-tool database built from SequencesFileName.
	TargetDatabaseName = "targetDB"

	// CatalogFileName is the build catalog.
	CatalogFileName = "catalog.db"
)

// DatabaseLayout resolves the paths of a structure database rooted at Root.
type DatabaseLayout struct {
	Root string
}

// AtomDir returns the binary atom file directory.
func (l DatabaseLayout) AtomDir() string {
	return filepath.Join(l.Root, AtomDirName)
}

// Manifest returns the manifest path.
func (l DatabaseLayout) Manifest() string {
	return filepath.Join(l.Root, ManifestFileName)
}

// Sequences returns the merged FASTA path.
func (l DatabaseLayout) Sequences() string {
	return filepath.Join(l.Root, SequencesFileName)
}

// TargetDatabase returns the search-tool database path.
func (l DatabaseLayout) TargetDatabase() string {
	return filepath.Join(l.Root, TargetDatabaseName)
}

// FilteredHitsFileName is the filtered alignment table written next to the raw search results.
const FilteredHitsFileName = "filtered_hits.m8"
