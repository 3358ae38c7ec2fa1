package domain

// SearchRequest describes a sequence search against a structure database.
type SearchRequest struct {
	// QueryPath is a FASTA file of query sequences.
	QueryPath string

	// DatabasePath is a structure database directory produced by a build.
	DatabasePath string

	// OutputDir receives the search-tool databases and result tables.
	OutputDir string

	// Filter, when set, is applied to the raw hits and the result is
	// written to FilteredHitsFileName in OutputDir.
	Filter *HitFilterOptions
}

// SearchReport summarises a search run.
type SearchReport struct {
	// Queries is the number of query sequences.
	Queries int

	// ResultsPath is the raw alignment table written by the search tool.
	ResultsPath string

	// Hits is the number of rows in the raw alignment table.
	// Zero when no filter was requested.
	Hits int

	// FilteredPath is empty when no filter was requested.
	FilteredPath string

	// Kept holds the filtered hits, best first within each query.
	Kept []AlignmentHit
}
