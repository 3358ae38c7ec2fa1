package domain

import (
	"sort"
	"strings"
	"time"
)

// Outcome is the terminal result of processing one structure file.
type Outcome string

// Processing outcomes.
const (
	// OutcomeSuccess indicates the structure was parsed and persisted.
	OutcomeSuccess Outcome = "SUCCESS"

	// OutcomeFail indicates parsing or persisting failed.
	OutcomeFail Outcome = "FAIL"
)

// StructureState tracks a structure file through a build run.
type StructureState string

// Build states. A file moves DISCOVERED -> (SKIPPED_DUPLICATE | PROCESSING)
// and PROCESSING -> (SUCCESS | FAILED).
const (
	StateDiscovered       StructureState = "DISCOVERED"
	StateSkippedDuplicate StructureState = "SKIPPED_DUPLICATE"
	StateProcessing       StructureState = "PROCESSING"
	StateSuccess          StructureState = "SUCCESS"
	StateFailed           StructureState = "FAILED"
)

// ProcessingStatus is the outcome of processing one structure file.
// It is produced once per file and never mutated.
type ProcessingStatus struct {
	Outcome Outcome
	Reason  string
}

// Success returns a successful status.
func Success() ProcessingStatus {
	return ProcessingStatus{Outcome: OutcomeSuccess}
}

// Fail returns a failed status with a short diagnostic.
func Fail(reason string) ProcessingStatus {
	return ProcessingStatus{Outcome: OutcomeFail, Reason: reason}
}

// IsSuccess returns true for successful outcomes.
func (s ProcessingStatus) IsSuccess() bool {
	return s.Outcome == OutcomeSuccess
}

// State maps the status onto the build state machine.
func (s ProcessingStatus) State() StructureState {
	if s.IsSuccess() {
		return StateSuccess
	}
	return StateFailed
}

// String renders "SUCCESS" or "FAIL:<reason>".
func (s ProcessingStatus) String() string {
	if s.IsSuccess() {
		return string(OutcomeSuccess)
	}
	return string(OutcomeFail) + ":" + s.Reason
}

// ParseProcessingStatus is the inverse of ProcessingStatus.String.
func ParseProcessingStatus(s string) ProcessingStatus {
	if s == string(OutcomeSuccess) {
		return Success()
	}
	return Fail(strings.TrimPrefix(s, string(OutcomeFail)+":"))
}

// StructureResult is what a worker reports for one structure file.
type StructureResult struct {
	ID       string
	Path     string
	Status   ProcessingStatus
	Residues int
	Atoms    int

	// Sequence is the 1-letter residue sequence, empty on failure.
	Sequence string
}

// BuildRequest holds the parameters of a build run.
type BuildRequest struct {
	// InputPaths are structure files or directories (expanded recursively).
	InputPaths []string

	// OutputPath is the database directory.
	OutputPath string

	// Overwrite disables skipping ids already present in the output.
	Overwrite bool

	// Workers is the size of the worker pool. Values below 1 mean 1.
	Workers int

	// MaxLength is the truncation length in residues. Non-positive disables truncation.
	MaxLength int
}

// BuildReport summarises a build run.
type BuildReport struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time

	Discovered int
	Skipped    int

	// Results holds one entry per processed structure file, sorted by id.
	Results []StructureResult

	// Manifest is nil when the run aborted before finalising.
	Manifest *BuildManifest
}

// Counts tallies results per status string.
func (r *BuildReport) Counts() map[string]int {
	counts := make(map[string]int)
	for _, res := range r.Results {
		counts[res.Status.String()]++
	}
	return counts
}

// Succeeded returns the number of successful results.
func (r *BuildReport) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Status.IsSuccess() {
			n++
		}
	}
	return n
}

// Failed returns the failed results.
func (r *BuildReport) Failed() []StructureResult {
	var failed []StructureResult
	for _, res := range r.Results {
		if !res.Status.IsSuccess() {
			failed = append(failed, res)
		}
	}
	return failed
}

// BuildManifest records a completed build run.
// It is written once and fully rewritten by the next run.
type BuildManifest struct {
	// Sequences lists successfully added structure ids, sorted.
	Sequences []string `json:"sequences"`

	// MaxLength is the truncation length used.
	MaxLength int `json:"MAX_PROTEIN_LENGTH"`

	// InputPaths lists the scanned input paths, sorted.
	InputPaths []string `json:"input_structures_path"`
}

// NewBuildManifest builds a manifest with sorted copies of ids and paths.
func NewBuildManifest(ids []string, maxLength int, inputPaths []string) *BuildManifest {
	m := &BuildManifest{
		Sequences:  append([]string(nil), ids...),
		MaxLength:  maxLength,
		InputPaths: append([]string(nil), inputPaths...),
	}
	sort.Strings(m.Sequences)
	sort.Strings(m.InputPaths)
	return m
}

// BuildRun is the catalog record of one build run.
type BuildRun struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	OutputPath string
	MaxLength  int
	Overwrite  bool
	Discovered int
	Skipped    int
	Succeeded  int
	Failed     int
}

// StructureRecord is the catalog record of one processed structure.
type StructureRecord struct {
	ID        string
	Path      string
	RunID     string
	Status    ProcessingStatus
	Residues  int
	Atoms     int
	Sequence  string
	UpdatedAt time.Time
}
