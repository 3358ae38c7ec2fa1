package domain

// AlignmentColumns is the fixed column order of tabular alignment files.
// It matches the default output of the external search tool and must not be reordered.
var AlignmentColumns = []string{
	"query", "target", "identity", "alignment_length", "mismatches",
	"gap_openings", "query_start", "query_end", "target_start", "target_end",
	"e_value", "bit_score",
}

// AlignmentHit is one row of a pairwise sequence-alignment result.
type AlignmentHit struct {
	Query           string  `json:"query"`
	Target          string  `json:"target"`
	Identity        float64 `json:"identity"`
	AlignmentLength int     `json:"alignment_length"`
	Mismatches      int     `json:"mismatches"`
	GapOpenings     int     `json:"gap_openings"`
	QueryStart      int     `json:"query_start"`
	QueryEnd        int     `json:"query_end"`
	TargetStart     int     `json:"target_start"`
	TargetEnd       int     `json:"target_end"`
	EValue          float64 `json:"e_value"`
	BitScore        float64 `json:"bit_score"`
}

// Better reports whether h ranks above other within a query:
// higher identity first, then lower e-value.
func (h AlignmentHit) Better(other AlignmentHit) bool {
	if h.Identity != other.Identity {
		return h.Identity > other.Identity
	}
	return h.EValue < other.EValue
}

// HitThresholds are the optional filters applied to alignment hits.
// A nil field disables that filter. Active filters combine with AND.
type HitThresholds struct {
	MinIdentity *float64
	MinBitScore *float64
	MaxEValue   *float64
}

// Accept reports whether a hit passes every active threshold.
func (t HitThresholds) Accept(h AlignmentHit) bool {
	if t.MinIdentity != nil && h.Identity < *t.MinIdentity {
		return false
	}
	if t.MinBitScore != nil && h.BitScore < *t.MinBitScore {
		return false
	}
	if t.MaxEValue != nil && h.EValue > *t.MaxEValue {
		return false
	}
	return true
}

// HitFilterOptions configure a filter run.
type HitFilterOptions struct {
	Thresholds HitThresholds

	// K is the number of best hits kept per query. Non-positive keeps all.
	K int

	// Workers bounds the number of query groups ranked concurrently.
	Workers int
}
