package types

// Violation kinds reported by the anti-plagiarism guard.
const (
	ViolationMaxNgram   = "max_ngram"
	ViolationOverlapPct = "overlap_pct"
	ViolationHamming    = "simhash_hamming"
)

// Thresholds holds the hard anti-plagiarism limits a candidate must satisfy.
type Thresholds struct {
	// MaxNgram is the longest shared token n-gram tolerated with the exemplar.
	MaxNgram int `json:"max_ngram"`
	// OverlapPct is the maximum tolerated 4-gram overlap fraction (0..1).
	OverlapPct float64 `json:"overlap_pct"`
	// HammingMin is the minimum required SimHash Hamming distance from the exemplar.
	HammingMin int `json:"simhash_hamming_min"`
}

// DefaultThresholds returns the standard guard limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxNgram:   12,
		OverlapPct: 0.03,
		HammingMin: 18,
	}
}

// GuardViolation records a single guard check that failed.
type GuardViolation struct {
	Kind      string  `json:"kind"`
	Measured  float64 `json:"measured"`
	Threshold float64 `json:"threshold"`
	Details   string  `json:"details"`
}

// GuardVerdict is the outcome of one guard evaluation. Passed is true only
// when Violations is empty. The measured values are always populated so that
// callers can rank failing candidates by severity.
type GuardVerdict struct {
	Passed          bool             `json:"passed"`
	Violations      []GuardViolation `json:"violations"`
	MaxSharedNgram  int              `json:"max_shared_ngram"`
	OverlapPct      float64          `json:"overlap_pct"`
	HammingDistance int              `json:"simhash_distance"`
}

// ViolationDetails returns the human-readable description of every violation,
// in check order. Used as regeneration feedback and for logging.
func (v GuardVerdict) ViolationDetails() []string {
	if len(v.Violations) == 0 {
		return nil
	}
	details := make([]string, 0, len(v.Violations))
	for _, viol := range v.Violations {
		details = append(details, viol.Details)
	}
	return details
}
