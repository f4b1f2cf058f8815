package selection

import "errors"

// ErrAllCandidatesErrored is returned when every candidate's pipeline failed
// before scoring, leaving nothing to rank.
var ErrAllCandidatesErrored = errors.New("selection: all candidates errored")
