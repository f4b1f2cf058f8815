package guard

import "errors"

// ErrNoAttemptProduced is returned by GenerateWithGuard when every attempt's
// generator call failed and no text was ever produced to evaluate.
var ErrNoAttemptProduced = errors.New("guard: no attempt produced text")
