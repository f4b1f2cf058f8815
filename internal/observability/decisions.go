package observability

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"
)

// Decision is one recorded pipeline choice: why a candidate was rejected, why
// a winner was picked, how a parameter was nudged. The log is the audit trail
// for a run.
type Decision struct {
	Timestamp time.Time      `json:"timestamp"`
	Stage     string         `json:"stage"`
	Subject   string         `json:"subject,omitempty"`
	Decision  string         `json:"decision"`
	Details   map[string]any `json:"details,omitempty"`
}

// DecisionLog appends decisions as JSON lines to a writer. Safe for
// concurrent use; candidates log from parallel goroutines.
type DecisionLog struct {
	mu  sync.Mutex
	out io.Writer
	now func() time.Time
}

// NewDecisionLog creates a decision log writing to out.
func NewDecisionLog(out io.Writer) *DecisionLog {
	return &DecisionLog{out: out, now: time.Now}
}

// Record appends one decision entry.
func (l *DecisionLog) Record(stage, subject, decision string, details map[string]any) error {
	entry := Decision{
		Timestamp: l.now().UTC(),
		Stage:     stage,
		Subject:   subject,
		Decision:  decision,
		Details:   details,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal decision: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.out.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write decision: %w", err)
	}
	return nil
}
