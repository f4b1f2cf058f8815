// Package steps provides step definitions, dependency validation, and
// execution-order tracking for the story generation pipeline.
package steps

import (
	"fmt"
	"sort"
	"sync"
)

// Step names for the generation pipeline.
const (
	IngestExemplar = "ingest_exemplar"
	LoadSpec       = "load_spec"
	GenerateRounds = "generate_rounds"
	SelectWinner   = "select_winner"
	WriteOutput    = "write_output"
)

// StepDefinition defines metadata for a pipeline step
type StepDefinition struct {
	Name         string
	Category     string
	Dependencies []string
}

// StepRegistry holds all step definitions. Dependencies are hard ordering
// constraints; a step may not start until every dependency has completed.
var StepRegistry = map[string]StepDefinition{
	IngestExemplar: {
		Name:         IngestExemplar,
		Category:     "ingestion",
		Dependencies: []string{},
	},
	LoadSpec: {
		Name:         LoadSpec,
		Category:     "ingestion",
		Dependencies: []string{},
	},
	GenerateRounds: {
		Name:         GenerateRounds,
		Category:     "generation",
		Dependencies: []string{IngestExemplar, LoadSpec},
	},
	SelectWinner: {
		Name:         SelectWinner,
		Category:     "selection",
		Dependencies: []string{GenerateRounds},
	},
	WriteOutput: {
		Name:         WriteOutput,
		Category:     "output",
		Dependencies: []string{SelectWinner},
	},
}

// DependencyError represents a dependency validation error
type DependencyError struct {
	Step                string
	MissingDependencies []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("step %s missing dependencies: %v", e.Step, e.MissingDependencies)
}

// Tracker records which steps have completed and refuses to start a step
// whose dependencies have not.
type Tracker struct {
	mu        sync.Mutex
	completed map[string]bool
}

// NewTracker returns a Tracker with no completed steps.
func NewTracker() *Tracker {
	return &Tracker{completed: make(map[string]bool)}
}

// Start validates that stepName exists and its dependencies are complete.
func (t *Tracker) Start(stepName string) error {
	def, ok := StepRegistry[stepName]
	if !ok {
		return fmt.Errorf("unknown step: %s", stepName)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var missing []string
	for _, dep := range def.Dependencies {
		if !t.completed[dep] {
			missing = append(missing, dep)
		}
	}
	if len(missing) > 0 {
		return &DependencyError{Step: stepName, MissingDependencies: missing}
	}
	return nil
}

// Complete marks a step as finished.
func (t *Tracker) Complete(stepName string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.completed[stepName] = true
}

// Available returns the not-yet-completed steps whose dependencies are all
// met, sorted for stable output.
func (t *Tracker) Available() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var available []string
	for name, def := range StepRegistry {
		if t.completed[name] {
			continue
		}
		ready := true
		for _, dep := range def.Dependencies {
			if !t.completed[dep] {
				ready = false
				break
			}
		}
		if ready {
			available = append(available, name)
		}
	}
	sort.Strings(available)
	return available
}

// ExecutionOrder returns a valid topological ordering of all steps, or an
// error if the registry contains a cycle.
func ExecutionOrder() ([]string, error) {
	order := make([]string, 0, len(StepRegistry))
	state := make(map[string]int) // 0 unvisited, 1 in progress, 2 done

	var visit func(name string) error
	visit = func(name string) error {
		switch state[name] {
		case 1:
			return fmt.Errorf("dependency cycle through step %s", name)
		case 2:
			return nil
		}
		state[name] = 1
		def := StepRegistry[name]
		deps := append([]string(nil), def.Dependencies...)
		sort.Strings(deps)
		for _, dep := range deps {
			if _, ok := StepRegistry[dep]; !ok {
				return fmt.Errorf("step %s depends on unknown step %s", name, dep)
			}
			if err := visit(dep); err != nil {
				return err
			}
		}
		state[name] = 2
		order = append(order, name)
		return nil
	}

	names := make([]string, 0, len(StepRegistry))
	for name := range StepRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return order, nil
}
