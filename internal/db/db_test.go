package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArtifactStepConstants(t *testing.T) {
	// Verify step constants are defined
	steps := []string{
		StepStorySpec,
		StepExemplar,
		StepFinalDraft,
		StepFinalReport,
		StepDecisionLog,
	}

	for _, step := range steps {
		assert.NotEmpty(t, step, "step constant should not be empty")
	}
}

func TestRunType(t *testing.T) {
	// Verify Run struct can be instantiated
	run := Run{
		StoryID: "ferry-story",
		Status:  RunStatusRunning,
	}

	assert.Equal(t, "ferry-story", run.StoryID)
	assert.Equal(t, "running", run.Status)
	assert.Nil(t, run.CompletedAt)
}
