package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkflowStepOrder(t *testing.T) {
	assert.Equal(t, []WorkflowStep{
		StepServiceSelection,
		StepProjectDetails,
		StepScheduleSelection,
		StepContactInfo,
		StepConfirmation,
	}, WorkflowSteps)
}

func TestNextStep(t *testing.T) {
	assert.Equal(t, StepProjectDetails, NextStep(StepServiceSelection))
	assert.Equal(t, StepScheduleSelection, NextStep(StepProjectDetails))
	assert.Equal(t, StepContactInfo, NextStep(StepScheduleSelection))
	assert.Equal(t, StepConfirmation, NextStep(StepContactInfo))

	// Последний шаг не имеет преемника
	assert.Equal(t, StepConfirmation, NextStep(StepConfirmation))
}

func TestPrevStep(t *testing.T) {
	assert.Equal(t, StepContactInfo, PrevStep(StepConfirmation))
	assert.Equal(t, StepScheduleSelection, PrevStep(StepContactInfo))
	assert.Equal(t, StepProjectDetails, PrevStep(StepScheduleSelection))
	assert.Equal(t, StepServiceSelection, PrevStep(StepProjectDetails))

	// Первый шаг не имеет предшественника
	assert.Equal(t, StepServiceSelection, PrevStep(StepServiceSelection))
}

func TestStepIndex(t *testing.T) {
	assert.Equal(t, 0, StepIndex(StepServiceSelection))
	assert.Equal(t, 4, StepIndex(StepConfirmation))
	assert.Equal(t, -1, StepIndex(WorkflowStep("unknown")))
}

func TestDraftBooking_HasHold(t *testing.T) {
	draft := &DraftBooking{}
	assert.False(t, draft.HasHold())

	draft.HoldToken = "token-1"
	assert.True(t, draft.HasHold())
}
