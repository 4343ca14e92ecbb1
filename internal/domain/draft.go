package domain

import (
	"time"

	"github.com/proserv/PS-BookingService/pkg/types"
)

// WorkflowStep represents one step of the reservation workflow
type WorkflowStep string

const (
	StepServiceSelection  WorkflowStep = "service-selection"
	StepProjectDetails    WorkflowStep = "project-details"
	StepScheduleSelection WorkflowStep = "schedule-selection"
	StepContactInfo       WorkflowStep = "contact-info"
	StepConfirmation      WorkflowStep = "confirmation"
)

// WorkflowSteps is the strictly ordered step sequence of the reservation workflow
var WorkflowSteps = []WorkflowStep{
	StepServiceSelection,
	StepProjectDetails,
	StepScheduleSelection,
	StepContactInfo,
	StepConfirmation,
}

// StepIndex returns the position of the step in the sequence, or -1 if unknown
func StepIndex(step WorkflowStep) int {
	for i, s := range WorkflowSteps {
		if s == step {
			return i
		}
	}
	return -1
}

// NextStep returns the step following the given one.
// The last step has no successor and is returned unchanged.
func NextStep(step WorkflowStep) WorkflowStep {
	idx := StepIndex(step)
	if idx < 0 || idx >= len(WorkflowSteps)-1 {
		return step
	}
	return WorkflowSteps[idx+1]
}

// PrevStep returns the step preceding the given one.
// The first step has no predecessor and is returned unchanged.
func PrevStep(step WorkflowStep) WorkflowStep {
	idx := StepIndex(step)
	if idx <= 0 {
		return step
	}
	return WorkflowSteps[idx-1]
}

// ContactInfo is the client contact details collected by the workflow
type ContactInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// DraftBooking is the transient state of one in-progress reservation workflow
// session. It is owned by exactly one session, lives in the session store with
// a TTL, and is discarded on abandonment or successful confirmation.
type DraftBooking struct {
	SessionID      string       `json:"sessionId"`
	ClientID       int64        `json:"clientId"`
	ProfessionalID int64        `json:"professionalId"`
	Step           WorkflowStep `json:"step"`

	// service-selection
	ServiceID *int64 `json:"serviceId,omitempty"`

	// project-details
	ProjectTitle string   `json:"projectTitle,omitempty"`
	Description  string   `json:"description,omitempty"`
	Budget       *float64 `json:"budget,omitempty"`

	// schedule-selection
	ScheduledDate *time.Time       `json:"scheduledDate,omitempty"`
	ScheduledTime types.TimeString `json:"scheduledTime,omitempty"`
	SlotPrice     *float64         `json:"slotPrice,omitempty"`
	HoldToken     string           `json:"holdToken,omitempty"`
	HoldExpiresAt *time.Time       `json:"holdExpiresAt,omitempty"`

	// contact-info
	Contact *ContactInfo `json:"contact,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasHold returns true if the draft currently owns a slot hold
func (d *DraftBooking) HasHold() bool {
	return d.HoldToken != ""
}
