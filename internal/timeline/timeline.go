// Package timeline projects a ticket's current status onto the five-step
// display timeline shown to the customer. Pure functions only.
package timeline

import (
	"time"

	"github.com/warrantydesk/tracking-service/internal/model"
)

type StageState string

const (
	StateCompleted StageState = "completed"
	StateCurrent   StageState = "current"
	StatePending   StageState = "pending"
	StateRejected  StageState = "rejected"
)

// Stage is one step of the display timeline. Distinct from ticket status:
// five stages cover six statuses, with rejected folded into manager_review.
type Stage struct {
	ID          string     `json:"id"`
	Label       string     `json:"label"`
	State       StageState `json:"state"`
	Description string     `json:"description,omitempty"`
	Timestamp   *time.Time `json:"timestamp,omitempty"`
}

// Project derives the stage sequence from the ticket's current status.
// The submitted stage is always completed and carries the creation time.
// A rejected ticket forces the manager_review stage to rejected (stamped
// with the manager-action time) and every later stage to pending.
//
// Known limitation: rejection is assumed to only ever happen at manager
// review; a rejection recorded after approval or scheduling still renders
// at the manager_review stage.
func Project(status model.TicketStatus, createdAt time.Time, managerActionAt, appointmentAt *time.Time) []Stage {
	stages := []Stage{
		{
			ID:          "submitted",
			Label:       "Submitted",
			State:       StateCompleted,
			Description: "Warranty claim submitted",
			Timestamp:   &createdAt,
		},
		{
			ID:          "under_review",
			Label:       "Under Review",
			State:       stageState(status, model.StatusValidated),
			Description: "Automated validation in progress",
		},
		{
			ID:          "manager_review",
			Label:       "Manager Review",
			State:       stageState(status, model.StatusManagerReview),
			Description: "Awaiting manager approval",
		},
		{
			ID:          "approved",
			Label:       "Approved",
			State:       stageState(status, model.StatusApproved),
			Description: "Claim approved, scheduling service",
			Timestamp:   managerActionAt,
		},
		{
			ID:          "scheduled",
			Label:       "Service Scheduled",
			State:       stageState(status, model.StatusScheduled),
			Description: "Service appointment confirmed",
			Timestamp:   appointmentAt,
		},
	}

	if status == model.StatusRejected {
		for i := range stages {
			if stages[i].ID != "manager_review" {
				continue
			}
			stages[i].State = StateRejected
			stages[i].Description = "Claim rejected by manager"
			stages[i].Timestamp = managerActionAt
			for j := i + 1; j < len(stages); j++ {
				stages[j].State = StatePending
			}
			break
		}
	}
	return stages
}

// ProjectTicket is the convenience form taking the assembled ticket.
func ProjectTicket(t *model.Ticket) []Stage {
	var managerActionAt, appointmentAt *time.Time
	if t.ManagerAction != nil {
		managerActionAt = &t.ManagerAction.ActionDate
	}
	if t.Appointment != nil {
		appointmentAt = &t.Appointment.AppointmentDate
	}
	return Project(t.Status, t.CreatedAt, managerActionAt, appointmentAt)
}

func stageState(current, stage model.TicketStatus) StageState {
	if current == model.StatusRejected && stage == model.StatusManagerReview {
		return StateRejected
	}
	currentIdx := current.Index()
	stageIdx := stage.Index()
	switch {
	case currentIdx > stageIdx:
		return StateCompleted
	case currentIdx == stageIdx:
		return StateCurrent
	default:
		return StatePending
	}
}
