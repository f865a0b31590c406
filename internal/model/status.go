package model

import (
	"strings"

	"github.com/google/uuid"
)

type TicketStatus string

const (
	StatusPending       TicketStatus = "pending"
	StatusValidated     TicketStatus = "validated"
	StatusManagerReview TicketStatus = "manager_review"
	StatusApproved      TicketStatus = "approved"
	StatusRejected      TicketStatus = "rejected"
	StatusScheduled     TicketStatus = "scheduled"
)

// StatusOrder is the normal progression of a warranty claim. Rejected sits
// outside the order: it is a terminal branch off manager_review.
var StatusOrder = []TicketStatus{
	StatusPending,
	StatusValidated,
	StatusManagerReview,
	StatusApproved,
	StatusScheduled,
}

// Index returns the position of s in StatusOrder, or -1 for rejected and
// unknown statuses.
func (s TicketStatus) Index() int {
	for i, st := range StatusOrder {
		if st == s {
			return i
		}
	}
	return -1
}

func (s TicketStatus) Valid() bool {
	switch s {
	case StatusPending, StatusValidated, StatusManagerReview,
		StatusApproved, StatusRejected, StatusScheduled:
		return true
	}
	return false
}

// Label is the customer-facing name for a status.
func (s TicketStatus) Label() string {
	switch s {
	case StatusPending:
		return "Submitted"
	case StatusValidated:
		return "Under Review"
	case StatusManagerReview:
		return "Manager Review"
	case StatusApproved:
		return "Approved"
	case StatusRejected:
		return "Rejected"
	case StatusScheduled:
		return "Service Scheduled"
	}
	return string(s)
}

// IsValidTrackingCode reports whether code is a canonical RFC 4122 UUID
// (case-insensitive). uuid.Parse alone also accepts urn:, braced and bare
// hex forms, none of which are ever issued as tracking codes.
func IsValidTrackingCode(code string) bool {
	if len(code) != 36 || strings.Count(code, "-") != 4 {
		return false
	}
	_, err := uuid.Parse(code)
	return err == nil
}
