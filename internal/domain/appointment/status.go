package appointment

import (
	"strings"

	"github.com/BruksfildServices01/detailing-scheduler/internal/httperr"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusApproved, StatusConfirmed, StatusRejected, StatusCancelled},
	StatusApproved:  {StatusConfirmed, StatusCompleted, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
	StatusCompleted: nil,
	StatusRejected:  nil,
	StatusCancelled: nil,
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := transitions[st]; !ok {
		return "", httperr.ErrBusiness("invalid_status")
	}
	return st, nil
}

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) Terminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

// TerminalNegative reports the states that release the slot and drop the calendar mirror.
func (s Status) TerminalNegative() bool {
	return s == StatusCancelled || s == StatusRejected
}

// Occupies reports whether an appointment in this state counts against slot capacity.
func (s Status) Occupies() bool {
	return s.Valid() && !s.TerminalNegative()
}

// ===============================
// Validations
// ===============================

// CanTransition validates a status change. Same-status requests are not
// transitions and are handled by the caller as no-ops.
func CanTransition(from, to Status) error {
	if !from.Valid() || !to.Valid() {
		return httperr.ErrBusiness("invalid_status")
	}
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.ErrBusiness("invalid_transition")
}

// CanReschedule define se data/horário ainda podem ser editados
func CanReschedule(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness("not_editable")
	}
	return nil
}

func InitialStatus() Status {
	return StatusPending
}
