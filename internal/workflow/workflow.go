package workflow

import (
	"fmt"

	"github.com/servly/booking-api/internal/model"
	"github.com/servly/booking-api/pkg/errors"
)

// TransitionPolicy decides whether a booking may move between two statuses.
type TransitionPolicy interface {
	Allowed(from, to model.BookingStatus) bool
}

// Unrestricted permits every transition, including re-entering the current
// status. This is the default: staff correct mistakes by moving bookings
// freely, so completed and cancelled are not terminal.
type Unrestricted struct{}

func (Unrestricted) Allowed(from, to model.BookingStatus) bool { return true }

// Graph permits only the transitions listed per source status. Re-entering
// the same status is always allowed.
type Graph struct {
	Moves map[model.BookingStatus][]model.BookingStatus
}

// Allowed implements TransitionPolicy.
func (g Graph) Allowed(from, to model.BookingStatus) bool {
	if from == to {
		return true
	}
	for _, next := range g.Moves[from] {
		if next == to {
			return true
		}
	}
	return false
}

// DefaultGraph is the stricter opt-in policy: completed and cancelled are
// terminal, pending and confirmed move freely among all statuses.
func DefaultGraph() Graph {
	return Graph{Moves: map[model.BookingStatus][]model.BookingStatus{
		model.BookingStatusPending: {
			model.BookingStatusConfirmed, model.BookingStatusCompleted, model.BookingStatusCancelled,
		},
		model.BookingStatusConfirmed: {
			model.BookingStatusPending, model.BookingStatusCompleted, model.BookingStatusCancelled,
		},
	}}
}

// Workflow applies status transitions to bookings under a policy.
type Workflow struct {
	policy TransitionPolicy
}

func New(policy TransitionPolicy) *Workflow {
	if policy == nil {
		policy = Unrestricted{}
	}
	return &Workflow{policy: policy}
}

// Transition replaces the booking's status with to. It has no side effects
// beyond the status field.
func (w *Workflow) Transition(b *model.Booking, to model.BookingStatus) error {
	if !to.Valid() {
		return errors.Validation(fmt.Sprintf("unknown booking status %q", to), nil)
	}
	if !w.policy.Allowed(b.Status, to) {
		return errors.Conflict(fmt.Sprintf("transition from %s to %s is not allowed", b.Status, to), nil)
	}
	b.Status = to
	return nil
}
