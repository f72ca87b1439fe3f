package mutation

import (
	"sync"

	"github.com/dmitrijs2005/jobtracker/internal/common"
)

// ConfirmState is the state of a ConfirmationFlow.
type ConfirmState int

const (
	Idle ConfirmState = iota
	PendingConfirmation
)

func (s ConfirmState) String() string {
	if s == PendingConfirmation {
		return "pending-confirmation"
	}
	return "idle"
}

// ConfirmationFlow gates a delete behind an explicit confirm or cancel.
// At most one target is pending; a new request replaces the old one.
type ConfirmationFlow struct {
	mu      sync.Mutex
	state   ConfirmState
	pending string
}

// Request makes id the pending target. replaced is the id it displaced, if any.
func (f *ConfirmationFlow) Request(id string) (replaced string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state == PendingConfirmation && f.pending != id {
		replaced = f.pending
	}
	f.state = PendingConfirmation
	f.pending = id
	return replaced
}

func (f *ConfirmationFlow) State() ConfirmState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *ConfirmationFlow) Pending() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending, f.state == PendingConfirmation
}

// Confirm returns the target to delete and goes back to Idle.
func (f *ConfirmationFlow) Confirm() (string, error) {
	return f.finish()
}

// Cancel drops the pending target and goes back to Idle.
func (f *ConfirmationFlow) Cancel() (string, error) {
	return f.finish()
}

func (f *ConfirmationFlow) finish() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != PendingConfirmation {
		return "", common.ErrNoPendingConfirmation
	}
	id := f.pending
	f.state = Idle
	f.pending = ""
	return id, nil
}

func (f *ConfirmationFlow) Reset() {
	f.mu.Lock()
	f.state = Idle
	f.pending = ""
	f.mu.Unlock()
}
