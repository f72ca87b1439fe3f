package query

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/jobtracker/internal/domain"
	"github.com/stretchr/testify/assert"
)

type harness struct {
	clock   *fakeClock
	state   *State
	changes []Mode
}

func newHarness() *harness {
	h := &harness{clock: &fakeClock{}}
	h.state = NewState(DefaultDebounceWindow, func(m Mode) { h.changes = append(h.changes, m) })
	h.state.debouncer.after = h.clock.AfterFunc
	return h
}

func TestState_TypingBurstAdoptsOnce(t *testing.T) {
	h := newHarness()

	for _, s := range []string{"R", "Re", "Rea"} {
		h.state.SetTechStackTerm(s)
		h.clock.Advance(100 * time.Millisecond)
	}
	assert.Empty(t, h.changes)
	assert.Equal(t, "Rea", h.state.Input())
	assert.Equal(t, All(), h.state.Mode())

	h.clock.Advance(500 * time.Millisecond)
	assert.Equal(t, []Mode{ByTechStack("Rea")}, h.changes)
	assert.Equal(t, ByTechStack("Rea"), h.state.Mode())
}

func TestState_EmptyTermYieldsAll(t *testing.T) {
	h := newHarness()

	h.state.SetTechStackTerm("Go")
	h.clock.Advance(time.Second)
	h.state.SetTechStackTerm("  ")
	h.clock.Advance(time.Second)

	assert.Equal(t, []Mode{ByTechStack("Go"), All()}, h.changes)
}

func TestState_SameTermIsNoop(t *testing.T) {
	h := newHarness()

	h.state.SetTechStackTerm("Go")
	h.clock.Advance(time.Second)
	h.state.SetTechStackTerm(" Go ")
	h.clock.Advance(time.Second)

	assert.Len(t, h.changes, 1)
}

func TestState_StatusClearsTermAndPendingInput(t *testing.T) {
	h := newHarness()

	h.state.SetTechStackTerm("Go")
	h.clock.Advance(time.Second)

	h.state.SetTechStackTerm("Java")
	h.state.SetStatus(domain.StatusInterviewing)
	h.clock.Advance(time.Second)

	assert.Equal(t, []Mode{ByTechStack("Go"), ByStatus(domain.StatusInterviewing)}, h.changes)
	assert.Empty(t, h.state.Input())
	assert.Equal(t, ByStatus(domain.StatusInterviewing), h.state.Mode())
}

func TestState_TermReplacesStatusOnAdoption(t *testing.T) {
	h := newHarness()

	h.state.SetStatus(domain.StatusOffer)
	h.state.SetTechStackTerm("React")
	assert.Equal(t, ByStatus(domain.StatusOffer), h.state.Mode(), "status holds until the term is adopted")

	h.clock.Advance(DefaultDebounceWindow)
	assert.Equal(t, ByTechStack("React"), h.state.Mode())
}

func TestState_BlankTermDoesNotClearStatus(t *testing.T) {
	h := newHarness()

	h.state.SetStatus(domain.StatusOffer)
	h.state.SetTechStackTerm("")
	h.clock.Advance(time.Second)

	assert.Equal(t, ByStatus(domain.StatusOffer), h.state.Mode())
	assert.Len(t, h.changes, 1)
}

func TestState_SortClearsBothAxes(t *testing.T) {
	h := newHarness()

	h.state.SetStatus(domain.StatusApplied)
	h.state.SetTechStackTerm("Go")
	h.state.SetSortByDeadline(true)
	h.clock.Advance(time.Second)

	assert.Equal(t, SortedByDeadline(), h.state.Mode())
	assert.Equal(t, []Mode{ByStatus(domain.StatusApplied), SortedByDeadline()}, h.changes)

	h.state.SetSortByDeadline(false)
	assert.Equal(t, All(), h.state.Mode())
}

func TestState_SortOffWhileFilteringIsNoop(t *testing.T) {
	h := newHarness()

	h.state.SetStatus(domain.StatusApplied)
	h.state.SetSortByDeadline(false)

	assert.Equal(t, ByStatus(domain.StatusApplied), h.state.Mode())
	assert.Len(t, h.changes, 1)
}

func TestState_SortOffKeepsPendingTerm(t *testing.T) {
	h := newHarness()

	h.state.SetTechStackTerm("Java")
	h.state.SetSortByDeadline(false)
	assert.Equal(t, "Java", h.state.Input())

	h.clock.Advance(time.Second)
	assert.Equal(t, []Mode{ByTechStack("Java")}, h.changes)
	assert.Equal(t, ByTechStack("Java"), h.state.Mode())
}

func TestState_SortOffKeepsActiveTerm(t *testing.T) {
	h := newHarness()

	h.state.SetTechStackTerm("Go")
	h.clock.Advance(time.Second)
	h.state.SetSortByDeadline(false)

	assert.Equal(t, ByTechStack("Go"), h.state.Mode())
	assert.Equal(t, "Go", h.state.Input())
	assert.Len(t, h.changes, 1)
}

func TestState_ClearingStatusReturnsToAll(t *testing.T) {
	h := newHarness()

	h.state.SetStatus(domain.StatusRejected)
	h.state.SetStatus("")

	assert.Equal(t, []Mode{ByStatus(domain.StatusRejected), All()}, h.changes)
}

func TestState_FlushTerm(t *testing.T) {
	h := newHarness()

	h.state.SetTechStackTerm("Rust")
	assert.True(t, h.state.FlushTerm())
	assert.Equal(t, ByTechStack("Rust"), h.state.Mode())
	assert.Zero(t, h.clock.Active())
}

func TestState_Reset(t *testing.T) {
	h := newHarness()

	h.state.SetSortByDeadline(true)
	h.state.SetTechStackTerm("Go")
	h.state.Reset()
	h.clock.Advance(time.Second)

	assert.Equal(t, All(), h.state.Mode())
	assert.Equal(t, []Mode{SortedByDeadline(), All()}, h.changes)
}
