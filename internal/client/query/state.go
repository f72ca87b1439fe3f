package query

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/jobtracker/internal/domain"
)

// DefaultDebounceWindow is the quiet period before typed search text is adopted.
const DefaultDebounceWindow = 500 * time.Millisecond

type pendingTerm struct {
	gen  uint64
	term string
}

// State owns the active Mode. Status and sort selections apply at once;
// tech-stack text goes through a Debouncer first. Every transition to a
// different mode is reported to onChange exactly once, in order.
//
// onChange runs with the state locked and must not call back into State.
type State struct {
	mu        sync.Mutex
	mode      Mode
	input     string
	termGen   uint64
	debouncer *Debouncer[pendingTerm]
	onChange  func(Mode)
}

func NewState(window time.Duration, onChange func(Mode)) *State {
	if onChange == nil {
		onChange = func(Mode) {}
	}
	s := &State{onChange: onChange}
	s.debouncer = NewDebouncer(window, s.adopt)
	return s
}

func (s *State) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Input is the tech-stack text as last typed, adopted or not.
func (s *State) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// SetTechStackTerm schedules term for adoption after the debounce window.
func (s *State) SetTechStackTerm(term string) {
	s.mu.Lock()
	s.input = term
	s.termGen++
	gen := s.termGen
	s.mu.Unlock()

	s.debouncer.Push(pendingTerm{gen: gen, term: term})
}

// FlushTerm adopts a pending term immediately.
func (s *State) FlushTerm() bool {
	return s.debouncer.Flush()
}

func (s *State) adopt(p pendingTerm) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.gen != s.termGen {
		return
	}
	next := ByTechStack(p.term)
	// A blank term only clears a tech-stack query; other axes are untouched.
	if next.IsAll() && s.mode.Kind() != KindTechStack {
		return
	}
	s.transition(next)
}

// SetStatus filters by status; the empty status means All.
func (s *State) SetStatus(status domain.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dropTerm()
	s.transition(ByStatus(status))
}

// SetSortByDeadline switches deadline ordering on, or back to All when off.
// Turning it off while another mode is active changes nothing.
func (s *State) SetSortByDeadline(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if on {
		s.dropTerm()
		s.transition(SortedByDeadline())
		return
	}
	if s.mode.Kind() == KindSortedByDeadline {
		s.dropTerm()
		s.transition(All())
	}
}

// Reset returns to All without debounce.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dropTerm()
	s.transition(All())
}

// dropTerm discards typed text and any pending adoption; s.mu must be held.
func (s *State) dropTerm() {
	s.input = ""
	s.termGen++
	s.debouncer.Cancel()
}

// transition applies next and reports it if it differs; s.mu must be held.
func (s *State) transition(next Mode) {
	if next == s.mode {
		return
	}
	s.mode = next
	if next.Kind() != KindTechStack {
		s.input = ""
	}
	s.onChange(next)
}
