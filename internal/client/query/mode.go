// Package query holds the active way of viewing the job collection and the
// debounced path by which typed search text becomes a query.
package query

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/jobtracker/internal/domain"
)

// Kind discriminates Mode.
type Kind int

const (
	KindAll Kind = iota
	KindTechStack
	KindStatus
	KindSortedByDeadline
)

func (k Kind) String() string {
	switch k {
	case KindAll:
		return "all"
	case KindTechStack:
		return "tech-stack"
	case KindStatus:
		return "status"
	case KindSortedByDeadline:
		return "sorted-by-deadline"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Mode is exactly one of All, ByTechStack(term), ByStatus(status) or
// SortedByDeadline. The zero value is All. Modes are comparable with ==.
type Mode struct {
	kind   Kind
	term   string
	status domain.Status
}

func All() Mode { return Mode{} }

// ByTechStack trims term; a blank term yields All.
func ByTechStack(term string) Mode {
	term = strings.TrimSpace(term)
	if term == "" {
		return All()
	}
	return Mode{kind: KindTechStack, term: term}
}

// ByStatus yields All for the empty status.
func ByStatus(s domain.Status) Mode {
	if s == "" {
		return All()
	}
	return Mode{kind: KindStatus, status: s}
}

func SortedByDeadline() Mode { return Mode{kind: KindSortedByDeadline} }

func (m Mode) Kind() Kind            { return m.kind }
func (m Mode) Term() string          { return m.term }
func (m Mode) Status() domain.Status { return m.status }
func (m Mode) IsAll() bool           { return m.kind == KindAll }

func (m Mode) String() string {
	switch m.kind {
	case KindTechStack:
		return fmt.Sprintf("tech-stack %q", m.term)
	case KindStatus:
		return "status " + string(m.status)
	default:
		return m.kind.String()
	}
}
