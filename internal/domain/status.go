package domain

import (
	"fmt"
	"strings"
)

// Status is the stage an application is in.
type Status string

const (
	StatusApplied      Status = "Applied"
	StatusInterviewing Status = "Interviewing"
	StatusOffer        Status = "Offer"
	StatusRejected     Status = "Rejected"
	StatusAccepted     Status = "Accepted"
)

var statuses = []Status{StatusApplied, StatusInterviewing, StatusOffer, StatusRejected, StatusAccepted}

// Statuses lists every status in display order.
func Statuses() []Status {
	out := make([]Status, len(statuses))
	copy(out, statuses)
	return out
}

func (s Status) Valid() bool {
	for _, v := range statuses {
		if v == s {
			return true
		}
	}
	return false
}

// ParseStatus matches s case-insensitively against the known statuses.
func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	for _, v := range statuses {
		if strings.EqualFold(string(v), s) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown status %q", s)
}
