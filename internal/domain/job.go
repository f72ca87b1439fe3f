// Package domain holds the job-application model shared by the client and the
// server. The JSON shape is the wire format of the HTTP API.
package domain

import "strings"

// JobApplication is one tracked application. ID is generated by the client on
// create and never changes; UserID never changes either.
type JobApplication struct {
	ID          string   `json:"id"`
	UserID      string   `json:"userId"`
	Company     string   `json:"company"`
	Position    string   `json:"position"`
	TechStack   []string `json:"techStack"`
	AppliedDate Date     `json:"appliedDate"`
	Deadline    *Date    `json:"deadline"`
	Status      Status   `json:"status"`
}

// HasDeadline reports whether a deadline is set.
func (j JobApplication) HasDeadline() bool {
	return j.Deadline != nil && !j.Deadline.IsZero()
}

// ParseTechStack splits a comma-separated list, trimming entries and dropping
// empty ones. The result is never nil.
func ParseTechStack(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// MatchesTechStack reports whether any stack entry contains term,
// case-insensitively.
func (j JobApplication) MatchesTechStack(term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, t := range j.TechStack {
		if strings.Contains(strings.ToLower(t), term) {
			return true
		}
	}
	return false
}

// Stats maps a status to the number of applications in it.
type Stats map[Status]int

// Total sums all counts.
func (s Stats) Total() int {
	n := 0
	for _, c := range s {
		n += c
	}
	return n
}

// User is the authenticated account as returned by register and login.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token,omitempty"`
}

// Credentials is the body of register and login requests.
type Credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
