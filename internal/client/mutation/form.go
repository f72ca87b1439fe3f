package mutation

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/jobtracker/internal/common"
	"github.com/dmitrijs2005/jobtracker/internal/domain"
)

// Form holds the raw text of the add/edit form.
type Form struct {
	Company     string
	Position    string
	TechStack   string // comma separated
	AppliedDate string // YYYY-MM-DD
	Deadline    string // YYYY-MM-DD or empty
	Status      string
}

// DefaultForm is the blank form: every field empty, status Applied.
func DefaultForm() Form {
	return Form{Status: string(domain.StatusApplied)}
}

// FormFrom fills a form from an existing application, for editing.
func FormFrom(j domain.JobApplication) Form {
	f := Form{
		Company:     j.Company,
		Position:    j.Position,
		TechStack:   strings.Join(j.TechStack, ", "),
		AppliedDate: j.AppliedDate.String(),
		Status:      string(j.Status),
	}
	if j.HasDeadline() {
		f.Deadline = j.Deadline.String()
	}
	return f
}

// FieldError is one failed field check.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every failed field. It matches
// common.ErrValidationFailed with errors.Is.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return fmt.Sprintf("%s: %s", common.ErrValidationFailed, strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() error { return common.ErrValidationFailed }

// Validate checks the required fields and the date and status formats.
func (f Form) Validate() error {
	var errs []FieldError
	required := func(field, value string) bool {
		if strings.TrimSpace(value) == "" {
			errs = append(errs, FieldError{Field: field, Message: field + " is required"})
			return false
		}
		return true
	}

	required("company", f.Company)
	required("position", f.Position)
	if required("appliedDate", f.AppliedDate) {
		if _, err := domain.ParseDate(strings.TrimSpace(f.AppliedDate)); err != nil {
			errs = append(errs, FieldError{Field: "appliedDate", Message: "appliedDate: " + err.Error()})
		}
	}
	if d := strings.TrimSpace(f.Deadline); d != "" {
		if _, err := domain.ParseDate(d); err != nil {
			errs = append(errs, FieldError{Field: "deadline", Message: "deadline: " + err.Error()})
		}
	}
	if required("status", f.Status) {
		if _, err := domain.ParseStatus(f.Status); err != nil {
			errs = append(errs, FieldError{Field: "status", Message: "status: " + err.Error()})
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

// Build validates the form and produces the application with the given
// identity.
func (f Form) Build(id, userID string) (domain.JobApplication, error) {
	if err := f.Validate(); err != nil {
		return domain.JobApplication{}, err
	}

	applied, _ := domain.ParseDate(strings.TrimSpace(f.AppliedDate))
	status, _ := domain.ParseStatus(f.Status)

	j := domain.JobApplication{
		ID:          id,
		UserID:      userID,
		Company:     strings.TrimSpace(f.Company),
		Position:    strings.TrimSpace(f.Position),
		TechStack:   domain.ParseTechStack(f.TechStack),
		AppliedDate: applied,
		Status:      status,
	}
	if d := strings.TrimSpace(f.Deadline); d != "" {
		deadline, _ := domain.ParseDate(d)
		j.Deadline = &deadline
	}
	return j, nil
}
