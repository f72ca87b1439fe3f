// Package export writes the visible job list as CSV, to a local file or to
// an S3 bucket.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/jobtracker/internal/domain"
	"github.com/dmitrijs2005/jobtracker/internal/filex"
)

var header = []string{"id", "company", "position", "techStack", "appliedDate", "deadline", "status"}

// WriteCSV writes jobs with a header row. Tech stack entries are joined
// with "; ", an absent deadline is an empty cell.
func WriteCSV(w io.Writer, jobs []domain.JobApplication) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, j := range jobs {
		deadline := ""
		if j.HasDeadline() {
			deadline = j.Deadline.String()
		}
		rec := []string{
			j.ID,
			j.Company,
			j.Position,
			strings.Join(j.TechStack, "; "),
			j.AppliedDate.String(),
			deadline,
			string(j.Status),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ToFile writes the CSV to path, creating missing parent directories and
// replacing any existing file.
func ToFile(path string, jobs []domain.JobApplication) (err error) {
	abs, err := filex.EnsureParentDir(path)
	if err != nil {
		return fmt.Errorf("prepare export file: %w", err)
	}
	f, err := os.Create(abs)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return WriteCSV(f, jobs)
}
