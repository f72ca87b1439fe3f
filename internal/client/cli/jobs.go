package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/jobtracker/internal/client/export"
	"github.com/dmitrijs2005/jobtracker/internal/client/mutation"
	"github.com/dmitrijs2005/jobtracker/internal/common"
	"github.com/dmitrijs2005/jobtracker/internal/domain"
)

// DefaultExportFile is where "export file" writes when no path is given.
const DefaultExportFile = "exports/jobs.csv"

var statusNames = func() string {
	names := make([]string, 0, len(domain.Statuses()))
	for _, s := range domain.Statuses() {
		names = append(names, string(s))
	}
	return strings.Join(names, "|")
}()

// today is a test seam for the default applied date.
var today = func() domain.Date { return domain.DateOf(time.Now()) }

func (a *App) requireLogin() error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "Please log in first")
		return common.ErrNotLoggedIn
	}
	return nil
}

// waitAndPrintList lets outstanding fetches settle, then renders the view.
func (a *App) waitAndPrintList() {
	a.tracker.Wait()
	printList(a.out, a.tracker.List.Snapshot())
}

// List renders the current view without fetching.
func (a *App) List(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	a.waitAndPrintList()
	return nil
}

// Refresh fetches the current view again.
func (a *App) Refresh(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	a.tracker.List.Refresh(ctx)
	a.waitAndPrintList()
	return nil
}

// Search switches to the tech-stack query. A submitted line needs no quiet
// period, so the pending term is adopted at once. An empty term leaves the
// search.
func (a *App) Search(ctx context.Context, term string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	a.tracker.Query.SetTechStackTerm(term)
	a.tracker.Query.FlushTerm()
	a.waitAndPrintList()
	return nil
}

// Filter switches to the status query; "all" or no argument goes back to
// the full list.
func (a *App) Filter(ctx context.Context, arg string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	var status domain.Status
	if arg != "" && !strings.EqualFold(arg, "all") {
		s, err := domain.ParseStatus(arg)
		if err != nil {
			fmt.Fprintf(a.out, "Usage: status [%s|all]\n", statusNames)
			return err
		}
		status = s
	}
	a.tracker.Query.SetStatus(status)
	a.waitAndPrintList()
	return nil
}

// Sort turns deadline ordering on, or off with "off".
func (a *App) Sort(ctx context.Context, arg string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	a.tracker.Query.SetSortByDeadline(!strings.EqualFold(arg, "off"))
	a.waitAndPrintList()
	return nil
}

// Clear drops any search, filter or sort.
func (a *App) Clear(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	a.tracker.Query.Reset()
	a.waitAndPrintList()
	return nil
}

// Show prints one application from the current view.
func (a *App) Show(ctx context.Context, id string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	j, err := a.lookup(id)
	if err != nil {
		return err
	}
	printJob(a.out, j)
	return nil
}

func (a *App) lookup(id string) (domain.JobApplication, error) {
	a.tracker.Wait()
	j, ok := a.tracker.List.Find(id)
	if !ok {
		fmt.Fprintf(a.out, "No job application %q in the current view\n", id)
		return domain.JobApplication{}, common.ErrorNotFound
	}
	return j, nil
}

// readForm prompts for every field, offering def as the current values.
func (a *App) readForm(def mutation.Form) (mutation.Form, error) {
	var f mutation.Form
	fields := []struct {
		prompt string
		def    string
		dst    *string
	}{
		{"Company", def.Company, &f.Company},
		{"Position", def.Position, &f.Position},
		{"Tech stack (comma separated)", def.TechStack, &f.TechStack},
		{"Applied date (YYYY-MM-DD)", def.AppliedDate, &f.AppliedDate},
		{"Deadline (YYYY-MM-DD, '-' for none)", def.Deadline, &f.Deadline},
		{"Status (" + statusNames + ")", def.Status, &f.Status},
	}
	for _, fld := range fields {
		v, err := getTextWithDefault(a.reader, fld.prompt, fld.def, a.out)
		if err != nil {
			return mutation.Form{}, err
		}
		*fld.dst = v
	}
	return f, nil
}

// Add prompts for a new application. The form keeps what was entered after
// a failure, so running add again starts from it.
func (a *App) Add(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	def := a.tracker.Mutations.Form()
	if def.AppliedDate == "" {
		def.AppliedDate = today().String()
	}

	f, err := a.readForm(def)
	if err != nil {
		return err
	}

	if _, err := a.tracker.Mutations.Create(ctx, f); err != nil {
		return err
	}
	a.waitAndPrintList()
	return nil
}

// Edit prompts over the fields of an application in the current view. After
// a failed save the user may retry with the values just entered; declining
// leaves edit mode.
func (a *App) Edit(ctx context.Context, id string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	j, err := a.lookup(id)
	if err != nil {
		return err
	}

	def := a.tracker.Mutations.BeginEdit(j)
	for {
		f, err := a.readForm(def)
		if err != nil {
			a.tracker.Mutations.CancelEdit()
			return err
		}

		_, err = a.tracker.Mutations.Update(ctx, f)
		if err == nil {
			a.waitAndPrintList()
			return nil
		}

		again, cerr := confirm(a.reader, "Try again?", a.out)
		if cerr != nil || !again {
			a.tracker.Mutations.CancelEdit()
			return err
		}
		def = f
	}
}

// Delete asks for confirmation, then deletes the application.
func (a *App) Delete(ctx context.Context, id string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	j, err := a.lookup(id)
	if err != nil {
		return err
	}

	if replaced := a.tracker.Mutations.RequestDelete(j.ID); replaced != "" {
		fmt.Fprintf(a.out, "Dropped pending delete of %s\n", replaced)
	}

	ok, err := confirm(a.reader, fmt.Sprintf("Delete %s at %s?", j.Position, j.Company), a.out)
	if err != nil || !ok {
		_ = a.tracker.Mutations.CancelDelete()
		return err
	}

	if err := a.tracker.Mutations.ConfirmDelete(ctx); err != nil {
		return err
	}
	a.waitAndPrintList()
	return nil
}

// Stats prints the per-status counts of the signed-in user.
func (a *App) Stats(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	a.tracker.Wait()
	printStats(a.out, a.tracker.Stats.Snapshot())
	return nil
}

// Export writes the current view as CSV: "export [file] [path]" to a local
// file, "export s3" to the configured bucket.
func (a *App) Export(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	a.tracker.Wait()
	jobs := a.tracker.List.Snapshot().Jobs

	target := "file"
	if len(args) > 0 {
		target = strings.ToLower(args[0])
	}

	switch target {
	case "s3":
		up, err := a.newUploader(ctx)
		if err != nil {
			fmt.Fprintf(a.out, "Export failed: %s\n", err)
			return err
		}
		u, _ := a.tracker.User()
		key, err := up.Upload(ctx, u.ID, jobs)
		if err != nil {
			fmt.Fprintf(a.out, "Export failed: %s\n", err)
			return err
		}
		fmt.Fprintf(a.out, "Exported %d job applications to s3://%s/%s\n", len(jobs), a.config.ExportBucket, key)

	case "file":
		path := DefaultExportFile
		if len(args) > 1 {
			path = args[1]
		}
		if err := export.ToFile(path, jobs); err != nil {
			fmt.Fprintf(a.out, "Export failed: %s\n", err)
			return err
		}
		fmt.Fprintf(a.out, "Exported %d job applications to %s\n", len(jobs), path)

	default:
		fmt.Fprintln(a.out, "Usage: export [file [path]] | export s3")
		return errors.New("unknown export target")
	}
	return nil
}
