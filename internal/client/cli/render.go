package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/dmitrijs2005/jobtracker/internal/client/list"
	"github.com/dmitrijs2005/jobtracker/internal/client/stats"
	"github.com/dmitrijs2005/jobtracker/internal/domain"
)

// notifier prints mutation outcomes as one-line toasts.
type notifier struct {
	mu sync.Mutex
	w  io.Writer
}

func newNotifier(w io.Writer) *notifier {
	return &notifier{w: w}
}

func (n *notifier) print(tag, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "[%s] %s\n", tag, msg)
}

func (n *notifier) Success(msg string) { n.print("ok", msg) }
func (n *notifier) Error(msg string)   { n.print("error", msg) }
func (n *notifier) Info(msg string)    { n.print("info", msg) }

func deadlineText(j domain.JobApplication) string {
	if j.HasDeadline() {
		return j.Deadline.String()
	}
	return "-"
}

// printList renders the view as a table, or the empty or error message.
func printList(w io.Writer, snap list.Snapshot) {
	fmt.Fprintf(w, "Showing: %s\n", snap.Mode)

	if snap.Err != nil {
		fmt.Fprintf(w, "Error: %s\n", snap.Err)
	}
	if snap.Fetching {
		fmt.Fprintln(w, "Loading...")
	}
	if snap.Err != nil && len(snap.Jobs) == 0 {
		return
	}
	if msg := snap.EmptyMessage(); msg != "" {
		fmt.Fprintln(w, msg)
		return
	}
	if len(snap.Jobs) == 0 {
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCOMPANY\tPOSITION\tSTATUS\tAPPLIED\tDEADLINE\tTECH STACK")
	for _, j := range snap.Jobs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			j.ID, j.Company, j.Position, j.Status, j.AppliedDate, deadlineText(j), strings.Join(j.TechStack, ", "))
	}
	_ = tw.Flush()
}

// printJob renders a single application as name/value lines.
func printJob(w io.Writer, j domain.JobApplication) {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", j.ID)
	fmt.Fprintf(tw, "Company:\t%s\n", j.Company)
	fmt.Fprintf(tw, "Position:\t%s\n", j.Position)
	fmt.Fprintf(tw, "Tech stack:\t%s\n", strings.Join(j.TechStack, ", "))
	fmt.Fprintf(tw, "Applied:\t%s\n", j.AppliedDate)
	fmt.Fprintf(tw, "Deadline:\t%s\n", deadlineText(j))
	fmt.Fprintf(tw, "Status:\t%s\n", j.Status)
	_ = tw.Flush()
}

// printStats renders the per-status counts in display order with a total.
func printStats(w io.Writer, snap stats.Snapshot) {
	if snap.Err != nil {
		fmt.Fprintf(w, "Error: %s\n", snap.Err)
		return
	}
	if snap.Stats.Total() == 0 {
		fmt.Fprintln(w, stats.EmptyMessage)
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, s := range domain.Statuses() {
		fmt.Fprintf(tw, "%s\t%d\n", s, snap.Stats[s])
	}
	fmt.Fprintf(tw, "Total\t%d\n", snap.Stats.Total())
	_ = tw.Flush()
}
