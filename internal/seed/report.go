package seed

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"quiz-seed/internal/domain"
)

// Counts tallies outcomes per entity kind.
type Counts map[domain.EntityKind]map[Outcome]int

func (c Counts) add(kind domain.EntityKind, outcome Outcome) {
	if c[kind] == nil {
		c[kind] = map[Outcome]int{}
	}
	c[kind][outcome]++
}

// Get returns the tally of one kind and outcome.
func (c Counts) Get(kind domain.EntityKind, outcome Outcome) int {
	return c[kind][outcome]
}

func (c Counts) merge(other Counts) {
	for kind, outcomes := range other {
		if c[kind] == nil {
			c[kind] = map[Outcome]int{}
		}
		for o, n := range outcomes {
			c[kind][o] += n
		}
	}
}

// BatchResult is the outcome of one planned batch.
type BatchResult struct {
	Name     string
	State    BatchState
	Duration time.Duration
	Counts   Counts
	Err      error
}

// Report describes a run. Batches are listed in run order.
type Report struct {
	Batches []BatchResult
}

func newReport(planned []Batch) *Report {
	r := &Report{Batches: make([]BatchResult, len(planned))}
	for i, b := range planned {
		r.Batches[i] = BatchResult{Name: b.Name, State: StatePending, Counts: Counts{}}
	}
	return r
}

// Totals sums the counts of committed batches.
func (r *Report) Totals() Counts {
	total := Counts{}
	for _, b := range r.Batches {
		if b.State == StateCommitted {
			total.merge(b.Counts)
		}
	}
	return total
}

// InState returns the names of the batches in state.
func (r *Report) InState(state BatchState) []string {
	var names []string
	for _, b := range r.Batches {
		if b.State == state {
			names = append(names, b.Name)
		}
	}
	return names
}

// Write prints one line per batch and a totals line per kind.
func (r *Report) Write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BATCH\tSTATE\tDURATION\tCREATED\tUPDATED\tUNCHANGED\tSKIPPED")
	for _, b := range r.Batches {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%d\n", b.Name, b.State, b.Duration.Round(time.Millisecond),
			b.Counts.sum(Created), b.Counts.sum(Updated), b.Counts.sum(Unchanged), b.Counts.sum(Skipped))
	}
	totals := r.Totals()
	for _, kind := range domain.EntityKinds {
		fmt.Fprintf(tw, "total %s\t\t\t%d\t%d\t%d\t%d\n", kind,
			totals.Get(kind, Created), totals.Get(kind, Updated), totals.Get(kind, Unchanged), totals.Get(kind, Skipped))
	}
	return tw.Flush()
}

func (c Counts) sum(outcome Outcome) int {
	n := 0
	for _, outcomes := range c {
		n += outcomes[outcome]
	}
	return n
}
