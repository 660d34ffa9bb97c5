package seed

import "context"

// BatchState is the lifecycle of a batch within a run.
type BatchState string

const (
	StatePending   BatchState = "pending"
	StateRunning   BatchState = "running"
	StateCommitted BatchState = "committed"
	StateFailed    BatchState = "failed"
)

// LoadFunc upserts the records of a batch.
type LoadFunc func(ctx context.Context, u *Upserter) error

// Batch is a named group of records committed together. DependsOn names the
// batches that must be committed first; Groups tags the batch for selection.
type Batch struct {
	Name      string
	DependsOn []string
	Groups    []string
	Load      LoadFunc
}
