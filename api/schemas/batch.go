// api/schemas/batch.go
package schemas

import "time"

// BatchResult accumulates the outcome of one batch run. It is created by the
// orchestrator at batch start and mutated after each record; there is no
// concurrent access because records run strictly one at a time.
type BatchResult struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time

	Total     int
	Processed int

	// Failure details. FailedIndex is -1 while no record has failed.
	FailedIndex  int
	FailedRecord string
	Err          error
}

// NewBatchResult initializes a result for a batch of the given size.
func NewBatchResult(runID string, total int) *BatchResult {
	return &BatchResult{
		RunID:       runID,
		StartedAt:   time.Now(),
		Total:       total,
		FailedIndex: -1,
	}
}

// Succeeded reports whether every record in the batch completed.
func (r *BatchResult) Succeeded() bool {
	return r.Err == nil && r.Processed == r.Total
}

// Report is the single structured notification handed to the sink at the end
// of a batch run.
type Report struct {
	RunID     string
	Success   bool
	Processed int
	Total     int
	// RecordNames lists every record in batch order.
	RecordNames []string
	// FailedIndex marks the failing entry of RecordNames; -1 on success.
	FailedIndex   int
	FailureDetail string
	Duration      time.Duration
}

// Cue is a side-channel signal emitted at batch boundaries. Delivery (sound,
// desktop notification, whatever the operator rigged up) is the sink's
// business.
type Cue int

const (
	CueStart Cue = iota
	CueSuccess
	CueError
)

func (c Cue) String() string {
	switch c {
	case CueStart:
		return "start"
	case CueSuccess:
		return "success"
	case CueError:
		return "error"
	}
	return "unknown"
}
