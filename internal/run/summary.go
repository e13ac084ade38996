package run

import (
	"time"

	"github.com/google/uuid"
)

// Summary holds the monotonically increasing counters of one run.
// Each run owns its own Summary; counters are never shared across runs.
type Summary struct {
	RunID          string
	Started        time.Time
	Finished       time.Time
	DatesProcessed int
	PagesRead      int
	WordsRead      int64
	RecordsFound   int
}

// NewSummary starts the counters for a fresh run
func NewSummary() Summary {
	return Summary{
		RunID:   uuid.NewString(),
		Started: time.Now(),
	}
}

// Duration returns the elapsed wall time of the run
func (s Summary) Duration() time.Duration {
	if s.Finished.IsZero() {
		return time.Since(s.Started)
	}
	return s.Finished.Sub(s.Started)
}
