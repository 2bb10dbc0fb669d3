package driven

import (
	"time"

	"github.com/custodia-labs/scout-cli/internal/core/domain"
)

// Search outcomes reported to PipelineMetrics.
const (
	OutcomeOK        = "ok"
	OutcomeEmpty     = "empty"
	OutcomeMalformed = "malformed"
	OutcomeFailed    = "retrieval_error"
)

// PipelineMetrics records pipeline activity.
// This is optional; services skip reporting when it is nil.
type PipelineMetrics interface {
	// ObserveRetrieval records the duration of one generator call.
	ObserveRetrieval(provider string, d time.Duration, err error)

	// ObserveSearch records the outcome of one pipeline run.
	ObserveSearch(outcome string)

	// ObserveRecords records the categories of kept records and the number dropped.
	ObserveRecords(records []domain.EventRecord, dropped int)
}
