// Package audit assembles the envelope that is persisted for every crash
// report: intake metadata, the untouched payload and the decision trace.
package audit

import (
	"time"

	"crash-event-service/models"
)

// Build wraps report and its actions. The status is always COMPLETED; a
// report whose processing failed is never turned into an envelope.
func Build(report models.CrashReport, actions []models.Action, receivedAt, completedAt time.Time) models.Envelope {
	if actions == nil {
		actions = []models.Action{}
	}
	return models.Envelope{
		Audit: models.Audit{
			ReceivedAt: receivedAt,
		},
		OriginalPayload: report,
		Processing: models.Processing{
			Status:      models.ProcessingStatusCompleted,
			CompletedAt: completedAt,
			Actions:     actions,
		},
	}
}
