package history

import (
	"context"

	"roomrelease/pkg/logger"
	"roomrelease/pkg/model"
)

// Recorder adapts the repository to the release core's outcome sink. Storage
// is best-effort, non-critical: a failed insert is logged and the release
// flow continues.
type Recorder struct {
	repo Repository
	log  *logger.Logger
}

func NewRecorder(repo Repository, log *logger.Logger) *Recorder {
	return &Recorder{repo: repo, log: log}
}

func (r *Recorder) RecordOutcome(ctx context.Context, record model.ReleaseRecord) {
	if err := r.repo.Insert(ctx, &record); err != nil {
		r.log.Warn("failed to store release record",
			"record_id", record.ID,
			"booking_id", record.BookingID,
			"outcome", string(record.Outcome),
			"error", err,
		)
		return
	}
	r.log.Debug("release record stored", "record_id", record.ID, "outcome", string(record.Outcome))
}
