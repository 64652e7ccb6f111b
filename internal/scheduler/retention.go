package scheduler

import (
	"time"

	"github.com/rs/zerolog"
)

// RunPurger deletes runs created before a cutoff.
type RunPurger interface {
	PurgeOlderThan(cutoff time.Time) (int64, error)
}

// RetentionJob deletes run history older than the configured retention.
type RetentionJob struct {
	purger        RunPurger
	retentionDays int
	log           zerolog.Logger
}

// NewRetentionJob creates a retention job. retentionDays must be positive.
func NewRetentionJob(purger RunPurger, retentionDays int, log zerolog.Logger) *RetentionJob {
	return &RetentionJob{
		purger:        purger,
		retentionDays: retentionDays,
		log:           log.With().Str("job", "run_retention").Logger(),
	}
}

// Name implements Job.
func (j *RetentionJob) Name() string {
	return "run_retention"
}

// Run deletes runs older than the retention window.
func (j *RetentionJob) Run() error {
	cutoff := time.Now().UTC().AddDate(0, 0, -j.retentionDays)

	purged, err := j.purger.PurgeOlderThan(cutoff)
	if err != nil {
		return err
	}

	j.log.Info().
		Int64("purged", purged).
		Int("retention_days", j.retentionDays).
		Msg("Run retention completed")

	return nil
}
