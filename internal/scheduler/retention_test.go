package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePurger struct {
	cutoff time.Time
	purged int64
	err    error
}

func (f *fakePurger) PurgeOlderThan(cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.purged, f.err
}

func TestRetentionJob_Run(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	purger := &fakePurger{purged: 3}

	job := NewRetentionJob(purger, 30, log)
	require.NoError(t, job.Run())

	expected := time.Now().UTC().AddDate(0, 0, -30)
	assert.WithinDuration(t, expected, purger.cutoff, time.Minute)
}

func TestRetentionJob_PropagatesError(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	purger := &fakePurger{err: errors.New("db locked")}

	job := NewRetentionJob(purger, 30, log)
	assert.Error(t, job.Run())
}

func TestScheduler_RunNow(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	s := New(log)

	purger := &fakePurger{}
	require.NoError(t, s.RunNow(NewRetentionJob(purger, 7, log)))
	assert.False(t, purger.cutoff.IsZero())
}

func TestScheduler_AddJob_InvalidSchedule(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	s := New(log)

	err := s.AddJob("not a schedule", NewRetentionJob(&fakePurger{}, 7, log))
	assert.Error(t, err)
}
