package scheduler

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/perfdash/internal/config"
	"github.com/mamadbah2/perfdash/internal/domain/models"
)

type stubReporter struct {
	calls   int
	channel string
	err     error
}

func (r *stubReporter) SendDailySummary(_ context.Context, channel string, _ models.Date) (models.SummarySnapshot, error) {
	r.calls++
	r.channel = channel
	return models.SummarySnapshot{}, r.err
}

func TestSchedulerRegistersJob(t *testing.T) {
	s, err := NewScheduler(config.ReportingConfig{CronSchedule: "0 9 * * *", Timezone: "America/New_York"}, &stubReporter{}, nil)
	require.NoError(t, err)

	require.NoError(t, s.Start())
	defer s.Stop()

	entries := s.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "America/New_York", entries[0].Next.Location().String())
	assert.Equal(t, 9, entries[0].Next.Hour())
}

func TestSchedulerRejectsBadInput(t *testing.T) {
	_, err := NewScheduler(config.ReportingConfig{CronSchedule: "0 9 * * *", Timezone: "Nowhere/City"}, &stubReporter{}, nil)
	assert.Error(t, err)

	s, err := NewScheduler(config.ReportingConfig{CronSchedule: "whenever", Timezone: "UTC"}, &stubReporter{}, nil)
	require.NoError(t, err)
	assert.Error(t, s.Start())
}

func TestJobUsesConfiguredChannelAndSurvivesErrors(t *testing.T) {
	reporter := &stubReporter{err: errors.New("slack down")}
	s, err := NewScheduler(config.ReportingConfig{CronSchedule: "0 9 * * *", Timezone: "UTC", Channel: "finance"}, reporter, nil)
	require.NoError(t, err)

	assert.NotPanics(t, s.sendDailySummary)
	assert.Equal(t, 1, reporter.calls)
	assert.Equal(t, "finance", reporter.channel)
}
