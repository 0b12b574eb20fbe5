package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/metung95-cpu/ajet-stock/internal/domain/models"
)

type mockWarmer struct {
	calls int
	err   error
}

func (m *mockWarmer) Warm(_ context.Context) error {
	m.calls++
	return m.err
}

type mockSweeper struct{ calls int }

func (m *mockSweeper) SweepExpired() int {
	m.calls++
	return 1
}

type mockReporter struct {
	day time.Time
	err error
}

func (m *mockReporter) DailySummary(_ context.Context, day time.Time) (models.LedgerSummary, error) {
	m.day = day
	return models.LedgerSummary{Date: "3. 7", FilledRows: 1}, m.err
}

type mockSender struct{ sent []models.LedgerSummary }

func (m *mockSender) SendSummary(_ context.Context, summary models.LedgerSummary) error {
	m.sent = append(m.sent, summary)
	return nil
}

func TestSendDailySummary_UsesSchedulerLocation(t *testing.T) {
	seoul := time.FixedZone("KST", 9*3600)
	reporter := &mockReporter{}
	sender := &mockSender{}
	s := NewScheduler(Jobs{Reporter: reporter, Sender: sender}, seoul, nil)
	s.now = func() time.Time { return time.Date(2026, 3, 6, 20, 0, 0, 0, time.UTC) }

	s.sendDailySummary()

	assert.Equal(t, 7, reporter.day.Day())
	assert.Len(t, sender.sent, 1)
}

func TestSendDailySummary_SkipsSendOnError(t *testing.T) {
	sender := &mockSender{}
	s := NewScheduler(Jobs{Reporter: &mockReporter{err: errors.New("offline")}, Sender: sender}, time.UTC, nil)

	s.sendDailySummary()

	assert.Empty(t, sender.sent)
}

func TestJobsRun(t *testing.T) {
	warmer := &mockWarmer{err: errors.New("quota")}
	sweeper := &mockSweeper{}
	s := NewScheduler(Jobs{Warmer: warmer, WarmSchedule: "@every 1m", Sweeper: sweeper}, time.UTC, nil)

	s.warmInventory()
	s.sweepSessions()

	assert.Equal(t, 1, warmer.calls)
	assert.Equal(t, 1, sweeper.calls)
}

func TestStartStop_SkipsInvalidSchedule(t *testing.T) {
	s := NewScheduler(Jobs{Warmer: &mockWarmer{}, WarmSchedule: "every other tuesday", Sweeper: &mockSweeper{}}, time.UTC, nil)

	assert.NotPanics(t, func() {
		s.Start()
		s.Stop()
	})
	assert.Len(t, s.cron.Entries(), 1)
}
