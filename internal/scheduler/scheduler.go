package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/metung95-cpu/ajet-stock/internal/domain/models"
)

const sessionSweepSpec = "@every 5m"

// InventoryWarmer reloads the inventory snapshot.
type InventoryWarmer interface {
	Warm(ctx context.Context) error
}

// SessionSweeper drops expired sessions.
type SessionSweeper interface {
	SweepExpired() int
}

// SummaryReporter builds the ledger summary of a day.
type SummaryReporter interface {
	DailySummary(ctx context.Context, day time.Time) (models.LedgerSummary, error)
}

// SummarySender delivers a ledger summary.
type SummarySender interface {
	SendSummary(ctx context.Context, summary models.LedgerSummary) error
}

// Jobs lists the collaborators and their schedules. Nil collaborators and empty
// schedules disable the job.
type Jobs struct {
	Warmer       InventoryWarmer
	WarmSchedule string

	Sweeper SessionSweeper

	Reporter        SummaryReporter
	Sender          SummarySender
	SummarySchedule string
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	jobs     Jobs
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewScheduler creates a new scheduler instance running in loc.
func NewScheduler(jobs Jobs, loc *time.Location, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		jobs:     jobs,
		location: loc,
		logger:   logger,
		now:      time.Now,
	}
}

// Start registers the enabled jobs and starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler")

	if s.jobs.Sweeper != nil {
		s.add("session sweep", sessionSweepSpec, s.sweepSessions)
	}
	if s.jobs.Warmer != nil && s.jobs.WarmSchedule != "" {
		s.add("inventory warm-up", s.jobs.WarmSchedule, s.warmInventory)
	}
	if s.jobs.Reporter != nil && s.jobs.Sender != nil && s.jobs.SummarySchedule != "" {
		s.add("daily ledger summary", s.jobs.SummarySchedule, s.sendDailySummary)
	}

	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) add(name, spec string, fn func()) {
	if _, err := s.cron.AddFunc(spec, fn); err != nil {
		s.logger.Error("failed to schedule job", zap.String("job", name), zap.String("spec", spec), zap.Error(err))
		return
	}
	s.logger.Info("job scheduled", zap.String("job", name), zap.String("spec", spec))
}

func (s *Scheduler) sweepSessions() {
	if removed := s.jobs.Sweeper.SweepExpired(); removed > 0 {
		s.logger.Info("expired sessions removed", zap.Int("count", removed))
	}
}

func (s *Scheduler) warmInventory() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := s.jobs.Warmer.Warm(ctx); err != nil {
		s.logger.Warn("inventory warm-up failed", zap.Error(err))
	}
}

func (s *Scheduler) sendDailySummary() {
	s.logger.Info("generating daily ledger summary")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	summary, err := s.jobs.Reporter.DailySummary(ctx, s.now().In(s.location))
	if err != nil {
		s.logger.Error("failed to generate daily summary", zap.Error(err))
		return
	}

	if err := s.jobs.Sender.SendSummary(ctx, summary); err != nil {
		s.logger.Error("failed to send daily summary", zap.Error(err))
	} else {
		s.logger.Info("daily summary sent successfully", zap.String("date", summary.Date))
	}
}
