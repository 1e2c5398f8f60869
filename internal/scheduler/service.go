package scheduler

import (
	"context"
	"time"

	"github.com/akilli/monitorx/internal/config"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	dailyExpression  = "0 0 9 * * *"
	weeklyExpression = "0 0 9 * * MON"
)

// Runner is the job driven by the scheduler
type Runner interface {
	RunDigest(ctx context.Context) error
}

// Service handles scheduling of digest runs
type Service struct {
	config *config.Config
	runner Runner
	cron   *cron.Cron
}

// NewService creates a new scheduler service in the configured time zone
func NewService(cfg *config.Config, runner Runner) *Service {
	return &Service{
		config: cfg,
		runner: runner,
		cron:   cron.New(cron.WithSeconds(), cron.WithLocation(cfg.Location())),
	}
}

// Expression returns the cron expression for a report schedule
func Expression(schedule string) string {
	switch schedule {
	case "daily":
		return dailyExpression
	default:
		return weeklyExpression
	}
}

// Start begins the scheduled digest runs
func (s *Service) Start() error {
	expr := Expression(s.config.ReportSchedule)

	if _, err := s.cron.AddFunc(expr, s.run); err != nil {
		return err
	}

	s.cron.Start()
	logrus.Infof("Scheduler started with %s schedule (%s)", s.config.ReportSchedule, expr)
	return nil
}

func (s *Service) run() {
	logrus.Info("Starting scheduled digest run")
	if err := s.runner.RunDigest(context.Background()); err != nil {
		logrus.Errorf("Scheduled digest run failed: %v", err)
	}
}

// Next returns the time of the next scheduled run, or zero when not started
func (s *Service) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// Stop stops the scheduler and waits for a running digest to finish
func (s *Service) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
		logrus.Info("Scheduler stopped")
	}
}
