// Package scheduler runs background jobs on cron schedules.
package scheduler

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"tolltariff/internal/logging"
)

// Job represents a scheduled job
type Job interface {
	Run() error
	Name() string
}

// Scheduler manages background jobs
type Scheduler struct {
	cron *cron.Cron
	log  *zap.Logger
}

// New creates a new scheduler. Schedules use the standard five-field
// cron syntax or descriptors such as "@every 10m".
func New() *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		log:  logging.Named("scheduler"),
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info("scheduler stopped")
}

// AddJob registers a job with a cron schedule
func (s *Scheduler) AddJob(schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		s.log.Debug("running job", zap.String("job", job.Name()))

		if err := job.Run(); err != nil {
			s.log.Error("job failed", zap.String("job", job.Name()), zap.Error(err))
		} else {
			s.log.Debug("job completed", zap.String("job", job.Name()))
		}
	})
	if err != nil {
		return err
	}

	s.log.Info("job registered", zap.String("schedule", schedule), zap.String("job", job.Name()))
	return nil
}

// RunNow executes a job immediately, outside its schedule
func (s *Scheduler) RunNow(job Job) error {
	s.log.Info("running job immediately", zap.String("job", job.Name()))
	return job.Run()
}

// Entries returns the number of registered jobs
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
