package rate

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Scheduler fires the refresh cycle for the default base on a wall-clock
// period, independent of how long each cycle takes. Reschedule atomically
// replaces the armed timer, so two timers never coexist.
type Scheduler struct {
	refresher *Refresher
	interval  time.Duration

	mu    sync.Mutex
	sched gocron.Scheduler
	job   gocron.Job
}

func NewScheduler(refresher *Refresher, interval time.Duration) *Scheduler {
	if interval < MinIntervalMinutes*time.Minute {
		interval = MinIntervalMinutes * time.Minute
	}
	return &Scheduler{refresher: refresher, interval: interval}
}

func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}
	s.sched = scheduler

	job, err := scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.runRefreshJob),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}
	s.job = job

	scheduler.Start()

	// Stop scheduler when the provided context is canceled.
	go func() {
		<-ctx.Done()
		if sdErr := s.Shutdown(); sdErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", sdErr)
		}
	}()
	return nil
}

func (s *Scheduler) runRefreshJob(jobCtx context.Context) {
	execID := uuid.NewString()
	// Scheduled failures are logged, never raised to a caller; the next tick
	// is the retry.
	if _, err := s.refresher.Refresh(jobCtx, ""); err != nil {
		logrus.Errorf("Scheduled refresh %s failed: %v", execID, err)
	}
}

// Reschedule swaps the pending timer for one with the new interval. No-op
// after Shutdown.
func (s *Scheduler) Reschedule(interval time.Duration) error {
	if interval < MinIntervalMinutes*time.Minute {
		interval = MinIntervalMinutes * time.Minute
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.interval = interval
	if s.sched == nil || s.job == nil {
		return nil
	}

	job, err := s.sched.Update(
		s.job.ID(),
		gocron.DurationJob(interval),
		gocron.NewTask(s.runRefreshJob),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}
	s.job = job
	logrus.Infof("Refresh job rescheduled to every %s", interval)
	return nil
}

// NextRun reports the next scheduled fire time; zero when not running.
func (s *Scheduler) NextRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.job == nil {
		return time.Time{}
	}
	next, err := s.job.NextRun()
	if err != nil {
		return time.Time{}
	}
	return next
}

func (s *Scheduler) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sched == nil {
		return nil
	}
	err := s.sched.Shutdown()
	s.sched = nil
	s.job = nil
	return err
}
