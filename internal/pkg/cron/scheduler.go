package cron

import (
	"context"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/sahl-hr/attendance-backend-go/internal/pkg/database"
)

// Job represents a scheduled job
type Job struct {
	Name     string
	Interval time.Duration
	Fn       func(ctx context.Context) error
}

// Scheduler manages scheduled jobs. A named job runs at most once per
// trigger point: an in-process flag guards against overlapping ticks and
// a Postgres advisory lock guards against other replicas.
type Scheduler struct {
	db       *database.DB
	jobs     []Job
	inFlight map[string]bool
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	mu       sync.Mutex
}

// NewScheduler creates a new cron scheduler
func NewScheduler(db *database.DB) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		db:       db,
		jobs:     make([]Job, 0),
		inFlight: make(map[string]bool),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// AddJob adds a job to the scheduler
func (s *Scheduler) AddJob(name string, interval time.Duration, fn func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, Job{
		Name:     name,
		Interval: interval,
		Fn:       fn,
	})
	slog.Info("Cron job registered", "name", name, "interval", interval)
}

// Start begins running all scheduled jobs
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.runJob(job)
	}

	slog.Info("Cron scheduler started", "job_count", len(s.jobs))
}

// Stop gracefully stops all scheduled jobs
func (s *Scheduler) Stop() {
	slog.Info("Stopping cron scheduler...")
	s.cancel()
	s.wg.Wait()
	slog.Info("Cron scheduler stopped")
}

// runJob runs a single job on its schedule
func (s *Scheduler) runJob(job Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	// Run immediately on start
	s.executeJob(job)

	for {
		select {
		case <-s.ctx.Done():
			slog.Info("Cron job stopping", "name", job.Name)
			return
		case <-ticker.C:
			s.executeJob(job)
		}
	}
}

// executeJob executes a job and logs results
func (s *Scheduler) executeJob(job Job) {
	s.mu.Lock()
	if s.inFlight[job.Name] {
		s.mu.Unlock()
		slog.Debug("Cron job still running, skipping tick", "name", job.Name)
		return
	}
	s.inFlight[job.Name] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight[job.Name] = false
		s.mu.Unlock()
	}()

	// The lock and unlock must run on the same session, so the lock
	// handle pins a pooled connection for the duration of the job.
	lock, acquired, err := s.db.TryAdvisoryLock(s.ctx, jobLockKey(job.Name))
	if err != nil {
		slog.Error("Cron job lock acquisition failed", "name", job.Name, "error", err)
		return
	}
	if !acquired {
		slog.Debug("Cron job held by another instance, skipping", "name", job.Name)
		return
	}
	defer func() {
		if err := lock.Release(context.Background()); err != nil {
			slog.Error("Cron job lock release failed", "name", job.Name, "error", err)
		}
	}()

	start := time.Now()
	slog.Debug("Cron job starting", "name", job.Name)

	if err := job.Fn(s.ctx); err != nil {
		slog.Error("Cron job failed", "name", job.Name, "error", err, "duration", time.Since(start))
	} else {
		slog.Debug("Cron job completed", "name", job.Name, "duration", time.Since(start))
	}
}

// RunOnce runs all jobs once (useful for testing)
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		if err := job.Fn(ctx); err != nil {
			slog.Error("Cron job failed", "name", job.Name, "error", err)
		}
	}
}

func jobLockKey(name string) int64 {
	h := fnv.New64a()
	h.Write([]byte("cron:" + name))
	return int64(h.Sum64())
}
