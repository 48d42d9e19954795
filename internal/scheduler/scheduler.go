// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the periodic maintenance jobs: cache warm-up,
// GeoIP database reload and event log cleanup.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/biemme2/biemme2-site/internal/store"
)

// ErrJobNotFound is returned by Trigger for an unknown job name.
var ErrJobNotFound = errors.New("scheduler: job not found")

// defaultJobTimeout bounds a single run.
const defaultJobTimeout = 2 * time.Minute

// Job is a named periodic task.
type Job struct {
	Name        string
	Description string
	Schedule    string // cron spec or descriptor such as "@hourly"
	Run         func(ctx context.Context) error
}

// JobInfo is the public view of a registered job.
type JobInfo struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Schedule    string    `json:"schedule"`
	LastRun     time.Time `json:"lastRun,omitzero"`
	LastError   string    `json:"lastError,omitempty"`
	NextRun     time.Time `json:"nextRun,omitzero"`
}

type registeredJob struct {
	job     Job
	entryID cron.EntryID
	lastRun time.Time
	lastErr error
	running sync.Mutex
}

// Scheduler owns a cron instance and the jobs registered on it.
type Scheduler struct {
	cron    *cron.Cron
	logger  *slog.Logger
	timeout time.Duration

	mu   sync.RWMutex
	jobs map[string]*registeredJob
}

// New creates a new scheduler instance.
func New(logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.Recover(cron.DiscardLogger))),
		logger:  logger.With("component", "scheduler", "category", store.EventCategorySystem),
		timeout: defaultJobTimeout,
		jobs:    make(map[string]*registeredJob),
	}
}

// Add registers a job. A job with an empty schedule is registered for
// manual triggering only.
func (s *Scheduler) Add(job Job) error {
	if job.Name == "" || job.Run == nil {
		return fmt.Errorf("scheduler: job needs a name and a run func")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[job.Name]; exists {
		return fmt.Errorf("scheduler: job %q already registered", job.Name)
	}

	rj := &registeredJob{job: job}
	if job.Schedule != "" {
		id, err := s.cron.AddFunc(job.Schedule, func() {
			_ = s.run(context.Background(), rj)
		})
		if err != nil {
			return fmt.Errorf("scheduling %s (%q): %w", job.Name, job.Schedule, err)
		}
		rj.entryID = id
	}
	s.jobs[job.Name] = rj
	s.logger.Debug("registered scheduled job", "name", job.Name, "schedule", job.Schedule)
	return nil
}

// Start begins running scheduled jobs.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop gracefully stops the scheduler, waiting for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// Trigger runs the named job now and returns its error.
func (s *Scheduler) Trigger(ctx context.Context, name string) error {
	s.mu.RLock()
	rj, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	return s.run(ctx, rj)
}

// run executes a job once. Overlapping runs of the same job are skipped.
func (s *Scheduler) run(ctx context.Context, rj *registeredJob) error {
	if !rj.running.TryLock() {
		s.logger.Warn("job still running, skipping", "name", rj.job.Name)
		return nil
	}
	defer rj.running.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	err := rj.job.Run(ctx)

	s.mu.Lock()
	rj.lastRun = start
	rj.lastErr = err
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("scheduled job failed", "name", rj.job.Name, "error", err)
		return err
	}
	s.logger.Debug("scheduled job finished", "name", rj.job.Name, "duration", time.Since(start))
	return nil
}

// List returns all registered jobs sorted by name.
func (s *Scheduler) List() []JobInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]JobInfo, 0, len(s.jobs))
	for _, rj := range s.jobs {
		info := JobInfo{
			Name:        rj.job.Name,
			Description: rj.job.Description,
			Schedule:    rj.job.Schedule,
			LastRun:     rj.lastRun,
		}
		if rj.lastErr != nil {
			info.LastError = rj.lastErr.Error()
		}
		if rj.entryID != 0 {
			info.NextRun = s.cron.Entry(rj.entryID).Next
		}
		result = append(result, info)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}
