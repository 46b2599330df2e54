package tasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/willyosu/willybot/willybot/logger"
	"golang.org/x/sync/errgroup"
)

// Job is one periodic maintenance task.
type Job interface {
	Code() string
	Interval() time.Duration
	Run(ctx context.Context) error
}

// Recorder receives the outcome of every job run.
type Recorder interface {
	ObserveJob(code string, took time.Duration, err error)
}

// Scheduler runs each job on its own loop. A failing or panicking run is
// logged and never stops the other jobs or the next run of the same job.
type Scheduler struct {
	jobs     []Job
	recorder Recorder
}

func NewScheduler(recorder Recorder, jobs ...Job) *Scheduler {
	return &Scheduler{jobs: jobs, recorder: recorder}
}

func (s *Scheduler) Jobs() []Job {
	return s.jobs
}

// Run starts every loop and blocks until ctx is cancelled. Each job runs
// once straight away and then once per interval.
func (s *Scheduler) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, job := range s.jobs {
		job := job
		g.Go(func() error {
			s.loop(ctx, job)
			return nil
		})
	}
	return g.Wait()
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	interval := job.Interval()
	if interval <= 0 {
		slog.Warn("Task disabled",
			slog.String("type", "task"),
			slog.String("name", job.Code()))
		return
	}

	_ = s.RunOnce(ctx, job)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.RunOnce(ctx, job)
		}
	}
}

// RunOnce runs a job a single time and reports its outcome.
func (s *Scheduler) RunOnce(ctx context.Context, job Job) (err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", job.Code(), r)
		}
		took := time.Since(start)
		logger.LogTask(job.Code(), took, err)
		if s.recorder != nil {
			s.recorder.ObserveJob(job.Code(), took, err)
		}
	}()
	return job.Run(ctx)
}

// RunAll runs the jobs with the given codes once, concurrently, or every
// job when no code is given. One job failing does not cancel the others.
func (s *Scheduler) RunAll(ctx context.Context, codes ...string) error {
	selected, err := s.selectJobs(codes)
	if err != nil {
		return err
	}

	var (
		mu   sync.Mutex
		errs []error
		g    errgroup.Group
	)
	for _, job := range selected {
		job := job
		g.Go(func() error {
			if err := s.RunOnce(ctx, job); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

func (s *Scheduler) selectJobs(codes []string) ([]Job, error) {
	if len(codes) == 0 {
		return s.jobs, nil
	}
	var out []Job
	for _, code := range codes {
		found := false
		for _, job := range s.jobs {
			if job.Code() == code {
				out = append(out, job)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown task %q", code)
		}
	}
	return out, nil
}
