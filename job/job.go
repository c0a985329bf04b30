// Copyright (c) 2025 BVK Chaitanya

// Package job runs strategy loops as background tasks that can be paused or
// canceled through their context.Context argument.
package job

import (
	"context"
	"errors"
	"os"
	"sync"

	"github.com/bvk/dcabot/gobs"
)

// Func is the entry point of a job. It is expected to return promptly when
// its context is canceled, returning context.Cause(ctx) so that the final
// job state reflects how the job was stopped.
type Func func(ctx context.Context) error

var (
	errPause  = errors.New("ErrPause")
	errCancel = errors.New("ErrCancel")
)

// Job is one background task. Pausing and canceling both stop the task by
// canceling its context; they differ only in the cancel cause, which decides
// the final state recorded for listings.
type Job struct {
	cancel context.CancelCauseFunc

	done chan struct{}

	mu    sync.Mutex
	state gobs.JobState
	err   error
}

// Run starts fn on a new goroutine. The job stays in RUNNING state until fn
// returns.
func Run(fn Func, fctx context.Context) *Job {
	jctx, jcancel := context.WithCancelCause(fctx)
	j := &Job{
		cancel: jcancel,
		done:   make(chan struct{}),
		state:  gobs.RUNNING,
	}
	go j.goRun(jctx, fn)
	return j
}

func (j *Job) goRun(ctx context.Context, fn Func) {
	err := fn(ctx)

	j.mu.Lock()
	defer j.mu.Unlock()
	switch {
	case err == nil:
		j.state = gobs.COMPLETED
	case errors.Is(err, errPause):
		j.state = gobs.PAUSED
	case errors.Is(err, errCancel) || errors.Is(err, context.Canceled):
		j.state = gobs.CANCELED
	default:
		j.state = gobs.FAILED
	}
	j.err = err
	close(j.done)
}

// Pause stops the job and records it as paused once the job function
// returns. Returns os.ErrClosed if the job has already finished.
func (j *Job) Pause() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state != gobs.RUNNING {
		return os.ErrClosed
	}
	j.cancel(errPause)
	return nil
}

// Cancel stops the job and records it as canceled once the job function
// returns. Returns os.ErrClosed if the job has already finished.
func (j *Job) Cancel() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state != gobs.RUNNING {
		return os.ErrClosed
	}
	j.cancel(errCancel)
	return nil
}

// Wait blocks until the job function has returned or the wait context
// expires.
func (j *Job) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return context.Cause(ctx)
	case <-j.done:
		return nil
	}
}

// Done reports whether the job function has returned.
func (j *Job) Done() bool {
	select {
	case <-j.done:
		return true
	default:
		return false
	}
}

// State returns the current job state.
func (j *Job) State() gobs.JobState {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// Err returns the error the job function returned. It is meaningful only
// after the job has finished.
func (j *Job) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}
