package workers

import (
	"context"
	"fmt"
	"sync/atomic"
)

// Status is the lifecycle state of a submitted task.
type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Handle resolves to the result of a task submitted with Submit.
// Abandoning a handle does not cancel its task.
type Handle[T any] struct {
	status atomic.Value
	done   chan struct{}
	value  T
	err    error
}

func newHandle[T any]() *Handle[T] {
	h := &Handle[T]{done: make(chan struct{})}
	h.status.Store(StatusSubmitted)
	return h
}

// Submit schedules fn on p and returns a handle to its result.
// fn receives a context detached from ctx's cancellation, so a caller that
// stops waiting does not interrupt the task. Values carried by ctx are kept.
func Submit[T any](ctx context.Context, p *Pool, fn func(context.Context) (T, error)) (*Handle[T], error) {
	h := newHandle[T]()
	taskCtx := context.WithoutCancel(ctx)

	err := p.Go(func() {
		h.status.Store(StatusRunning)

		var (
			value T
			err   error
		)
		func() {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("workers: task panicked: %v", r)
				}
			}()
			value, err = fn(taskCtx)
		}()

		h.resolve(value, err)
	})
	if err != nil {
		return nil, err
	}

	return h, nil
}

// Wait blocks until the task completes or ctx is done.
// When ctx ends first, the task keeps running and ctx.Err() is returned.
func (h *Handle[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-h.done:
		return h.value, h.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done is closed once the task has completed.
func (h *Handle[T]) Done() <-chan struct{} {
	return h.done
}

// Poll returns the result without blocking. ok is false while the task is pending.
func (h *Handle[T]) Poll() (value T, ok bool, err error) {
	select {
	case <-h.done:
		return h.value, true, h.err
	default:
		return value, false, nil
	}
}

// Status reports the current state of the task.
func (h *Handle[T]) Status() Status {
	return h.status.Load().(Status)
}

func (h *Handle[T]) resolve(value T, err error) {
	h.value = value
	h.err = err
	if err != nil {
		h.status.Store(StatusFailed)
	} else {
		h.status.Store(StatusCompleted)
	}
	close(h.done)
}
