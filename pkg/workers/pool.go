// Package workers runs tasks on a bounded pool of goroutines.
//
// The pool keeps a fixed set of core workers fed from a bounded backlog.
// When the backlog is full, burst workers are started up to the configured
// maximum; a burst worker retires after sitting idle for the idle timeout.
// When every worker is busy and the backlog is full, submission fails with
// ErrSaturated instead of blocking the caller.
package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/JaimeStill/color-lab/pkg/lifecycle"
)

var (
	// ErrSaturated indicates every worker is busy and the backlog is full.
	ErrSaturated = errors.New("workers: pool saturated")

	// ErrClosed indicates the pool no longer accepts tasks.
	ErrClosed = errors.New("workers: pool closed")
)

// Pool executes submitted functions on core and burst workers.
type Pool struct {
	core        int
	max         int
	idleTimeout time.Duration
	drain       time.Duration
	tasks       chan func()

	mu      sync.Mutex
	closed  bool
	workers int

	busy atomic.Int64
	wg   sync.WaitGroup

	logger *slog.Logger
}

// New creates a pool and starts its core workers.
// cfg is expected to be finalized.
func New(cfg *Config, logger *slog.Logger) *Pool {
	p := &Pool{
		core:        cfg.Core,
		max:         cfg.Max,
		idleTimeout: cfg.IdleTimeoutDuration(),
		drain:       cfg.ShutdownTimeoutDuration(),
		tasks:       make(chan func(), cfg.Backlog),
		logger:      logger.With("system", "workers"),
	}

	p.mu.Lock()
	for range p.core {
		p.spawnLocked(nil, false)
	}
	p.mu.Unlock()

	return p
}

// Start registers a shutdown hook that drains the pool when the coordinator shuts down.
func (p *Pool) Start(lc *lifecycle.Coordinator) error {
	p.logger.Info("starting worker pool", "core", p.core, "max", p.max, "backlog", cap(p.tasks))

	lc.OnShutdown(func() {
		<-lc.Context().Done()

		ctx, cancel := context.WithTimeout(context.Background(), p.drain)
		defer cancel()

		if err := p.Shutdown(ctx); err != nil {
			p.logger.Error("worker pool drain incomplete", "error", err, "queued", p.Queued(), "busy", p.Busy())
			return
		}
		p.logger.Info("worker pool drained")
	})

	return nil
}

// Go schedules fn. It never blocks: when no worker or backlog slot is free it
// returns ErrSaturated, and after Shutdown it returns ErrClosed.
func (p *Pool) Go(fn func()) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}

	select {
	case p.tasks <- fn:
		return nil
	default:
	}

	if p.workers < p.max {
		p.spawnLocked(fn, true)
		return nil
	}

	return ErrSaturated
}

// Shutdown stops intake and waits for queued and running tasks to finish or ctx to expire.
// Tasks still running when ctx expires are not interrupted.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("drain worker pool: %w", ctx.Err())
	}
}

// Workers returns the number of live workers.
func (p *Pool) Workers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.workers
}

// Busy returns the number of workers currently running a task.
func (p *Pool) Busy() int {
	return int(p.busy.Load())
}

// Queued returns the number of tasks waiting in the backlog.
func (p *Pool) Queued() int {
	return len(p.tasks)
}

func (p *Pool) spawnLocked(first func(), burst bool) {
	p.workers++
	p.wg.Add(1)
	go p.work(first, burst)
}

func (p *Pool) work(first func(), burst bool) {
	defer p.wg.Done()

	if first != nil {
		p.run(first)
	}

	if !burst {
		for fn := range p.tasks {
			p.run(fn)
		}
		p.retire(false)
		return
	}

	idle := time.NewTimer(p.idleTimeout)
	defer idle.Stop()

	for {
		select {
		case fn, ok := <-p.tasks:
			if !ok {
				p.retire(false)
				return
			}
			p.run(fn)
			idle.Reset(p.idleTimeout)
		case <-idle.C:
			p.retire(true)
			return
		}
	}
}

func (p *Pool) run(fn func()) {
	p.busy.Add(1)
	defer p.busy.Add(-1)

	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("task panicked", "panic", r)
		}
	}()

	fn()
}

func (p *Pool) retire(idle bool) {
	p.mu.Lock()
	p.workers--
	remaining := p.workers
	p.mu.Unlock()

	if idle {
		p.logger.Debug("burst worker retired", "workers", remaining)
	}
}
