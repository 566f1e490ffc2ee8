package pkgroutine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// DefaultMaxGoroutine is used when NewManager receives a non-positive limit.
const DefaultMaxGoroutine int = 10

// Task is a unit of background work.
type Task func(ctx context.Context) error

// Manager runs tasks in goroutines with a configurable concurrency limit.
//
// Errors returned by tasks are collected and handed back by Wait.
type Manager struct {
	mu      sync.Mutex
	errs    []error
	wg      sync.WaitGroup
	sema    chan struct{}
	running atomic.Int64
}

// NewManager creates a new Manager with the provided maximum concurrency.
func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = DefaultMaxGoroutine
	}

	return &Manager{sema: make(chan struct{}, maxGoroutine)}
}

// Go schedules task under name. It blocks while the manager is at its limit
// and gives up when ctx is done before a slot frees.
func (g *Manager) Go(ctx context.Context, name string, task Task) {
	select {
	case g.sema <- struct{}{}:
	case <-ctx.Done():
		slog.WarnContext(ctx, "background task canceled before start", "task", name, "because", ctx.Err())
		return
	}

	g.wg.Add(1)
	g.running.Add(1)
	go func() {
		defer g.wg.Done()
		defer g.running.Add(-1)
		defer func() {
			<-g.sema

			if rvr := recover(); rvr != nil {
				slog.ErrorContext(ctx, "panic in background task", "task", name, "because", rvr, "stack", string(debug.Stack()))
				g.collect(fmt.Errorf("%s: panic: %v", name, rvr))
			}
		}()

		if err := ctx.Err(); err != nil {
			slog.WarnContext(ctx, "background task canceled", "task", name, "because", err)
			return
		}

		if err := task(ctx); err != nil {
			slog.ErrorContext(ctx, "background task failed", "task", name, "error", err)
			g.collect(fmt.Errorf("%s: %w", name, err))
		}
	}()
}

// Running reports how many tasks are currently in flight.
func (g *Manager) Running() int {
	return int(g.running.Load())
}

// Wait blocks until all scheduled tasks finish and returns the collected errors.
func (g *Manager) Wait() error {
	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()
	return errors.Join(g.errs...)
}

func (g *Manager) collect(err error) {
	g.mu.Lock()
	g.errs = append(g.errs, err)
	g.mu.Unlock()
}
