// Package workers runs a polling worker pool over a Processor. Workers poll
// quickly while work is flowing and back off to an idle interval when the
// processor reports nothing to do.
package workers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/companionhealth/companion/sdk/environment"
)

var (
	// ErrNoWorkAvailable tells the pool the checkout came up empty.
	ErrNoWorkAvailable = errors.New("no work available")

	// ErrWorkerShutdown tells the pool this worker should exit.
	ErrWorkerShutdown = errors.New("worker should shutdown")
)

// Options represents the exportable worker configuration.
type Options struct {
	Name         string        `env:"WORKER_NAME" default:"worker"`
	WorkerCount  int           `env:"WORKER_COUNT" default:"2"`
	PollInterval time.Duration `env:"WORKER_POLL_INTERVAL" default:"5s"`
	IdleInterval time.Duration `env:"WORKER_IDLE_INTERVAL" default:"30s"`
	MaxRetries   int           `env:"WORKER_MAX_RETRIES" default:"3"`
}

type options struct {
	cfg    Options
	logger *slog.Logger
}

// Option configures the worker pool.
type Option func(*options)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithWorkerCount sets the number of workers.
func WithWorkerCount(count int) Option {
	return func(o *options) {
		o.cfg.WorkerCount = count
	}
}

// WithPollInterval sets how often to poll while work is flowing.
func WithPollInterval(interval time.Duration) Option {
	return func(o *options) {
		o.cfg.PollInterval = interval
	}
}

// WithIdleInterval sets how long to wait after an empty checkout.
func WithIdleInterval(interval time.Duration) Option {
	return func(o *options) {
		o.cfg.IdleInterval = interval
	}
}

// WithMaxRetries sets the process retry budget per task.
func WithMaxRetries(maxRetries int) Option {
	return func(o *options) {
		o.cfg.MaxRetries = maxRetries
	}
}

// WorkerPool runs tasks from a Processor across a set of polling workers.
type WorkerPool[T Task] struct {
	processor    Processor[T]
	name         string
	workerCount  int
	pollInterval time.Duration
	idleInterval time.Duration
	maxRetries   int
	log          *slog.Logger

	ctx        context.Context
	cancel     context.CancelFunc
	workers    sync.WaitGroup
	stopMutex  sync.Mutex
	startMutex sync.Mutex
	running    bool
}

// NewFromEnv creates a worker pool using environment variables.
func NewFromEnv[T Task](prefix string, processor Processor[T], opts ...Option) (*WorkerPool[T], error) {
	var cfg Options
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing worker config: %w", err)
	}

	return newWorkerPool(processor, cfg, opts...)
}

// NewWorkerPool creates a worker pool with the given name and worker count.
func NewWorkerPool[T Task](name string, workerCount int, processor Processor[T], opts ...Option) (*WorkerPool[T], error) {
	cfg := Options{
		Name:         name,
		WorkerCount:  workerCount,
		PollInterval: 1 * time.Second,
		IdleInterval: 30 * time.Second,
		MaxRetries:   3,
	}

	return newWorkerPool(processor, cfg, opts...)
}

func newWorkerPool[T Task](processor Processor[T], cfg Options, opts ...Option) (*WorkerPool[T], error) {
	o := &options{cfg: cfg}
	for _, opt := range opts {
		opt(o)
	}

	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.cfg.WorkerCount <= 0 {
		o.cfg.WorkerCount = 1
	}
	if o.cfg.PollInterval <= 0 {
		o.cfg.PollInterval = 5 * time.Second
	}
	if o.cfg.IdleInterval <= 0 {
		o.cfg.IdleInterval = 30 * time.Second
	}

	return &WorkerPool[T]{
		processor:    processor,
		name:         o.cfg.Name,
		workerCount:  o.cfg.WorkerCount,
		pollInterval: o.cfg.PollInterval,
		idleInterval: o.cfg.IdleInterval,
		maxRetries:   o.cfg.MaxRetries,
		log:          o.logger,
	}, nil
}

// Start launches the workers and blocks until the pool stops.
func (wp *WorkerPool[T]) Start(ctx context.Context) error {
	wp.startMutex.Lock()
	wp.log.InfoContext(ctx, "starting worker pool",
		"name", wp.name,
		"worker_count", wp.workerCount,
		"poll_interval", wp.pollInterval)

	wp.ctx, wp.cancel = context.WithCancel(ctx)
	for i := 0; i < wp.workerCount; i++ {
		workerID := fmt.Sprintf("%s-worker-%d", wp.name, i+1)
		wp.workers.Add(1)
		go wp.worker(workerID)
	}
	wp.running = true
	wp.startMutex.Unlock()

	wp.workers.Wait()

	wp.log.InfoContext(ctx, "worker pool stopped", "name", wp.name)
	wp.running = false
	return nil
}

// Stop gracefully stops the worker pool.
func (wp *WorkerPool[T]) Stop() {
	wp.stopMutex.Lock()
	defer wp.stopMutex.Unlock()

	if !wp.running {
		return
	}

	wp.log.Info("stopping worker pool", "name", wp.name)
	if wp.cancel != nil {
		wp.cancel()
		wp.running = false
	}
}

func (wp *WorkerPool[T]) worker(workerID string) {
	defer wp.workers.Done()

	wp.log.InfoContext(wp.ctx, "worker started", "worker_id", workerID, "pool", wp.name)
	defer wp.log.Info("worker stopped", "worker_id", workerID, "pool", wp.name)

	currentInterval := 1 * time.Millisecond
	ticker := time.NewTicker(currentInterval)
	defer ticker.Stop()

	for {
		select {
		case <-wp.ctx.Done():
			return

		case <-ticker.C:
			err := wp.workWithPanicRecovery(wp.ctx, workerID)

			newInterval := wp.pollInterval
			switch {
			case errors.Is(err, ErrWorkerShutdown):
				wp.log.InfoContext(wp.ctx, "worker shutting down as requested", "worker_id", workerID)
				return

			case errors.Is(err, ErrNoWorkAvailable):
				newInterval = wp.idleInterval

			case err != nil:
				wp.log.ErrorContext(wp.ctx, "task processing error",
					"worker_id", workerID,
					"error", err)
			}

			if newInterval != currentInterval {
				currentInterval = newInterval
				ticker.Reset(newInterval)
			}
		}
	}
}

func (wp *WorkerPool[T]) workWithPanicRecovery(ctx context.Context, workerID string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			wp.log.Error("panic recovered in worker",
				"worker_id", workerID,
				"panic", r,
				"stack_trace", string(debug.Stack()))
			err = fmt.Errorf("panic recovered: %v", r)
		}
	}()

	return wp.work(ctx, workerID)
}

// work runs one Checkout -> Process -> Complete/Fail cycle.
func (wp *WorkerPool[T]) work(ctx context.Context, workerID string) error {
	task, err := wp.processor.Checkout(ctx, workerID)
	if err != nil {
		if errors.Is(err, ErrNoWorkAvailable) {
			return err
		}
		return fmt.Errorf("checkout failed: %w", err)
	}

	startTime := time.Now()

	processedTask, processErr := wp.processWithRetry(ctx, task)
	duration := time.Since(startTime)

	if processErr != nil {
		if failErr := wp.processor.Fail(ctx, task, processErr); failErr != nil {
			wp.log.ErrorContext(ctx, "failed to mark task as failed",
				"task_id", task.GetID(),
				"error", failErr)
		}
		return fmt.Errorf("task processing error: %w", processErr)
	}

	if completeErr := wp.processor.Complete(ctx, processedTask, int(duration.Milliseconds())); completeErr != nil {
		wp.log.ErrorContext(ctx, "failed to mark task as complete",
			"task_id", task.GetID(),
			"error", completeErr)
	}

	wp.log.InfoContext(ctx, "task completed",
		"worker_id", workerID,
		"task_id", task.GetID(),
		"duration_ms", int(duration.Milliseconds()))

	return nil
}

func (wp *WorkerPool[T]) processWithRetry(ctx context.Context, task T) (T, error) {
	maxAttempts := wp.maxRetries
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	initialDelay := 1 * time.Second

	var lastErr error
	var processedTask T

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			// Exponential backoff between attempts.
			delay := initialDelay * time.Duration(1<<(attempt-2))
			select {
			case <-ctx.Done():
				return processedTask, ctx.Err()
			case <-time.After(delay):
			}
		}

		processedTask, lastErr = wp.processor.Process(ctx, task)
		if lastErr == nil {
			return processedTask, nil
		}

		if ctx.Err() != nil {
			return processedTask, ctx.Err()
		}

		wp.log.ErrorContext(ctx, "task processing attempt failed",
			"task_id", task.GetID(),
			"attempt", attempt,
			"error", lastErr)
	}

	return processedTask, fmt.Errorf("failed after %d attempts: %w", maxAttempts, lastErr)
}
