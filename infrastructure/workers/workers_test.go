package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type testTask struct {
	ID string
}

func (t testTask) GetID() string { return t.ID }

type testProcessor struct {
	mu        sync.Mutex
	queue     []testTask
	processed []string
	failed    []string
	failTimes map[string]int
}

func newTestProcessor(tasks ...testTask) *testProcessor {
	return &testProcessor{
		queue:     tasks,
		failTimes: make(map[string]int),
	}
}

func (p *testProcessor) Checkout(ctx context.Context, workerID string) (testTask, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.queue) == 0 {
		return testTask{}, ErrNoWorkAvailable
	}

	task := p.queue[0]
	p.queue = p.queue[1:]
	return task, nil
}

func (p *testProcessor) Process(ctx context.Context, task testTask) (testTask, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if n := p.failTimes[task.ID]; n > 0 {
		p.failTimes[task.ID] = n - 1
		return task, errors.New("transient failure")
	}
	return task, nil
}

func (p *testProcessor) Complete(ctx context.Context, task testTask, processingTimeMS int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.processed = append(p.processed, task.ID)
	return nil
}

func (p *testProcessor) Fail(ctx context.Context, task testTask, err error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.failed = append(p.failed, task.ID)
	return nil
}

func (p *testProcessor) processedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.processed)
}

func (p *testProcessor) failedCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.failed)
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestPoolProcessesQueue(t *testing.T) {
	p := newTestProcessor(testTask{ID: "a"}, testTask{ID: "b"}, testTask{ID: "c"})

	pool, err := NewWorkerPool("test", 2, p,
		WithPollInterval(5*time.Millisecond),
		WithIdleInterval(10*time.Millisecond))
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}

	done := make(chan struct{})
	go func() {
		pool.Start(context.Background())
		close(done)
	}()

	waitFor(t, 2*time.Second, func() bool { return p.processedCount() == 3 })

	pool.Stop()
	<-done

	if got := p.failedCount(); got != 0 {
		t.Fatalf("failed = %d, want 0", got)
	}
}

func TestPoolRetriesTransientFailure(t *testing.T) {
	p := newTestProcessor(testTask{ID: "flaky"})
	p.failTimes["flaky"] = 2

	pool, err := NewWorkerPool("test", 1, p,
		WithPollInterval(5*time.Millisecond),
		WithMaxRetries(3))
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}

	done := make(chan struct{})
	go func() {
		pool.Start(context.Background())
		close(done)
	}()

	waitFor(t, 10*time.Second, func() bool { return p.processedCount() == 1 })

	pool.Stop()
	<-done
}

func TestPoolMarksExhaustedTaskFailed(t *testing.T) {
	p := newTestProcessor(testTask{ID: "broken"})
	p.failTimes["broken"] = 100

	pool, err := NewWorkerPool("test", 1, p,
		WithPollInterval(5*time.Millisecond),
		WithMaxRetries(1))
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}

	done := make(chan struct{})
	go func() {
		pool.Start(context.Background())
		close(done)
	}()

	waitFor(t, 2*time.Second, func() bool { return p.failedCount() == 1 })

	pool.Stop()
	<-done

	if got := p.processedCount(); got != 0 {
		t.Fatalf("processed = %d, want 0", got)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	p := newTestProcessor()

	pool, err := NewWorkerPool("test", 1, p, WithIdleInterval(5*time.Millisecond))
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}

	done := make(chan struct{})
	go func() {
		pool.Start(context.Background())
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	pool.Stop()
	pool.Stop()
	<-done
}
