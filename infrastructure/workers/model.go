package workers

import "context"

// Task is any unit of work a pool can process.
type Task interface {
	GetID() string
}

// Processor handles the business logic for processing tasks. Checkout must
// be safe for concurrent workers.
type Processor[T Task] interface {
	Checkout(ctx context.Context, workerID string) (T, error)
	Process(ctx context.Context, task T) (T, error)
	Complete(ctx context.Context, task T, processingTimeMS int) error
	Fail(ctx context.Context, task T, err error) error
}
