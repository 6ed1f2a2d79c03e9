package task

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTask is a minimal Task implementation for queue and pool tests.
type stubTask struct {
	id      uuid.UUID
	execute func(ctx context.Context) error
}

func newStubTask(execute func(ctx context.Context) error) *stubTask {
	return &stubTask{id: uuid.New(), execute: execute}
}

func (t *stubTask) ID() uuid.UUID      { return t.id }
func (t *stubTask) Type() string       { return "stub" }
func (t *stubTask) Payload() []byte    { return nil }
func (t *stubTask) Status() TaskStatus { return TaskStatusPending }

func (t *stubTask) Execute(ctx context.Context) error {
	if t.execute != nil {
		return t.execute(ctx)
	}
	return nil
}

func TestTaskQueueEnqueue(t *testing.T) {
	t.Parallel()

	q := NewTaskQueue(2, slog.Default())

	require.NoError(t, q.Enqueue(newStubTask(nil)))
	require.NoError(t, q.Enqueue(newStubTask(nil)))

	// Queue is full now
	err := q.Enqueue(newStubTask(nil))
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestTaskQueueClose(t *testing.T) {
	t.Parallel()

	q := NewTaskQueue(2, slog.Default())
	q.Close()

	err := q.Enqueue(newStubTask(nil))
	assert.ErrorIs(t, err, ErrQueueClosed)

	// Closing twice is safe
	q.Close()
}

func TestWorkerPoolProcessesTasks(t *testing.T) {
	t.Parallel()

	q := NewTaskQueue(10, slog.Default())
	pool := NewWorkerPool(q, WorkerPoolConfig{WorkerCount: 2}, slog.Default())

	var executed atomic.Int32
	done := make(chan struct{})

	for i := 0; i < 5; i++ {
		require.NoError(t, q.Enqueue(newStubTask(func(ctx context.Context) error {
			if executed.Add(1) == 5 {
				close(done)
			}
			return nil
		})))
	}

	pool.Start()
	defer pool.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for tasks, executed %d", executed.Load())
	}
}

func TestWorkerPoolErrorHandler(t *testing.T) {
	t.Parallel()

	q := NewTaskQueue(1, slog.Default())
	pool := NewWorkerPool(q, WorkerPoolConfig{WorkerCount: 1}, slog.Default())

	handled := make(chan error, 1)
	pool.SetErrorHandler(func(task Task, err error) {
		handled <- err
	})

	wantErr := context.DeadlineExceeded
	require.NoError(t, q.Enqueue(newStubTask(func(ctx context.Context) error {
		return wantErr
	})))

	pool.Start()
	defer pool.Stop()

	select {
	case err := <-handled:
		assert.ErrorIs(t, err, wantErr)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for error handler")
	}
}

func TestWorkerPoolSurvivesPanickingTask(t *testing.T) {
	t.Parallel()

	q := NewTaskQueue(2, slog.Default())
	pool := NewWorkerPool(q, WorkerPoolConfig{WorkerCount: 1}, slog.Default())

	done := make(chan struct{})
	require.NoError(t, q.Enqueue(newStubTask(func(ctx context.Context) error {
		panic("boom")
	})))
	require.NoError(t, q.Enqueue(newStubTask(func(ctx context.Context) error {
		close(done)
		return nil
	})))

	pool.Start()
	defer pool.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive panicking task")
	}
}

func TestNewWorkerPoolAppliesDefaultCount(t *testing.T) {
	t.Parallel()

	q := NewTaskQueue(1, slog.Default())
	pool := NewWorkerPool(q, WorkerPoolConfig{WorkerCount: 0}, slog.Default())
	assert.Equal(t, 1, pool.workerCount)
}
