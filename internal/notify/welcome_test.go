package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calebwray/enroll-api/internal/domain"
	"github.com/calebwray/enroll-api/internal/task"
)

// recordingSender captures sent messages for assertions.
type recordingSender struct {
	mu       sync.Mutex
	messages []sentMessage
	err      error
}

type sentMessage struct {
	to      string
	subject string
	body    string
}

func (s *recordingSender) Send(ctx context.Context, to, subject, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, sentMessage{to: to, subject: subject, body: body})
	return nil
}

func (s *recordingSender) sent() []sentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sentMessage(nil), s.messages...)
}

func testAccount(t *testing.T) *domain.Account {
	t.Helper()
	account, err := domain.NewAccount(
		"john.smith",
		"john.smith@example.com",
		"P@ssword99",
		domain.Profile{FirstName: "John", LastName: "Smith"},
	)
	require.NoError(t, err)
	return account
}

func TestNotifyEnqueuesAndDelivers(t *testing.T) {
	t.Parallel()

	queue := task.NewTaskQueue(4, slog.Default())
	sender := &recordingSender{}
	notifier := NewWelcomeNotifier(queue, sender, nil, slog.Default())

	notifier.Notify(context.Background(), testAccount(t))

	// Drain the queue synchronously, as a worker would.
	select {
	case tk := <-queue.GetChannel():
		require.NoError(t, tk.Execute(context.Background()))
	default:
		t.Fatal("expected a task on the queue")
	}

	messages := sender.sent()
	require.Len(t, messages, 1)
	assert.Equal(t, "john.smith@example.com", messages[0].to)
	assert.Equal(t, "Welcome to Enroll", messages[0].subject)
	assert.Contains(t, messages[0].body, "Hi John")
	assert.Contains(t, messages[0].body, `"john.smith"`)
}

func TestNotifyFallsBackToUsernameGreeting(t *testing.T) {
	t.Parallel()

	queue := task.NewTaskQueue(4, slog.Default())
	sender := &recordingSender{}
	notifier := NewWelcomeNotifier(queue, sender, nil, slog.Default())

	account, err := domain.NewAccount("jane", "jane@example.com", "P@ssword99", domain.Profile{})
	require.NoError(t, err)

	notifier.Notify(context.Background(), account)

	tk := <-queue.GetChannel()
	require.NoError(t, tk.Execute(context.Background()))

	messages := sender.sent()
	require.Len(t, messages, 1)
	assert.Contains(t, messages[0].body, "Hi jane")
}

func TestNotifyDropsWhenQueueFull(t *testing.T) {
	t.Parallel()

	queue := task.NewTaskQueue(0, slog.Default())
	sender := &recordingSender{}
	notifier := NewWelcomeNotifier(queue, sender, nil, slog.Default())

	// Queue has no capacity; Notify must not panic or block.
	notifier.Notify(context.Background(), testAccount(t))

	assert.Empty(t, sender.sent())
}

func TestWelcomeTaskReportsDeliveryFailure(t *testing.T) {
	t.Parallel()

	queue := task.NewTaskQueue(1, slog.Default())
	sender := &recordingSender{err: errors.New("smtp unreachable")}
	notifier := NewWelcomeNotifier(queue, sender, nil, slog.Default())

	notifier.Notify(context.Background(), testAccount(t))

	tk := <-queue.GetChannel()
	err := tk.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "welcome notification delivery failed")
}

func TestWelcomeTaskMetadata(t *testing.T) {
	t.Parallel()

	queue := task.NewTaskQueue(1, slog.Default())
	notifier := NewWelcomeNotifier(queue, &recordingSender{}, nil, slog.Default())

	notifier.Notify(context.Background(), testAccount(t))

	tk := <-queue.GetChannel()
	assert.Equal(t, task.TaskTypeWelcomeEmail, tk.Type())
	assert.Equal(t, task.TaskStatusPending, tk.Status())
	assert.NotEmpty(t, tk.Payload())
}
