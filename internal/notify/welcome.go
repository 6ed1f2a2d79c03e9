package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/calebwray/enroll-api/internal/domain"
	"github.com/calebwray/enroll-api/internal/platform/metrics"
	"github.com/calebwray/enroll-api/internal/task"
)

// Fixed welcome message content.
const (
	welcomeSubject = "Welcome to Enroll"
	welcomeBody    = "Hi %s,\n\nYour account %q has been created. Welcome aboard!\n\nThe Enroll team\n"
)

// WelcomeNotifier triggers the welcome notification for a freshly
// registered account. The notification is enqueued onto the background
// task runtime; delivery failures are logged and counted but never
// propagated to the caller.
type WelcomeNotifier struct {
	queue    task.TaskQueueWriter
	sender   Sender
	recorder metrics.Recorder
	logger   *slog.Logger
}

// NewWelcomeNotifier creates a WelcomeNotifier that enqueues delivery tasks
// on the given queue.
// If recorder is nil, observations are discarded. If logger is nil, a
// default logger is used.
func NewWelcomeNotifier(
	queue task.TaskQueueWriter,
	sender Sender,
	recorder metrics.Recorder,
	logger *slog.Logger,
) *WelcomeNotifier {
	if recorder == nil {
		recorder = metrics.Noop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WelcomeNotifier{
		queue:    queue,
		sender:   sender,
		recorder: recorder,
		logger:   logger.With(slog.String("component", "welcome_notifier")),
	}
}

// Notify enqueues the welcome notification for the account. It is
// fire-and-forget: enqueue failures (queue full or closed) are logged and
// counted as dropped, and nil is always returned.
func (n *WelcomeNotifier) Notify(ctx context.Context, account *domain.Account) {
	t := newWelcomeEmailTask(account, n.sender, n.recorder, n.logger)

	if err := n.queue.Enqueue(t); err != nil {
		n.logger.Error("failed to enqueue welcome notification",
			"error", err,
			"account_id", account.ID,
			"username", account.Username)
		n.recorder.RecordWelcomeEmail(metrics.OutcomeDropped)
		return
	}

	n.logger.Debug("welcome notification enqueued",
		"account_id", account.ID,
		"task_id", t.ID())
}

// welcomeEmailTask is the background task that delivers one welcome message.
type welcomeEmailTask struct {
	id       uuid.UUID
	payload  []byte
	to       string
	greeting string
	username string
	sender   Sender
	recorder metrics.Recorder
	logger   *slog.Logger
}

// welcomePayload is the serialized task payload, useful for debugging and
// error reporting.
type welcomePayload struct {
	AccountID uuid.UUID `json:"account_id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
}

func newWelcomeEmailTask(
	account *domain.Account,
	sender Sender,
	recorder metrics.Recorder,
	logger *slog.Logger,
) *welcomeEmailTask {
	greeting := account.FirstName
	if greeting == "" {
		greeting = account.Username
	}

	payload, _ := json.Marshal(welcomePayload{
		AccountID: account.ID,
		Email:     account.Email,
		Username:  account.Username,
	})

	return &welcomeEmailTask{
		id:       uuid.New(),
		payload:  payload,
		to:       account.Email,
		greeting: greeting,
		username: account.Username,
		sender:   sender,
		recorder: recorder,
		logger:   logger,
	}
}

// ID implements task.Task
func (t *welcomeEmailTask) ID() uuid.UUID { return t.id }

// Type implements task.Task
func (t *welcomeEmailTask) Type() string { return task.TaskTypeWelcomeEmail }

// Payload implements task.Task
func (t *welcomeEmailTask) Payload() []byte { return t.payload }

// Status implements task.Task
func (t *welcomeEmailTask) Status() task.TaskStatus { return task.TaskStatusPending }

// Execute implements task.Task
// It delivers the welcome message with the fixed subject and body.
func (t *welcomeEmailTask) Execute(ctx context.Context) error {
	body := fmt.Sprintf(welcomeBody, t.greeting, t.username)

	if err := t.sender.Send(ctx, t.to, welcomeSubject, body); err != nil {
		t.recorder.RecordWelcomeEmail(metrics.OutcomeFailed)
		return fmt.Errorf("welcome notification delivery failed: %w", err)
	}

	t.recorder.RecordWelcomeEmail(metrics.OutcomeSent)
	t.logger.Info("welcome notification sent", "task_id", t.id)
	return nil
}

var _ task.Task = (*welcomeEmailTask)(nil)
