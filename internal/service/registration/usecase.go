package registration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/calebwray/enroll-api/internal/domain"
	"github.com/calebwray/enroll-api/internal/platform/metrics"
	"github.com/calebwray/enroll-api/internal/store"
)

// Notifier triggers the welcome notification for a freshly created account.
// It is called explicitly by the use case after the account exists, so
// side-effect ordering is observable. Implementations must not block on
// delivery; the call is fire-and-forget from the use case's perspective.
type Notifier interface {
	Notify(ctx context.Context, account *domain.Account)
}

// RegisterAccount is the registration use case. It is constructed with the
// candidate field values (nothing is inferred or defaulted) and the
// collaborators needed to carry out the operation.
//
// Validate may be called independently of Execute for pre-flight checks.
// Execute always re-runs Validate, so a stale pre-flight result can never
// create a duplicate account.
type RegisterAccount struct {
	username string
	email    string
	password string
	profile  domain.Profile

	accounts store.AccountStore
	db       *sql.DB
	notifier Notifier
	recorder metrics.Recorder
	logger   *slog.Logger
}

// NewRegisterAccount creates the use case for one registration attempt.
// If recorder is nil, observations are discarded. If logger is nil, the
// default logger is used.
func NewRegisterAccount(
	username, email, password string,
	profile domain.Profile,
	accounts store.AccountStore,
	db *sql.DB,
	notifier Notifier,
	recorder metrics.Recorder,
	logger *slog.Logger,
) *RegisterAccount {
	if recorder == nil {
		recorder = metrics.Noop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RegisterAccount{
		username: username,
		email:    email,
		password: password,
		profile:  profile,
		accounts: accounts,
		db:       db,
		notifier: notifier,
		recorder: recorder,
		logger:   logger.With(slog.String("component", "register_account")),
	}
}

// Validate checks the domain invariant that the candidate username is not
// already taken. Returns a *domain.UsernameTakenError if an account with
// the username exists, nil if the username is free, or a wrapped storage
// error if the lookup itself failed.
func (uc *RegisterAccount) Validate(ctx context.Context) error {
	_, err := uc.accounts.GetByUsername(ctx, uc.username)
	if err == nil {
		uc.logger.Debug("registration validation failed: username taken",
			"username", uc.username)
		return domain.NewUsernameTakenError(uc.username)
	}

	if errors.Is(err, store.ErrAccountNotFound) {
		return nil
	}

	uc.logger.Error("failed to check username availability",
		"error", err,
		"username", uc.username)
	return fmt.Errorf("failed to check username availability: %w", err)
}

// Execute runs the registration. It validates first; on validation failure
// the error is propagated and the operation has no side effect. Otherwise
// it creates the account and triggers the welcome notification with the
// new account's address. Returns the created account.
func (uc *RegisterAccount) Execute(ctx context.Context) (*domain.Account, error) {
	if err := uc.Validate(ctx); err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			uc.recorder.RecordRegistrationFailure(metrics.ReasonDuplicateUsername)
		} else {
			uc.recorder.RecordRegistrationFailure(metrics.ReasonStorage)
		}
		return nil, err
	}

	account, err := domain.NewAccount(uc.username, uc.email, uc.password, uc.profile)
	if err != nil {
		uc.logger.Debug("registration rejected by entity validation",
			"error", err,
			"username", uc.username)
		uc.recorder.RecordRegistrationFailure(metrics.ReasonInvalidInput)
		return nil, err
	}

	if err := uc.createAccount(ctx, account); err != nil {
		// The unique constraint backs up the pre-check: a concurrent
		// registration of the same username surfaces here as a duplicate.
		if errors.Is(err, store.ErrUsernameExists) {
			uc.recorder.RecordRegistrationFailure(metrics.ReasonDuplicateUsername)
			return nil, domain.NewUsernameTakenError(uc.username)
		}
		uc.logger.Error("failed to save account",
			"error", err,
			"username", uc.username)
		uc.recorder.RecordRegistrationFailure(metrics.ReasonStorage)
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	uc.logger.Info("account registered",
		"account_id", account.ID,
		"username", account.Username)
	uc.recorder.RecordRegistration()

	// Side effects run only after the account exists. Delivery failure is
	// handled inside the notifier and never fails the registration.
	if uc.notifier != nil {
		uc.notifier.Notify(ctx, account)
	}

	return account, nil
}

// createAccount persists the account, inside a transaction when a database
// handle is available. Unit tests wire an in-memory store and no handle.
func (uc *RegisterAccount) createAccount(ctx context.Context, account *domain.Account) error {
	if uc.db == nil {
		return uc.accounts.Create(ctx, account)
	}
	return store.RunInTransaction(ctx, uc.db, func(ctx context.Context, tx *sql.Tx) error {
		return uc.accounts.WithTx(tx).Create(ctx, account)
	})
}
