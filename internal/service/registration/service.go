package registration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/calebwray/enroll-api/internal/domain"
	"github.com/calebwray/enroll-api/internal/platform/metrics"
	"github.com/calebwray/enroll-api/internal/service/auth"
	"github.com/calebwray/enroll-api/internal/store"
)

// ErrInvalidCredentials is returned by Authenticate when the username is
// unknown or the password does not match. The two cases are deliberately
// indistinguishable to callers.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Input carries the candidate field values for one registration attempt.
// Optional profile fields default to empty; they are never inferred.
type Input struct {
	Username string
	Email    string
	Password string
	Profile  domain.Profile
}

// Registrar provides the account registration operations to the boundary
// layer: full registration, the pre-flight username check, and credential
// authentication for the supplemented login endpoint.
type Registrar struct {
	accounts store.AccountStore
	db       *sql.DB
	notifier Notifier
	verifier auth.PasswordVerifier
	recorder metrics.Recorder
	logger   *slog.Logger
}

// NewRegistrar creates a Registrar with the given dependencies.
// If recorder is nil, observations are discarded. If logger is nil, the
// default logger is used.
func NewRegistrar(
	accounts store.AccountStore,
	db *sql.DB,
	notifier Notifier,
	verifier auth.PasswordVerifier,
	recorder metrics.Recorder,
	logger *slog.Logger,
) *Registrar {
	if recorder == nil {
		recorder = metrics.Noop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Registrar{
		accounts: accounts,
		db:       db,
		notifier: notifier,
		verifier: verifier,
		recorder: recorder,
		logger:   logger.With(slog.String("component", "registrar")),
	}
}

// Register builds and executes the registration use case for the input.
func (r *Registrar) Register(ctx context.Context, in Input) (*domain.Account, error) {
	uc := NewRegisterAccount(
		in.Username,
		in.Email,
		in.Password,
		in.Profile,
		r.accounts,
		r.db,
		r.notifier,
		r.recorder,
		r.logger,
	)
	return uc.Execute(ctx)
}

// CheckUsername runs only the duplicate-username validation for the
// candidate username. Exposed to the boundary layer as a pre-flight check;
// a nil result is advisory, Register revalidates.
func (r *Registrar) CheckUsername(ctx context.Context, username string) error {
	if err := domain.ValidateUsername(username); err != nil {
		return err
	}

	uc := NewRegisterAccount(
		username, "", "",
		domain.Profile{},
		r.accounts,
		r.db,
		nil,
		r.recorder,
		r.logger,
	)
	return uc.Validate(ctx)
}

// Authenticate verifies the username/password pair and returns the account
// on success. Returns ErrInvalidCredentials when either the account does
// not exist or the password does not match.
func (r *Registrar) Authenticate(
	ctx context.Context,
	username, password string,
) (*domain.Account, error) {
	account, err := r.accounts.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			r.logger.Debug("authentication failed: unknown username",
				"username", username)
			return nil, ErrInvalidCredentials
		}
		r.logger.Error("failed to load account for authentication",
			"error", err,
			"username", username)
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	if err := r.verifier.Compare(account.HashedPassword, password); err != nil {
		r.logger.Debug("authentication failed: password mismatch",
			"username", username)
		return nil, ErrInvalidCredentials
	}

	return account, nil
}
