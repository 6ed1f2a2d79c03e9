package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/calebwray/enroll-api/internal/domain"
	"github.com/calebwray/enroll-api/internal/platform/logger"
	"github.com/calebwray/enroll-api/internal/store"
)

// PostgresAccountStore implements the store.AccountStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAccountStore struct {
	db         store.DBTX
	logger     *slog.Logger
	bcryptCost int
}

// NewPostgresAccountStore creates a new PostgreSQL implementation of the
// AccountStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresAccountStore(db store.DBTX, logger *slog.Logger) *PostgresAccountStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAccountStore{
		db:         db,
		logger:     logger.With(slog.String("component", "account_store")),
		bcryptCost: bcrypt.DefaultCost,
	}
}

// Ensure PostgresAccountStore implements store.AccountStore interface
var _ store.AccountStore = (*PostgresAccountStore)(nil)

// Create implements store.AccountStore.Create
// It validates the account, hashes the plaintext password, and inserts the
// row. Returns store.ErrUsernameExists or store.ErrEmailExists when the
// respective unique constraint is violated.
func (s *PostgresAccountStore) Create(ctx context.Context, account *domain.Account) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := account.Validate(); err != nil {
		log.Warn("account validation failed during create",
			slog.String("error", err.Error()),
			slog.String("account_id", account.ID.String()))
		return err
	}

	if account.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(account.Password), s.bcryptCost)
		if err != nil {
			log.Error("failed to hash password",
				slog.String("error", err.Error()),
				slog.String("account_id", account.ID.String()))
			return fmt.Errorf("failed to hash password: %w", err)
		}
		account.HashedPassword = string(hashed)
		account.Password = ""
	}

	query := `
		INSERT INTO accounts (id, username, email, hashed_password, first_name, last_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		account.ID,
		account.Username,
		account.Email,
		account.HashedPassword,
		account.FirstName,
		account.LastName,
		account.CreatedAt,
		account.UpdatedAt,
	)

	if err != nil {
		mapped := MapError(err)
		if store.IsDuplicateError(mapped) {
			log.Warn("unique violation during account creation",
				slog.String("error", err.Error()),
				slog.String("username", account.Username))
			return mapped
		}

		log.Error("failed to create account",
			slog.String("error", err.Error()),
			slog.String("account_id", account.ID.String()))
		return mapped
	}

	log.Info("account created successfully",
		slog.String("account_id", account.ID.String()),
		slog.String("username", account.Username))
	return nil
}

// GetByID implements store.AccountStore.GetByID
// Returns store.ErrAccountNotFound if the account does not exist.
func (s *PostgresAccountStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving account by ID", slog.String("account_id", id.String()))

	query := `
		SELECT id, username, email, hashed_password, first_name, last_name, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`
	return s.scanAccount(log, s.db.QueryRowContext(ctx, query, id))
}

// GetByUsername implements store.AccountStore.GetByUsername
// Returns store.ErrAccountNotFound if no account holds the username.
func (s *PostgresAccountStore) GetByUsername(
	ctx context.Context,
	username string,
) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving account by username", slog.String("username", username))

	query := `
		SELECT id, username, email, hashed_password, first_name, last_name, created_at, updated_at
		FROM accounts
		WHERE username = $1
	`
	return s.scanAccount(log, s.db.QueryRowContext(ctx, query, username))
}

// GetByEmail implements store.AccountStore.GetByEmail
// Returns store.ErrAccountNotFound if the account does not exist.
func (s *PostgresAccountStore) GetByEmail(
	ctx context.Context,
	email string,
) (*domain.Account, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving account by email")

	query := `
		SELECT id, username, email, hashed_password, first_name, last_name, created_at, updated_at
		FROM accounts
		WHERE email = $1
	`
	return s.scanAccount(log, s.db.QueryRowContext(ctx, query, email))
}

// Update implements store.AccountStore.Update
// If a new plaintext Password is set it is hashed before the write.
// Returns store.ErrAccountNotFound if the account does not exist.
func (s *PostgresAccountStore) Update(ctx context.Context, account *domain.Account) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := account.Validate(); err != nil {
		log.Warn("account validation failed during update",
			slog.String("error", err.Error()),
			slog.String("account_id", account.ID.String()))
		return err
	}

	if account.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(account.Password), s.bcryptCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		account.HashedPassword = string(hashed)
		account.Password = ""
	}

	query := `
		UPDATE accounts
		SET username = $2, email = $3, hashed_password = $4, first_name = $5, last_name = $6, updated_at = now()
		WHERE id = $1
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		account.ID,
		account.Username,
		account.Email,
		account.HashedPassword,
		account.FirstName,
		account.LastName,
	)
	if err != nil {
		log.Error("failed to update account",
			slog.String("error", err.Error()),
			slog.String("account_id", account.ID.String()))
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrAccountNotFound
	}

	log.Info("account updated successfully",
		slog.String("account_id", account.ID.String()))
	return nil
}

// Delete implements store.AccountStore.Delete
// Returns store.ErrAccountNotFound if the account does not exist.
func (s *PostgresAccountStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete account",
			slog.String("error", err.Error()),
			slog.String("account_id", id.String()))
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrAccountNotFound
	}

	log.Info("account deleted", slog.String("account_id", id.String()))
	return nil
}

// WithTx implements store.AccountStore.WithTx
// The returned store shares the logger and bcrypt cost but executes all
// statements on the provided transaction.
func (s *PostgresAccountStore) WithTx(tx *sql.Tx) store.AccountStore {
	return &PostgresAccountStore{
		db:         tx,
		logger:     s.logger,
		bcryptCost: s.bcryptCost,
	}
}

// scanAccount scans a single account row, mapping sql.ErrNoRows to
// store.ErrAccountNotFound.
func (s *PostgresAccountStore) scanAccount(
	log *slog.Logger,
	row *sql.Row,
) (*domain.Account, error) {
	var account domain.Account
	err := row.Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.HashedPassword,
		&account.FirstName,
		&account.LastName,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if store.IsNotFoundError(mapped) {
			return nil, fmt.Errorf("%w: %v", store.ErrAccountNotFound, err)
		}
		log.Error("failed to scan account row", slog.String("error", err.Error()))
		return nil, mapped
	}
	return &account, nil
}
