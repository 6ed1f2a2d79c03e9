package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/calebwray/enroll-api/internal/api/shared"
	"github.com/calebwray/enroll-api/internal/domain"
	"github.com/calebwray/enroll-api/internal/service/auth"
	"github.com/calebwray/enroll-api/internal/service/registration"
	"github.com/calebwray/enroll-api/internal/store"
)

// RegistrationHandler handles account registration and authentication
// API requests.
type RegistrationHandler struct {
	registrar  *registration.Registrar
	accounts   store.AccountStore
	jwtService auth.JWTService
	validator  *validator.Validate
}

// NewRegistrationHandler creates a new RegistrationHandler with the given
// dependencies.
func NewRegistrationHandler(
	registrar *registration.Registrar,
	accounts store.AccountStore,
	jwtService auth.JWTService,
) *RegistrationHandler {
	return &RegistrationHandler{
		registrar:  registrar,
		accounts:   accounts,
		jwtService: jwtService,
		validator:  newValidator(),
	}
}

// Register handles the /auth/register endpoint.
func (h *RegistrationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	// Shape validation runs before anything else; if it fails, the
	// registration is never attempted - the response carries every failing
	// field from this one submission.
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithFieldErrors(w, r,
			http.StatusBadRequest, "Validation failed", FieldErrors(err))
		return
	}

	account, err := h.registrar.Register(r.Context(), registration.Input{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Profile: domain.Profile{
			FirstName: req.FirstName,
			LastName:  req.LastName,
		},
	})
	if err != nil {
		var taken *domain.UsernameTakenError
		if errors.As(err, &taken) {
			shared.RespondWithFieldErrors(w, r,
				http.StatusConflict, "Username already taken",
				map[string][]string{
					"username": {"An account with this username already exists."},
				})
			return
		}
		if errors.Is(err, domain.ErrValidation) || isEntityValidationError(err) {
			HandleAPIError(w, r, err, "Invalid account data")
			return
		}
		slog.Error("failed to register account", "error", err, "username", req.Username)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to create account")
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), account.ID)
	if err != nil {
		slog.Error("failed to generate token", "error", err, "account_id", account.ID)
		shared.RespondWithError(w, r,
			http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	w.Header().Set("Location", "/api/accounts/"+account.ID.String())
	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		AccountID: account.ID,
		Token:     token,
	})
}

// CheckUsername handles the /auth/check-username endpoint. The result is a
// pre-flight convenience; registration always revalidates.
func (h *RegistrationHandler) CheckUsername(w http.ResponseWriter, r *http.Request) {
	var req CheckUsernameRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithFieldErrors(w, r,
			http.StatusBadRequest, "Validation failed", FieldErrors(err))
		return
	}

	err := h.registrar.CheckUsername(r.Context(), req.Username)
	switch {
	case err == nil:
		shared.RespondWithJSON(w, r, http.StatusOK, CheckUsernameResponse{
			Username:  req.Username,
			Available: true,
		})
	case errors.Is(err, domain.ErrUsernameTaken):
		shared.RespondWithJSON(w, r, http.StatusOK, CheckUsernameResponse{
			Username:  req.Username,
			Available: false,
		})
	case isEntityValidationError(err):
		shared.RespondWithFieldErrors(w, r,
			http.StatusBadRequest, "Validation failed",
			map[string][]string{"username": {err.Error()}})
	default:
		slog.Error("failed to check username", "error", err, "username", req.Username)
		shared.RespondWithError(w, r,
			http.StatusInternalServerError, "Failed to check username")
	}
}

// Login handles the /auth/login endpoint.
func (h *RegistrationHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithFieldErrors(w, r,
			http.StatusBadRequest, "Validation failed", FieldErrors(err))
		return
	}

	account, err := h.registrar.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, registration.ErrInvalidCredentials) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		slog.Error("failed to authenticate account", "error", err, "username", req.Username)
		shared.RespondWithError(w, r,
			http.StatusInternalServerError, "Failed to authenticate account")
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), account.ID)
	if err != nil {
		slog.Error("failed to generate token", "error", err, "account_id", account.ID)
		shared.RespondWithError(w, r,
			http.StatusInternalServerError, "Failed to generate authentication token")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		AccountID: account.ID,
		Token:     token,
	})
}

// GetAccount handles GET /accounts/{id}. Accounts can only read themselves.
func (h *RegistrationHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountID, ok := getAccountIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r,
			http.StatusUnauthorized, "Account ID not found or invalid")
		return
	}

	pathID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if pathID != accountID {
		shared.RespondWithError(w, r, http.StatusForbidden, "Access denied")
		return
	}

	account, err := h.accounts.GetByID(r.Context(), pathID)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Account not found")
			return
		}
		slog.Error("failed to get account", "error", err, "account_id", pathID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to get account")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewAccountResponse(account))
}

// isEntityValidationError reports whether err is one of the entity field
// validation sentinels.
func isEntityValidationError(err error) bool {
	return errors.Is(err, domain.ErrEmptyUsername) ||
		errors.Is(err, domain.ErrUsernameTooShort) ||
		errors.Is(err, domain.ErrUsernameTooLong) ||
		errors.Is(err, domain.ErrInvalidUsername) ||
		errors.Is(err, domain.ErrEmptyEmail) ||
		errors.Is(err, domain.ErrInvalidEmail) ||
		errors.Is(err, domain.ErrEmptyPassword) ||
		errors.Is(err, domain.ErrPasswordTooShort) ||
		errors.Is(err, domain.ErrPasswordTooLong)
}
