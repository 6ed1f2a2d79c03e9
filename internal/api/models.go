package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/calebwray/enroll-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the account registration endpoint.
// All required fields are validated in one pass so a single response can
// report every missing or malformed field. The name fields are required on
// this form even though the entity treats them as optional profile data;
// other write paths may omit them.
type RegisterRequest struct {
	Username        string `json:"username"         validate:"required,min=3,max=30"`
	Email           string `json:"email"            validate:"required,email"`
	Password        string `json:"password"         validate:"required,min=8,max=72"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	FirstName       string `json:"first_name"       validate:"required,max=150"`
	LastName        string `json:"last_name"        validate:"required,max=150"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=1"`
}

// CheckUsernameRequest defines the payload for the username pre-flight check.
type CheckUsernameRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30"`
}

// CheckUsernameResponse reports whether a candidate username is available.
// The result is advisory: registration revalidates before creating anything.
type CheckUsernameResponse struct {
	Username  string `json:"username"`
	Available bool   `json:"available"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// AccountID is the unique identifier for the authenticated account
	AccountID uuid.UUID `json:"account_id"`

	// Token is the JWT used for API authorization
	Token string `json:"token"`
}

// AccountResponse is the public representation of an account. Credential
// fields are never included.
type AccountResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewAccountResponse maps a domain account to its public representation.
func NewAccountResponse(account *domain.Account) AccountResponse {
	return AccountResponse{
		ID:        account.ID,
		Username:  account.Username,
		Email:     account.Email,
		FirstName: account.FirstName,
		LastName:  account.LastName,
		CreatedAt: account.CreatedAt,
	}
}
