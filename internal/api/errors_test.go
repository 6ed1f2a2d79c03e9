package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/calebwray/enroll-api/internal/domain"
	"github.com/calebwray/enroll-api/internal/service/auth"
	"github.com/calebwray/enroll-api/internal/service/registration"
	"github.com/calebwray/enroll-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "username taken",
			err:        domain.NewUsernameTakenError("john"),
			wantStatus: http.StatusConflict,
		},
		{
			name:       "wrapped username exists",
			err:        fmt.Errorf("create failed: %w", store.ErrUsernameExists),
			wantStatus: http.StatusConflict,
		},
		{
			name:       "account not found",
			err:        store.ErrAccountNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "invalid credentials",
			err:        registration.ErrInvalidCredentials,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "expired token",
			err:        auth.ErrExpiredToken,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "entity validation sentinel",
			err:        domain.ErrPasswordTooShort,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "validation error wrapper",
			err:        domain.NewValidationError("username", "is required", nil),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown error",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.wantStatus, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Username already taken",
		GetSafeErrorMessage(domain.NewUsernameTakenError("john")))
	assert.Equal(t, "Invalid credentials",
		GetSafeErrorMessage(registration.ErrInvalidCredentials))
	assert.Equal(t, "An unexpected error occurred",
		GetSafeErrorMessage(errors.New("pq: secret detail")))
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))

	// Entity sentinels surface their own message.
	assert.Equal(t, domain.ErrPasswordTooShort.Error(),
		GetSafeErrorMessage(domain.ErrPasswordTooShort))
}
