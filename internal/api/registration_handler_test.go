package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calebwray/enroll-api/internal/api/shared"
	"github.com/calebwray/enroll-api/internal/domain"
	"github.com/calebwray/enroll-api/internal/mocks"
	"github.com/calebwray/enroll-api/internal/service/registration"
)

func newTestHandler(
	accounts *mocks.MockAccountStore,
	notifier *mocks.MockNotifier,
) *RegistrationHandler {
	registrar := registration.NewRegistrar(
		accounts, nil, notifier,
		&mocks.MockPasswordVerifier{ShouldSucceed: true},
		nil, nil,
	)
	jwtService := &mocks.MockJWTService{Token: "test-token"}
	return NewRegistrationHandler(registrar, accounts, jwtService)
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func decodeErrorResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestRegister(t *testing.T) {
	t.Parallel()

	t.Run("valid registration", func(t *testing.T) {
		t.Parallel()

		accounts := mocks.NewMockAccountStore()
		notifier := mocks.NewMockNotifier()
		handler := newTestHandler(accounts, notifier)

		w := postJSON(t, handler.Register, "/auth/register", map[string]interface{}{
			"username":         "john.smith",
			"email":            "john@example.com",
			"password":         "password123",
			"confirm_password": "password123",
			"first_name":       "John",
			"last_name":        "Smith",
		})

		require.Equal(t, http.StatusCreated, w.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "test-token", resp.Token)
		assert.NotEqual(t, uuid.Nil, resp.AccountID)
		assert.Equal(t, "/api/accounts/"+resp.AccountID.String(),
			w.Header().Get("Location"))

		stored, err := accounts.GetByUsername(context.Background(), "john.smith")
		require.NoError(t, err)
		assert.Equal(t, "John", stored.FirstName)
		assert.Equal(t, "Smith", stored.LastName)
		assert.Equal(t, 1, notifier.Count())
	})

	t.Run("missing fields reported together", func(t *testing.T) {
		t.Parallel()

		accounts := mocks.NewMockAccountStore()
		notifier := mocks.NewMockNotifier()
		handler := newTestHandler(accounts, notifier)

		w := postJSON(t, handler.Register, "/auth/register", map[string]interface{}{
			"username": "john.smith",
		})

		require.Equal(t, http.StatusBadRequest, w.Code)

		resp := decodeErrorResponse(t, w)
		fieldErrors, ok := resp["field_errors"].(map[string]interface{})
		require.True(t, ok, "expected field_errors in response")

		// Every missing required field appears in the one response.
		assert.Contains(t, fieldErrors, "email")
		assert.Contains(t, fieldErrors, "password")
		assert.Contains(t, fieldErrors, "confirm_password")
		assert.Contains(t, fieldErrors, "first_name")
		assert.Contains(t, fieldErrors, "last_name")
		assert.NotContains(t, fieldErrors, "username")

		// Nothing was created and no notification fired.
		assert.Equal(t, 0, accounts.Count())
		assert.Equal(t, 0, notifier.Count())
	})

	t.Run("empty submission reports every required field", func(t *testing.T) {
		t.Parallel()

		accounts := mocks.NewMockAccountStore()
		handler := newTestHandler(accounts, mocks.NewMockNotifier())

		w := postJSON(t, handler.Register, "/auth/register", map[string]interface{}{})

		require.Equal(t, http.StatusBadRequest, w.Code)

		resp := decodeErrorResponse(t, w)
		fieldErrors, ok := resp["field_errors"].(map[string]interface{})
		require.True(t, ok)
		required := []string{
			"username", "email", "password", "confirm_password",
			"first_name", "last_name",
		}
		for _, field := range required {
			assert.Contains(t, fieldErrors, field)
		}
		assert.Equal(t, 0, accounts.Count())
	})

	t.Run("password mismatch", func(t *testing.T) {
		t.Parallel()

		accounts := mocks.NewMockAccountStore()
		notifier := mocks.NewMockNotifier()
		handler := newTestHandler(accounts, notifier)

		w := postJSON(t, handler.Register, "/auth/register", map[string]interface{}{
			"username":         "john.smith",
			"email":            "john@example.com",
			"password":         "password123",
			"confirm_password": "different123",
			"first_name":       "John",
			"last_name":        "Smith",
		})

		require.Equal(t, http.StatusBadRequest, w.Code)

		resp := decodeErrorResponse(t, w)
		fieldErrors, ok := resp["field_errors"].(map[string]interface{})
		require.True(t, ok)
		assert.Contains(t, fieldErrors, "confirm_password")
		assert.Equal(t, 0, accounts.Count())
	})

	t.Run("duplicate username", func(t *testing.T) {
		t.Parallel()

		accounts := mocks.NewMockAccountStore()
		notifier := mocks.NewMockNotifier()
		handler := newTestHandler(accounts, notifier)

		existing, err := domain.NewAccount(
			"john.smith", "first@example.com", "password123", domain.Profile{})
		require.NoError(t, err)
		require.NoError(t, accounts.Create(context.Background(), existing))

		w := postJSON(t, handler.Register, "/auth/register", map[string]interface{}{
			"username":         "john.smith",
			"email":            "second@example.com",
			"password":         "password123",
			"confirm_password": "password123",
			"first_name":       "John",
			"last_name":        "Smith",
		})

		require.Equal(t, http.StatusConflict, w.Code)

		resp := decodeErrorResponse(t, w)
		fieldErrors, ok := resp["field_errors"].(map[string]interface{})
		require.True(t, ok)
		assert.Contains(t, fieldErrors, "username")

		assert.Equal(t, 1, accounts.Count())
		assert.Equal(t, 0, notifier.Count())
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()

		handler := newTestHandler(mocks.NewMockAccountStore(), mocks.NewMockNotifier())

		req := httptest.NewRequest(
			http.MethodPost, "/auth/register", bytes.NewReader([]byte("{not json")))
		w := httptest.NewRecorder()
		handler.Register(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCheckUsername(t *testing.T) {
	t.Parallel()

	accounts := mocks.NewMockAccountStore()
	handler := newTestHandler(accounts, mocks.NewMockNotifier())

	existing, err := domain.NewAccount(
		"claimed", "claimed@example.com", "password123", domain.Profile{})
	require.NoError(t, err)
	require.NoError(t, accounts.Create(context.Background(), existing))

	tests := []struct {
		name          string
		username      string
		wantStatus    int
		wantAvailable bool
	}{
		{
			name:          "available",
			username:      "fresh.name",
			wantStatus:    http.StatusOK,
			wantAvailable: true,
		},
		{
			name:          "taken",
			username:      "claimed",
			wantStatus:    http.StatusOK,
			wantAvailable: false,
		},
		{
			name:       "too short",
			username:   "ab",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			w := postJSON(t, handler.CheckUsername, "/auth/check-username",
				map[string]interface{}{"username": tc.username})

			require.Equal(t, tc.wantStatus, w.Code)
			if tc.wantStatus == http.StatusOK {
				var resp CheckUsernameResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tc.wantAvailable, resp.Available)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("valid credentials", func(t *testing.T) {
		t.Parallel()

		accounts := mocks.NewMockAccountStore()
		handler := newTestHandler(accounts, mocks.NewMockNotifier())

		existing, err := domain.NewAccount(
			"lucy", "lucy@example.com", "password123", domain.Profile{})
		require.NoError(t, err)
		require.NoError(t, accounts.Create(context.Background(), existing))

		w := postJSON(t, handler.Login, "/auth/login", map[string]interface{}{
			"username": "lucy",
			"password": "password123",
		})

		require.Equal(t, http.StatusOK, w.Code)

		var resp AuthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "test-token", resp.Token)
		assert.Equal(t, existing.ID, resp.AccountID)
	})

	t.Run("unknown username", func(t *testing.T) {
		t.Parallel()

		handler := newTestHandler(mocks.NewMockAccountStore(), mocks.NewMockNotifier())

		w := postJSON(t, handler.Login, "/auth/login", map[string]interface{}{
			"username": "nobody",
			"password": "password123",
		})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing password", func(t *testing.T) {
		t.Parallel()

		handler := newTestHandler(mocks.NewMockAccountStore(), mocks.NewMockNotifier())

		w := postJSON(t, handler.Login, "/auth/login", map[string]interface{}{
			"username": "lucy",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetAccount(t *testing.T) {
	t.Parallel()

	newRequest := func(accountID uuid.UUID, pathID string, authenticated bool) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/accounts/"+pathID, nil)

		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", pathID)
		ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
		if authenticated {
			ctx = context.WithValue(ctx, shared.AccountIDContextKey, accountID)
		}
		return req.WithContext(ctx)
	}

	accounts := mocks.NewMockAccountStore()
	handler := newTestHandler(accounts, mocks.NewMockNotifier())

	existing, err := domain.NewAccount(
		"lucy", "lucy@example.com", "password123", domain.Profile{FirstName: "Lucy"})
	require.NoError(t, err)
	require.NoError(t, accounts.Create(context.Background(), existing))

	t.Run("own account", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		handler.GetAccount(w, newRequest(existing.ID, existing.ID.String(), true))

		require.Equal(t, http.StatusOK, w.Code)

		var resp AccountResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "lucy", resp.Username)
		assert.Equal(t, "Lucy", resp.FirstName)
	})

	t.Run("someone else's account", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		handler.GetAccount(w, newRequest(uuid.New(), existing.ID.String(), true))

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		handler.GetAccount(w, newRequest(uuid.Nil, existing.ID.String(), false))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid path ID", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		handler.GetAccount(w, newRequest(existing.ID, "not-a-uuid", true))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
