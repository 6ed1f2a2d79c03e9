package api

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldErrors(t *testing.T) {
	t.Parallel()

	v := newValidator()

	t.Run("all failing fields reported", func(t *testing.T) {
		t.Parallel()

		err := v.Struct(RegisterRequest{
			Username: "ab",
			Email:    "not-an-email",
		})
		require.Error(t, err)

		fieldErrors := FieldErrors(err)
		assert.Contains(t, fieldErrors, "username")
		assert.Contains(t, fieldErrors, "email")
		assert.Contains(t, fieldErrors, "password")
		assert.Contains(t, fieldErrors, "confirm_password")
		assert.Contains(t, fieldErrors, "first_name")
		assert.Contains(t, fieldErrors, "last_name")
	})

	t.Run("json field names used", func(t *testing.T) {
		t.Parallel()

		err := v.Struct(RegisterRequest{
			Username:        "john.smith",
			Email:           "john@example.com",
			Password:        "password123",
			ConfirmPassword: "different123",
			FirstName:       "John",
			LastName:        "Smith",
		})
		require.Error(t, err)

		fieldErrors := FieldErrors(err)
		require.Contains(t, fieldErrors, "confirm_password")
		assert.Equal(t, []string{"Passwords do not match."}, fieldErrors["confirm_password"])
	})

	t.Run("non-validation error", func(t *testing.T) {
		t.Parallel()

		fieldErrors := FieldErrors(errors.New("boom"))
		assert.Contains(t, fieldErrors, "request")
	})
}
