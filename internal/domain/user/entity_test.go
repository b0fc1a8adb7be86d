//go:build unit

package user_test

import (
	"testing"

	"psyconnect/internal/domain/user"
	"psyconnect/tests/common/builder"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cmpOpts = []cmp.Option{
	cmpopts.IgnoreUnexported(user.User{}),
	cmpopts.EquateEmpty(),
}

func TestNewUser(t *testing.T) {
	t.Run("builds an active account", func(t *testing.T) {
		actual, err := builder.NewUserBuilder().BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		email, _ := user.NewEmail("patient@example.com")
		role, _ := user.NewRole("patient")
		expected := user.NewUser(email, "hashed_password", role, "Test Patient")

		if diff := cmp.Diff(expected, actual, cmpOpts...); diff != "" {
			t.Errorf("User mismatch (-want +got):\n%s", diff)
		}

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.True(t, actual.IsActive())
		assert.Equal(t, "patient@example.com", actual.Email().Value())
		assert.Equal(t, user.RolePatient, actual.Role())
		assert.Equal(t, "Test Patient", actual.DisplayName())
	})

	t.Run("each account gets its own identity", func(t *testing.T) {
		first, err := builder.NewUserBuilder().BuildDomain()
		require.NoError(t, err)
		second, err := builder.NewUserBuilder().BuildDomain()
		require.NoError(t, err)

		assert.NotEqual(t, first.ID(), second.ID())
	})

	t.Run("professional builder variant", func(t *testing.T) {
		actual, err := builder.NewUserBuilder().AsProfessional().BuildDomain()
		require.NoError(t, err)

		assert.Equal(t, user.RoleProfessional, actual.Role())
		assert.Equal(t, "Test Professional", actual.DisplayName())
	})

	t.Run("invalid builder input propagates", func(t *testing.T) {
		_, err := builder.NewUserBuilder().WithEmail("invalid-email").BuildDomain()
		assert.ErrorIs(t, err, user.ErrInvalidEmail)

		_, err = builder.NewUserBuilder().WithRole("director").BuildDomain()
		assert.ErrorIs(t, err, user.ErrInvalidRole)
	})
}
