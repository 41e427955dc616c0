package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestUser(t *testing.T) *User {
	t.Helper()
	user, err := NewUser("Asha Verma", "asha@example.com", "9876543210", "secret-password")
	require.NoError(t, err)
	return user
}

func TestNewUser(t *testing.T) {
	t.Run("creates customer account", func(t *testing.T) {
		user := createTestUser(t)

		assert.Equal(t, "asha@example.com", user.Email)
		assert.Equal(t, RoleUser, user.Role)
		assert.False(t, user.Verified)
		assert.NotEqual(t, "secret-password", user.PasswordHash)
		assert.Len(t, user.GetDomainEvents(), 1)
	})

	t.Run("normalizes email case", func(t *testing.T) {
		user, err := NewUser("Asha", "Asha@Example.COM", "", "secret-password")
		require.NoError(t, err)
		assert.Equal(t, "asha@example.com", user.Email)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewUser("  ", "asha@example.com", "", "secret-password")
		assert.Error(t, err)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		_, err := NewUser("Asha", "not-an-email", "", "secret-password")
		assert.Error(t, err)
	})

	t.Run("rejects short password", func(t *testing.T) {
		_, err := NewUser("Asha", "asha@example.com", "", "short")
		assert.Error(t, err)
	})

	t.Run("rejects malformed phone", func(t *testing.T) {
		_, err := NewUser("Asha", "asha@example.com", "12345", "secret-password")
		assert.Error(t, err)
	})
}

func TestUser_VerifyPassword(t *testing.T) {
	user := createTestUser(t)

	assert.True(t, user.VerifyPassword("secret-password"))
	assert.False(t, user.VerifyPassword("wrong-password"))
}

func TestUser_ChangePassword(t *testing.T) {
	user := createTestUser(t)

	require.NoError(t, user.ChangePassword("another-password"))

	assert.True(t, user.VerifyPassword("another-password"))
	assert.False(t, user.VerifyPassword("secret-password"))

	assert.Error(t, user.ChangePassword("short"))
}

func TestUser_Roles(t *testing.T) {
	user := createTestUser(t)
	assert.False(t, user.IsAdmin())

	user.PromoteToAdmin()
	assert.True(t, user.IsAdmin())
	assert.Equal(t, RoleAdmin, user.Role)
}

func TestUser_UpdateProfile(t *testing.T) {
	user := createTestUser(t)
	before := user.Version

	require.NoError(t, user.UpdateProfile("Asha V", "New@Example.com", "9000000000"))

	assert.Equal(t, "Asha V", user.Name)
	assert.Equal(t, "new@example.com", user.Email)
	assert.Equal(t, "9000000000", user.Phone)
	assert.Equal(t, before+1, user.Version)

	assert.Error(t, user.UpdateProfile("", "new@example.com", ""))
	assert.Error(t, user.UpdateProfile("Asha V", "not-an-email", ""))
	assert.Error(t, user.UpdateProfile("Asha V", "new@example.com", "12345"))
}
