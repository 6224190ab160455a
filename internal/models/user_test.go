package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetPassword(t *testing.T) {
	user := NewUser("alice", "alice@example.com", "Alice", "Liddell")

	err := user.SetPassword("secret1")
	require.NoError(t, err)

	// The stored hash must never equal the plaintext
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "secret1", user.PasswordHash)
}

func TestCheckPassword(t *testing.T) {
	user := NewUser("alice", "alice@example.com", "Alice", "Liddell")
	require.NoError(t, user.SetPassword("secret1"))

	assert.True(t, user.CheckPassword("secret1"))
	assert.False(t, user.CheckPassword("wrong"))
	assert.False(t, user.CheckPassword(""))
	assert.False(t, user.CheckPassword(user.PasswordHash))
}

func TestNewUserDefaults(t *testing.T) {
	user := NewUser("bob", "bob@example.com", "Bob", "Builder")

	assert.Equal(t, RoleUser, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, user.ID.String(), "00000000-0000-0000-0000-000000000000")
}

func TestUserJSONNeverExposesHash(t *testing.T) {
	user := NewUser("carol", "carol@example.com", "Carol", "Jones")
	require.NoError(t, user.SetPassword("secret1"))

	data, err := json.Marshal(user)
	require.NoError(t, err)
	assert.NotContains(t, string(data), user.PasswordHash)
	assert.NotContains(t, string(data), "secret1")

	profile, err := json.Marshal(user.Profile())
	require.NoError(t, err)
	assert.NotContains(t, string(profile), user.PasswordHash)
}
