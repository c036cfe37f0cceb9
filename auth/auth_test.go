package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chat-hub/errors"
)

func TestHashPassword_And_Compare(t *testing.T) {
	req := require.New(t)
	password := "Sup3rSecret!"

	hash, err := HashPassword(password)
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$argon2id$"))
	req.NotContains(hash, password)

	match, err := ComparePassword(password, hash)
	req.NoError(err)
	req.True(match)

	match, err = ComparePassword("WrongPassword1!", hash)
	req.NoError(err)
	req.False(match)
}

func TestHashPassword_Salts_Are_Unique(t *testing.T) {
	req := require.New(t)

	first, err := HashPassword("Sup3rSecret!")
	req.NoError(err)
	second, err := HashPassword("Sup3rSecret!")
	req.NoError(err)

	req.NotEqual(first, second)
}

func TestComparePassword_Malformed_Hash(t *testing.T) {
	req := require.New(t)

	_, err := ComparePassword("whatever", "not-an-argon2-hash")
	req.Error(err)
}

func TestTokenManager_Round_Trip(t *testing.T) {
	req := require.New(t)
	manager := NewTokenManager("test-secret", time.Hour)

	token, err := manager.Generate("user-id-123", "alice")
	req.NoError(err)
	req.NotEmpty(token)

	claims, err := manager.Validate(token)
	req.NoError(err)
	req.Equal("user-id-123", claims.UserID)
	req.Equal("alice", claims.Username)
	req.Equal("chat-hub", claims.Issuer)
}

func TestTokenManager_Rejects_Wrong_Key(t *testing.T) {
	req := require.New(t)
	manager := NewTokenManager("test-secret", time.Hour)
	other := NewTokenManager("other-secret", time.Hour)

	token, err := manager.Generate("user-id-123", "alice")
	req.NoError(err)

	_, err = other.Validate(token)
	req.Error(err)
}

func TestTokenManager_Rejects_Expired_Token(t *testing.T) {
	req := require.New(t)
	manager := NewTokenManager("test-secret", -time.Minute)

	token, err := manager.Generate("user-id-123", "alice")
	req.NoError(err)

	_, err = manager.Validate(token)
	req.Error(err)
}

func TestValidateRegister(t *testing.T) {
	valid := RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "Sup3rSecret!"}

	t.Run("accepts a well formed request", func(t *testing.T) {
		require.NoError(t, ValidateRegister(valid))
	})

	t.Run("rejects a short username", func(t *testing.T) {
		bad := valid
		bad.Username = "al"
		require.Error(t, ValidateRegister(bad))
	})

	t.Run("rejects a malformed email", func(t *testing.T) {
		bad := valid
		bad.Email = "not-an-email"
		require.Error(t, ValidateRegister(bad))
	})

	t.Run("rejects a short password", func(t *testing.T) {
		bad := valid
		bad.Password = "Ab1!"
		require.Error(t, ValidateRegister(bad))
	})

	t.Run("rejects a password without complexity", func(t *testing.T) {
		bad := valid
		bad.Password = "alllowercase"
		require.ErrorIs(t, ValidateRegister(bad), errors.ErrInvalidPassword)
	})

	t.Run("accepts digits as the complexity extra", func(t *testing.T) {
		ok := valid
		ok.Password = "Passw0rdnine"
		require.NoError(t, ValidateRegister(ok))
	})
}

func TestValidateLogin(t *testing.T) {
	t.Run("accepts credentials", func(t *testing.T) {
		require.NoError(t, ValidateLogin(LoginRequest{Username: "alice", Password: "anything"}))
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		require.Error(t, ValidateLogin(LoginRequest{Username: "alice"}))
		require.Error(t, ValidateLogin(LoginRequest{Password: "anything"}))
	})
}
