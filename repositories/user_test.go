package repositories

import (
	"testing"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"chat-hub/errors"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func Test_Create_And_Fetch_User(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewUserRepository(db)

	created, err := repository.CreateUser("alice", "alice@example.com", "hashed-secret")
	req.NoError(err)
	req.NotEqual(uuid.Nil, created.ID)

	byName, err := repository.GetUserByUsername("alice")
	req.NoError(err)
	req.Equal(created.ID, byName.ID)
	req.Equal("alice@example.com", byName.Email)
	req.Equal("hashed-secret", byName.PasswordHash)

	byID, err := repository.GetUserByID(created.ID)
	req.NoError(err)
	req.Equal(byName, byID)
}

func Test_Create_User_Twice_Fails(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewUserRepository(db)

	_, err := repository.CreateUser("alice", "alice@example.com", "hashed-secret")
	req.NoError(err)

	_, err = repository.CreateUser("alice", "other@example.com", "other-hash")
	req.ErrorIs(err, errors.ErrUserAlreadyExists)

	// The original record is untouched
	user, err := repository.GetUserByUsername("alice")
	req.NoError(err)
	req.Equal("alice@example.com", user.Email)
}

func Test_Fetch_Unknown_User(t *testing.T) {
	req := require.New(t)
	db := openTestDB(t)
	repository := NewUserRepository(db)

	_, err := repository.GetUserByUsername("nobody")
	req.ErrorIs(err, errors.ErrNotFound)

	_, err = repository.GetUserByID(uuid.New())
	req.ErrorIs(err, errors.ErrNotFound)
}
