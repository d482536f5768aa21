package database

import (
	"context"
	"testing"

	"barrage-board/internal/auth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func createTestUser(t *testing.T, username string) CreateUserParams {
	hashedPassword, err := auth.HashPassword("secretpassword")
	require.NoError(t, err)

	params := CreateUserParams{Username: username, HashedPassword: hashedPassword, IsActive: true}
	_, err = testStore.CreateUser(context.Background(), params)
	require.NoError(t, err)
	return params
}

func TestGetUserByUsername(t *testing.T) {
	createTestUser(t, "testuser")

	foundUser, err := testStore.GetUserByUsername(context.Background(), "testuser")

	require.NoError(t, err)
	require.NotNil(t, foundUser)

	require.Equal(t, "testuser", foundUser.Username)
	require.True(t, foundUser.IsActive)
	require.NotEmpty(t, foundUser.HashedPassword)
	require.NotEqual(t, uuid.Nil, foundUser.ID)

	_, err = testStore.GetUserByUsername(context.Background(), "nonexistent")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	createTestUser(t, "dup_user")

	_, err := testStore.CreateUser(context.Background(), CreateUserParams{Username: "dup_user", HashedPassword: "x"})
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestGetUserByID(t *testing.T) {
	createTestUser(t, "by_id_user")
	user, err := testStore.GetUserByUsername(context.Background(), "by_id_user")
	require.NoError(t, err)

	found, err := testStore.GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, user.Username, found.Username)

	_, err = testStore.GetUserByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateUser(t *testing.T) {
	createTestUser(t, "update_user")
	user, err := testStore.GetUserByUsername(context.Background(), "update_user")
	require.NoError(t, err)

	t.Run("nil fields keep stored values", func(t *testing.T) {
		updated, err := testStore.UpdateUser(context.Background(), user.ID, UpdateUserParams{})
		require.NoError(t, err)
		require.Equal(t, user.Username, updated.Username)
		require.Equal(t, user.HashedPassword, updated.HashedPassword)
		require.Equal(t, user.IsActive, updated.IsActive)
	})

	t.Run("replaces supplied fields", func(t *testing.T) {
		name := "update_user_renamed"
		hash := "new-hash"
		active := false
		updated, err := testStore.UpdateUser(context.Background(), user.ID, UpdateUserParams{
			Username:       &name,
			HashedPassword: &hash,
			IsActive:       &active,
		})
		require.NoError(t, err)
		require.Equal(t, name, updated.Username)
		require.Equal(t, hash, updated.HashedPassword)
		require.False(t, updated.IsActive)
	})

	t.Run("conflicting username", func(t *testing.T) {
		createTestUser(t, "update_user_other")
		name := "update_user_other"
		_, err := testStore.UpdateUser(context.Background(), user.ID, UpdateUserParams{Username: &name})
		require.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := testStore.UpdateUser(context.Background(), uuid.New(), UpdateUserParams{})
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestDeleteUser(t *testing.T) {
	createTestUser(t, "delete_user")
	user, err := testStore.GetUserByUsername(context.Background(), "delete_user")
	require.NoError(t, err)

	require.NoError(t, testStore.DeleteUser(context.Background(), user.ID))

	_, err = testStore.GetUserByID(context.Background(), user.ID)
	require.ErrorIs(t, err, ErrUserNotFound)

	err = testStore.DeleteUser(context.Background(), user.ID)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestListUsers(t *testing.T) {
	createTestUser(t, "list_user_a")
	createTestUser(t, "list_user_b")

	users, err := testStore.ListUsers(context.Background())
	require.NoError(t, err)

	names := map[string]bool{}
	for _, u := range users {
		names[u.Username] = true
	}
	require.True(t, names["list_user_a"])
	require.True(t, names["list_user_b"])
}

func TestExecTx_RollsBackOnError(t *testing.T) {
	err := testStore.ExecTx(context.Background(), func(q *Queries) error {
		if _, err := q.CreateUser(context.Background(), CreateUserParams{Username: "tx_user", HashedPassword: "x", IsActive: true}); err != nil {
			return err
		}
		return ErrUserNotFound
	})
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = testStore.GetUserByUsername(context.Background(), "tx_user")
	require.ErrorIs(t, err, ErrUserNotFound)
}
