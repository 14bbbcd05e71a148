package services

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/isdelr/todolist/internal/auth"
	"github.com/isdelr/todolist/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))
	return db
}

func newUserService(db *sql.DB) (*UserService, *auth.Issuer) {
	issuer := auth.NewIssuer("test-secret")
	return NewUserService(db, issuer).WithHashCost(bcrypt.MinCost), issuer
}

func mustRegister(t *testing.T, s *UserService, username string) int64 {
	t.Helper()
	user, err := s.Register(context.Background(), username, "pw")
	require.NoError(t, err)
	return user.ID
}

func TestRegister(t *testing.T) {
	db := newTestDB(t)
	users, _ := newUserService(db)
	ctx := context.Background()

	user, err := users.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Empty(t, user.PasswordHash)

	var stored string
	require.NoError(t, db.QueryRow("SELECT password FROM user WHERE id = ?", user.ID).Scan(&stored))
	assert.NotEqual(t, "pw1", stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored), []byte("pw1")))
}

func TestRegisterValidation(t *testing.T) {
	users, _ := newUserService(newTestDB(t))
	ctx := context.Background()

	_, err := users.Register(ctx, "", "pw")
	assert.ErrorIs(t, err, ErrValidation)
	assert.EqualError(t, err, "Username is required.")

	_, err = users.Register(ctx, "alice", "")
	assert.ErrorIs(t, err, ErrValidation)
	assert.EqualError(t, err, "Password is required.")
}

func TestRegisterDuplicate(t *testing.T) {
	users, _ := newUserService(newTestDB(t))
	ctx := context.Background()

	_, err := users.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	_, err = users.Register(ctx, "alice", "other")
	assert.ErrorIs(t, err, ErrConflict)
	assert.EqualError(t, err, "User alice is already registered.")
}

func TestLogin(t *testing.T) {
	users, issuer := newUserService(newTestDB(t))
	ctx := context.Background()

	user, err := users.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	token, err := users.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	id, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	_, err = users.Login(ctx, "bob", "pw1")
	assert.ErrorIs(t, err, ErrAuth)
	assert.EqualError(t, err, "Incorrect username.")

	_, err = users.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrAuth)
	assert.EqualError(t, err, "Incorrect password.")
}

func TestTaskLifecycle(t *testing.T) {
	db := newTestDB(t)
	users, _ := newUserService(db)
	tasks := NewTaskService(db)
	ctx := context.Background()
	alice := mustRegister(t, users, "alice")

	list, err := tasks.List(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)

	created, err := tasks.Create(ctx, alice, "Buy milk", "2%")
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, alice, created.UserID)

	got, err := tasks.Get(ctx, alice, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	updated, err := tasks.Update(ctx, alice, created.ID, "Buy oat milk", "1L")
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", updated.Title)
	assert.Equal(t, "1L", updated.Body)

	got, err = tasks.Get(ctx, alice, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	// Same values again still counts as a match.
	_, err = tasks.Update(ctx, alice, created.ID, "Buy oat milk", "1L")
	require.NoError(t, err)

	second, err := tasks.Create(ctx, alice, "Call mum", "Sunday")
	require.NoError(t, err)
	list, err = tasks.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, created.ID, list[0].ID)
	assert.Equal(t, second.ID, list[1].ID)

	require.NoError(t, tasks.Delete(ctx, alice, created.ID))
	_, err = tasks.Get(ctx, alice, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, tasks.Delete(ctx, alice, created.ID), ErrNotFound)
}

func TestTaskValidation(t *testing.T) {
	db := newTestDB(t)
	users, _ := newUserService(db)
	tasks := NewTaskService(db)
	ctx := context.Background()
	alice := mustRegister(t, users, "alice")

	_, err := tasks.Create(ctx, alice, "", "b")
	assert.ErrorIs(t, err, ErrValidation)
	assert.EqualError(t, err, "Title is required.")
	_, err = tasks.Create(ctx, alice, "t", "")
	assert.EqualError(t, err, "Body is required.")

	list, err := tasks.List(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, list, "rejected tasks must not be stored")

	// Validation wins over the existence check.
	_, err = tasks.Update(ctx, alice, 99, "", "b")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = tasks.Update(ctx, alice, 99, "t", "b")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTasksAreOwnerScoped(t *testing.T) {
	db := newTestDB(t)
	users, _ := newUserService(db)
	tasks := NewTaskService(db)
	ctx := context.Background()
	alice := mustRegister(t, users, "alice")
	bob := mustRegister(t, users, "bob")

	task, err := tasks.Create(ctx, alice, "secret", "plans")
	require.NoError(t, err)

	_, err = tasks.Get(ctx, bob, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = tasks.Update(ctx, bob, task.ID, "mine", "now")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, tasks.Delete(ctx, bob, task.ID), ErrNotFound)

	list, err := tasks.List(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, list)

	got, err := tasks.Get(ctx, alice, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "secret", got.Title)
}
