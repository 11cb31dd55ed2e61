package tunas_test

import (
	"context"
	"testing"

	"github.com/dekarrin/claripy/internal/history"
	"github.com/dekarrin/claripy/server/dao"
	"github.com/dekarrin/claripy/server/dao/sqlite"
	"github.com/dekarrin/claripy/server/serr"
	"github.com/dekarrin/claripy/server/tunas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) tunas.Service {
	t.Helper()
	dir := t.TempDir()

	users, err := sqlite.NewDatastore(dir)
	require.NoError(t, err)
	t.Cleanup(func() { users.Close() })

	hist, err := history.NewSQLiteStore(dir)
	require.NoError(t, err)
	t.Cleanup(func() { hist.Close() })

	return tunas.Service{DB: users, History: hist}
}

func Test_Service_CreateUserAndLogin(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, "alice", "hunter2", "alice@example.com", dao.Normal)
	require.NoError(t, err)
	assert.Equal(t, "alice", created.Username)
	assert.NotEqual(t, "hunter2", created.Password, "password must be hashed, not stored in plaintext")

	loggedIn, err := svc.Login(ctx, "alice", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, created.ID, loggedIn.ID)
	assert.False(t, loggedIn.LastLoginTime.IsZero())
}

func Test_Service_Login_wrongPassword(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "bob", "correct-password", "", dao.Normal)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "bob", "wrong-password")
	assert.ErrorIs(t, err, serr.ErrBadCredentials)
}

func Test_Service_Login_unknownUser(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Login(context.Background(), "nobody", "whatever")
	assert.ErrorIs(t, err, serr.ErrBadCredentials)
}

func Test_Service_CreateUser_duplicateUsername(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, "carol", "password1", "", dao.Normal)
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, "carol", "password2", "", dao.Normal)
	assert.ErrorIs(t, err, serr.ErrAlreadyExists)
}

func Test_Service_CreateUser_blankUsername(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.CreateUser(context.Background(), "", "password1", "", dao.Normal)
	assert.ErrorIs(t, err, serr.ErrBadArgument)
}

func Test_Service_CreateUser_invalidEmail(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.CreateUser(context.Background(), "dave", "password1", "not-an-email", dao.Normal)
	assert.ErrorIs(t, err, serr.ErrBadArgument)
}

func Test_Service_GetUser_notFound(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.GetUser(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, serr.ErrBadArgument)
}

func Test_Service_DeleteUser(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, "erin", "password1", "", dao.Normal)
	require.NoError(t, err)

	deleted, err := svc.DeleteUser(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = svc.GetUser(ctx, created.ID.String())
	assert.ErrorIs(t, err, serr.ErrNotFound)
}

func Test_Service_Logout(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, "frank", "password1", "", dao.Normal)
	require.NoError(t, err)

	loggedOut, err := svc.Logout(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, loggedOut.LastLogoutTime.IsZero())
}

func Test_Service_Translate_roundTripsAndRecordsHistory(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	result, err := svc.Translate(ctx, nil, history.ToPyLite, `Define x as 1; Print x;`)
	require.NoError(t, err)
	assert.Contains(t, result.Output, "print(x)")
	require.NotNil(t, result.Tree)
	assert.NotEqual(t, [16]byte{}, result.EntryID)

	entries, err := svc.RecentHistory(ctx, nil, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, result.EntryID, entries[0].ID)
	assert.Equal(t, `Define x as 1; Print x;`, entries[0].SourceText)
}

func Test_Service_Translate_unknownDirection(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Translate(context.Background(), nil, history.Direction("bogus"), "Print 1;")
	assert.Error(t, err)
}
