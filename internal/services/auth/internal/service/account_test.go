package service

import (
	"context"
	"errors"
	"testing"

	"github.com/gamma-omg/lexi-cards/internal/pkg/serr"
	"github.com/gamma-omg/lexi-cards/internal/services/auth/internal/store"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func twoUsers() *memStore {
	return newMemStore(
		store.User{
			UID:            "uid-a",
			Username:       "alice",
			Email:          "alice@example.com",
			HashedPassword: "hashed:Old#pass1",
			InvitationCode: "code-a",
			Role:           store.RoleStudent,
		},
		store.User{
			UID:            "uid-b",
			Username:       "bob",
			Email:          "bob@example.com",
			HashedPassword: "hashed:Bob#pass1",
			InvitationCode: "code-b",
			Role:           store.RoleTeacher,
		},
	)
}

func newTestAccount(st store.Store) *Account {
	return NewAccount(st, AccountConfig{Hasher: plainHasher{}})
}

func TestUpdateUsername(t *testing.T) {
	st := twoUsers()
	acc := newTestAccount(st)

	usr, err := acc.UpdateUsername(t.Context(), "uid-a", "alicia")
	require.NoError(t, err)
	assert.Equal(t, "alicia", usr.Username)
	assert.Equal(t, "uid-a", usr.UID)
}

func TestUpdateUsername_TakenByOther(t *testing.T) {
	st := twoUsers()
	acc := newTestAccount(st)

	_, err := acc.UpdateUsername(t.Context(), "uid-b", "alice")
	require.Error(t, err)
	assert.Equal(t, serr.Conflict, serr.KindOf(err))

	a, err := st.GetUserByUID(t.Context(), "uid-a")
	require.NoError(t, err)
	assert.Equal(t, "alice", a.Username)

	b, err := st.GetUserByUID(t.Context(), "uid-b")
	require.NoError(t, err)
	assert.Equal(t, "bob", b.Username)
}

func TestUpdateUsername_OwnValue(t *testing.T) {
	acc := newTestAccount(twoUsers())

	usr, err := acc.UpdateUsername(t.Context(), "uid-a", "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", usr.Username)
}

func TestUpdateUsername_RaceBackstop(t *testing.T) {
	acc := newTestAccount(&mockStore{
		usernameTakenFunc: func(ctx context.Context, r store.TakenRequest) (bool, error) {
			return false, nil
		},
		updateUsernameFunc: func(ctx context.Context, r store.UpdateUsernameRequest) error {
			return store.ErrExists
		},
	})

	_, err := acc.UpdateUsername(t.Context(), "uid-a", "bob")
	require.Error(t, err)
	assert.Equal(t, serr.Conflict, serr.KindOf(err))
}

func TestUpdateUsername_UserGone(t *testing.T) {
	acc := newTestAccount(twoUsers())

	_, err := acc.UpdateUsername(t.Context(), "uid-x", "zed")
	require.Error(t, err)
	assert.Equal(t, serr.NotFound, serr.KindOf(err))
}

func TestUpdateUsername_StoreError(t *testing.T) {
	acc := newTestAccount(&mockStore{
		usernameTakenFunc: func(ctx context.Context, r store.TakenRequest) (bool, error) {
			return false, errors.New("db down")
		},
	})

	_, err := acc.UpdateUsername(t.Context(), "uid-a", "zed")
	require.Error(t, err)
	assert.Equal(t, serr.Internal, serr.KindOf(err))
}

func TestUpdateEmail(t *testing.T) {
	acc := newTestAccount(twoUsers())

	usr, err := acc.UpdateEmail(t.Context(), "uid-a", "alice@new.example.com")
	require.NoError(t, err)
	assert.Equal(t, "alice@new.example.com", usr.Email)
}

func TestUpdateEmail_TakenByOther(t *testing.T) {
	st := twoUsers()
	acc := newTestAccount(st)

	_, err := acc.UpdateEmail(t.Context(), "uid-a", "bob@example.com")
	require.Error(t, err)
	assert.Equal(t, serr.Conflict, serr.KindOf(err))

	a, err := st.GetUserByUID(t.Context(), "uid-a")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", a.Email)
}

func TestUpdateEmail_OwnValue(t *testing.T) {
	acc := newTestAccount(twoUsers())

	_, err := acc.UpdateEmail(t.Context(), "uid-a", "alice@example.com")
	assert.NoError(t, err)
}

func TestUpdatePassword(t *testing.T) {
	st := twoUsers()
	acc := newTestAccount(st)

	err := acc.UpdatePassword(t.Context(), "uid-a", "Old#pass1", "New#pass2")
	require.NoError(t, err)

	usr, err := st.GetUserByUID(t.Context(), "uid-a")
	require.NoError(t, err)
	assert.False(t, plainHasher{}.Verify(usr.HashedPassword, "Old#pass1"))
	assert.True(t, plainHasher{}.Verify(usr.HashedPassword, "New#pass2"))
}

func TestUpdatePassword_WrongCurrent(t *testing.T) {
	st := twoUsers()
	acc := newTestAccount(st)

	err := acc.UpdatePassword(t.Context(), "uid-a", "Wrong#pass1", "New#pass2")
	require.Error(t, err)
	assert.Equal(t, serr.InvalidCredentials, serr.KindOf(err))

	usr, err := st.GetUserByUID(t.Context(), "uid-a")
	require.NoError(t, err)
	assert.Equal(t, "hashed:Old#pass1", usr.HashedPassword)
}

func TestRegenerateInvitationCode(t *testing.T) {
	st := twoUsers()
	acc := NewAccount(st, AccountConfig{Hasher: plainHasher{}})

	usr, err := acc.RegenerateInvitationCode(t.Context(), "uid-a")
	require.NoError(t, err)
	assert.NotEqual(t, "code-a", usr.InvitationCode)

	parsed, err := uuid.Parse(usr.InvitationCode)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), parsed.Version())
}

func TestRegenerateInvitationCode_RetriesOnSameValue(t *testing.T) {
	st := twoUsers()
	ids := []string{"code-a", "code-a", "code-new"}
	acc := NewAccount(st, AccountConfig{
		Hasher: plainHasher{},
		NewID: func() string {
			id := ids[0]
			ids = ids[1:]
			return id
		},
	})

	usr, err := acc.RegenerateInvitationCode(t.Context(), "uid-a")
	require.NoError(t, err)
	assert.Equal(t, "code-new", usr.InvitationCode)
}

func TestRegenerateInvitationCode_StuckGenerator(t *testing.T) {
	acc := NewAccount(twoUsers(), AccountConfig{
		Hasher: plainHasher{},
		NewID:  func() string { return "code-a" },
	})

	_, err := acc.RegenerateInvitationCode(t.Context(), "uid-a")
	require.Error(t, err)
	assert.Equal(t, serr.Internal, serr.KindOf(err))
}

func TestRegenerateInvitationCode_UserGone(t *testing.T) {
	acc := newTestAccount(twoUsers())

	_, err := acc.RegenerateInvitationCode(t.Context(), "uid-x")
	require.Error(t, err)
	assert.Equal(t, serr.NotFound, serr.KindOf(err))
}

func TestNewAccount_RequiresHasher(t *testing.T) {
	assert.Panics(t, func() { NewAccount(twoUsers(), AccountConfig{}) })
}
