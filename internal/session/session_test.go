package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_CreateAndGet(t *testing.T) {
	store := NewStore(time.Minute)

	token := store.Create(Session{UserHash: "HASH00000001", UserName: "Ann"})
	require.NotEmpty(t, token)

	sess, ok := store.Get(token)
	require.True(t, ok)
	assert.Equal(t, "HASH00000001", sess.UserHash)
	assert.Equal(t, "Ann", sess.UserName)
	assert.False(t, sess.Admin)
}

func TestStore_TokensAreUnique(t *testing.T) {
	store := NewStore(time.Minute)

	a := store.Create(Session{UserName: "a"})
	b := store.Create(Session{UserName: "b"})
	assert.NotEqual(t, a, b)
}

func TestStore_Delete(t *testing.T) {
	store := NewStore(time.Minute)

	token := store.Create(Session{UserName: "Ann"})
	store.Delete(token)

	_, ok := store.Get(token)
	assert.False(t, ok)

	// Deleting again is harmless.
	store.Delete(token)
}

func TestStore_SessionsExpire(t *testing.T) {
	store := NewStore(20 * time.Millisecond)

	token := store.Create(Session{UserName: "Ann"})
	_, ok := store.Get(token)
	require.True(t, ok)

	time.Sleep(50 * time.Millisecond)

	_, ok = store.Get(token)
	assert.False(t, ok)
}

func TestStore_AdminSession(t *testing.T) {
	store := NewStore(time.Minute)

	token := store.Create(Session{Admin: true, AdminUser: "rxprime"})
	sess, ok := store.Get(token)
	require.True(t, ok)
	assert.True(t, sess.Admin)
	assert.Equal(t, "rxprime", sess.AdminUser)
	assert.Empty(t, sess.UserHash)
}
