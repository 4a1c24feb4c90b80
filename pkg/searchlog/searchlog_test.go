package searchlog

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLog(t *testing.T) (*Manager, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "searched_usernames.json")
	m, err := NewManager(context.Background(), path)
	require.NoError(t, err)
	return m, path
}

func TestManager_Add(t *testing.T) {
	m, _ := setupLog(t)
	ctx := context.Background()

	require.NoError(t, m.Add(ctx, "bob", "HASH00000001"))

	entries, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].ID)
	assert.Equal(t, "bob", entries[0].Username)
	assert.Equal(t, "HASH00000001", entries[0].SearchedBy)
	assert.Equal(t, StatusNotFound, entries[0].Status)
	assert.False(t, entries[0].SearchedAt.IsZero())
}

func TestManager_AddIsIdempotentCaseInsensitive(t *testing.T) {
	m, _ := setupLog(t)
	ctx := context.Background()

	require.NoError(t, m.Add(ctx, "Foo", "HASH00000001"))
	require.NoError(t, m.Add(ctx, "foo", "HASH00000002"))
	require.NoError(t, m.Add(ctx, "FOO", "HASH00000003"))

	entries, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	// The original casing and attribution win.
	assert.Equal(t, "Foo", entries[0].Username)
	assert.Equal(t, "HASH00000001", entries[0].SearchedBy)
}

func TestManager_ListBackFillsMobileNumber(t *testing.T) {
	m, path := setupLog(t)
	ctx := context.Background()

	require.NoError(t, m.Add(ctx, "bob", "HASH00000001"))

	entries, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Not Available", entries[0].MobileNumber)

	// Read-time only: the file stays without the field.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Not Available")
}

func TestManager_Delete(t *testing.T) {
	m, _ := setupLog(t)
	ctx := context.Background()

	require.NoError(t, m.Add(ctx, "bob", "HASH00000001"))
	require.NoError(t, m.Add(ctx, "carol", "HASH00000001"))

	t.Run("removes the matching entry", func(t *testing.T) {
		require.NoError(t, m.Delete(ctx, 1))
		entries, err := m.List(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "carol", entries[0].Username)
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		require.NoError(t, m.Delete(ctx, 999))
		entries, err := m.List(ctx)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}

func TestManager_IDsAssignedMaxPlusOne(t *testing.T) {
	m, _ := setupLog(t)
	ctx := context.Background()

	require.NoError(t, m.Add(ctx, "a1", "H"))
	require.NoError(t, m.Add(ctx, "a2", "H"))
	require.NoError(t, m.Add(ctx, "a3", "H"))

	// Deleting a middle entry must not cause id reuse of the highest.
	require.NoError(t, m.Delete(ctx, 2))
	require.NoError(t, m.Add(ctx, "a4", "H"))

	entries, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 4, entries[2].ID)
}

func TestManager_SchemaEvolutionMissingKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "searched_usernames.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	m, err := NewManager(context.Background(), path)
	require.NoError(t, err)

	entries, err := m.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)

	// The key was back-filled on disk.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "searched_usernames")
}
