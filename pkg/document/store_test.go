package document

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testDoc struct {
	Items []string `json:"items"`
	Note  string   `json:"note"`
	Count int      `json:"count"`
}

func testDefaults() testDoc {
	return testDoc{Items: []string{}, Note: "default", Count: 0}
}

func testNormalize(doc *testDoc) bool {
	if doc.Items == nil {
		doc.Items = []string{}
		return true
	}
	return false
}

func setupStore(t *testing.T) (*Store[testDoc], string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.json")
	return New(path, testDefaults, testNormalize), path
}

func TestStore_LoadAbsentFileHealsToDefaults(t *testing.T) {
	store, path := setupStore(t)

	doc, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testDefaults(), doc)

	// Healing persists, so the file now exists with default content.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk testDoc
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, testDefaults(), onDisk)
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	want := testDoc{Items: []string{"a", "b"}, Note: "hello", Count: 7}
	require.NoError(t, store.Save(ctx, want))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStore_LoadCorruptFileQuarantinesAndHeals(t *testing.T) {
	store, path := setupStore(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(path, []byte("not json{{{"), 0o644))

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, testDefaults(), doc)

	quarantined, err := filepath.Glob(path + ".corrupt.*")
	require.NoError(t, err)
	require.Len(t, quarantined, 1)

	// The unreadable content survives in the quarantine file.
	data, err := os.ReadFile(quarantined[0])
	require.NoError(t, err)
	assert.Equal(t, "not json{{{", string(data))
}

func TestStore_LoadBackFillsMissingKeys(t *testing.T) {
	store, path := setupStore(t)
	ctx := context.Background()

	// An older file that predates the "items" key.
	require.NoError(t, os.WriteFile(path, []byte(`{"note":"old","count":3}`), 0o644))

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	assert.NotNil(t, doc.Items)
	assert.Equal(t, "old", doc.Note)
	assert.Equal(t, 3, doc.Count)

	// The back-filled shape was persisted.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"items"`)
}

func TestStore_LoadIgnoresStrayTempFile(t *testing.T) {
	store, path := setupStore(t)
	ctx := context.Background()

	want := testDoc{Items: []string{"x"}, Note: "kept", Count: 1}
	require.NoError(t, store.Save(ctx, want))

	// Simulate a crash between temp-file write and rename: a half-written
	// temp file sits beside the document.
	stray := path + ".123456.tmp"
	require.NoError(t, os.WriteFile(stray, []byte(`{"note":"half-writ`), 0o644))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStore_InitIfAbsent(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	seeded, err := store.InitIfAbsent(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = store.InitIfAbsent(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)
}

func TestStore_UpdateSerializesReadModifyWrite(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	const writers = 25

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := store.Update(ctx, func(doc *testDoc) error {
				doc.Count++
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, writers, doc.Count, "no update may be lost")
}

func TestStore_UpdateErrorDoesNotPersist(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testDoc{Items: []string{}, Note: "before", Count: 1}))

	err := store.Update(ctx, func(doc *testDoc) error {
		doc.Note = "after"
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	doc, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "before", doc.Note)
}
