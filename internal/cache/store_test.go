package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStorePutGet(t *testing.T) {
	store := newTestStore(t)
	key := Key{Path: "/var/lib/selinux/mod.pp", Size: 1234, MTimeNS: 42}

	_, ok, err := store.Get(key)
	require.NoError(t, err)
	assert.False(t, ok, "fresh store should miss")

	require.NoError(t, store.Put(key, true))

	useful, ok, err := store.Get(key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, useful)
}

func TestStoreMissOnChangedFile(t *testing.T) {
	store := newTestStore(t)
	key := Key{Path: "/var/lib/selinux/mod.pp", Size: 1234, MTimeNS: 42}
	require.NoError(t, store.Put(key, false))

	grown := key
	grown.Size = 5678
	_, ok, err := store.Get(grown)
	require.NoError(t, err)
	assert.False(t, ok, "changed size must miss")

	touched := key
	touched.MTimeNS = 43
	_, ok, err = store.Get(touched)
	require.NoError(t, err)
	assert.False(t, ok, "changed mtime must miss")
}

func TestStoreReplacesStaleVerdict(t *testing.T) {
	store := newTestStore(t)
	old := Key{Path: "/var/lib/selinux/mod.pp", Size: 10, MTimeNS: 1}
	require.NoError(t, store.Put(old, true))

	fresh := Key{Path: old.Path, Size: 20, MTimeNS: 2}
	require.NoError(t, store.Put(fresh, false))

	// The stale row for the same path must be gone.
	_, ok, err := store.Get(old)
	require.NoError(t, err)
	assert.False(t, ok)

	useful, ok, err := store.Get(fresh)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, useful)
}

func TestStoreRunID(t *testing.T) {
	a := newTestStore(t)
	b := newTestStore(t)
	assert.NotEmpty(t, a.RunID())
	assert.NotEqual(t, a.RunID(), b.RunID(), "each store gets its own run ID")
}

func TestKeyFor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mod.pp")
	require.NoError(t, os.WriteFile(path, []byte("contents"), 0o644))

	key, err := KeyFor(path)
	require.NoError(t, err)
	assert.Equal(t, int64(8), key.Size)
	assert.True(t, filepath.IsAbs(key.Path))
	assert.InDelta(t, time.Now().UnixNano(), key.MTimeNS, float64(time.Minute.Nanoseconds()))

	_, err = KeyFor(filepath.Join(t.TempDir(), "absent.pp"))
	require.Error(t, err)
}

func TestNewStoreCreatesParentDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "verdicts.db")
	store, err := NewStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put(Key{Path: "/x", Size: 1, MTimeNS: 1}, true))
	_, statErr := os.Stat(dbPath)
	assert.NoError(t, statErr)
}
