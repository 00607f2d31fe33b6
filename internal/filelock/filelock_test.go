package filelock

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLockExcludesSecondHolder(t *testing.T) {
	target := filepath.Join(t.TempDir(), "report.txt")

	first := New(target)
	require.NoError(t, first.Lock())

	second := New(target)
	ok, err := second.TryLock()
	require.NoError(t, err)
	assert.False(t, ok, "second holder should not acquire a held lock")

	require.NoError(t, first.Unlock())

	ok, err = second.TryLock()
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, second.Unlock())
}

func TestWriteAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")

	require.NoError(t, WriteAtomic(path, []byte("first\n"), 0o644))
	require.NoError(t, WriteAtomic(path, []byte("second\n"), 0o644))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second\n", string(data))

	// No temp files may remain after the rename.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "report.txt", entries[0].Name())
}

func TestWithLock(t *testing.T) {
	target := filepath.Join(t.TempDir(), "report.txt")

	ran := false
	require.NoError(t, WithLock(target, func() error {
		ran = true
		held := New(target)
		ok, err := held.TryLock()
		require.NoError(t, err)
		assert.False(t, ok, "lock should be held inside WithLock")
		return nil
	}))
	assert.True(t, ran)
}
