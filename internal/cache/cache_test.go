package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCache_SetThenGetHits(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, time.Hour, 0, nil)

	c.Set("key1", json.RawMessage(`{"a":1}`))
	data, ok := c.Get("key1")
	require.True(t, ok)
	require.JSONEq(t, `{"a":1}`, string(data))

	stats := c.Stats()
	require.Equal(t, int64(1), stats.Hits)
	require.Equal(t, int64(1), stats.Writes)
}

func TestCache_MissForAbsentKey(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, time.Hour, 0, nil)
	_, ok := c.Get("nope")
	require.False(t, ok)
	require.Equal(t, int64(1), c.Stats().Misses)
}

func TestCache_ExpiredEntryIsMissAndRemoved(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, time.Millisecond, 0, nil)
	c.Set("key1", json.RawMessage(`{}`))
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get("key1")
	require.False(t, ok)

	_, err := os.Stat(filepath.Join(dir, "key1.json"))
	require.True(t, os.IsNotExist(err))
}

func TestCache_ClearRemovesAllEntries(t *testing.T) {
	dir := t.TempDir()
	c := New(dir, time.Hour, 0, nil)
	c.Set("a", json.RawMessage(`1`))
	c.Set("b", json.RawMessage(`2`))

	require.NoError(t, c.Clear())

	_, ok := c.Get("a")
	require.False(t, ok)
}

func TestCache_EnforceSizeLimitEvictsOldest(t *testing.T) {
	dir := t.TempDir()
	writer := New(dir, time.Hour, 0, nil)

	writer.Set("old", json.RawMessage(`{"x":1}`))
	time.Sleep(10 * time.Millisecond)
	writer.Set("new", json.RawMessage(`{"x":2}`))

	newInfo, err := os.Stat(filepath.Join(dir, "new.json"))
	require.NoError(t, err)

	// Cap just above one entry's size: room for the newer file only.
	limited := New(dir, time.Hour, newInfo.Size()+8, nil)
	limited.EnforceSizeLimit()

	_, oldOK := limited.Get("old")
	_, newOK := limited.Get("new")
	require.False(t, oldOK)
	require.True(t, newOK)
}

func TestFileKey_ChangesWithSizeOrMtime(t *testing.T) {
	k1 := FileKey("/a/b.js", 100, 123)
	k2 := FileKey("/a/b.js", 200, 123)
	k3 := FileKey("/a/b.js", 100, 456)
	require.NotEqual(t, k1, k2)
	require.NotEqual(t, k1, k3)
	require.Equal(t, k1, FileKey("/a/b.js", 100, 123))
}

func TestRepoKey_StableRegardlessOfListOrder(t *testing.T) {
	k1 := RepoKey("/repo", RepoConfig{ExcludePatterns: []string{"a", "b"}, IncludeExtensions: []string{".js", ".py"}})
	k2 := RepoKey("/repo", RepoConfig{ExcludePatterns: []string{"b", "a"}, IncludeExtensions: []string{".py", ".js"}})
	require.Equal(t, k1, k2)
}

func TestRepoKey_ChangesWithIncludeExternal(t *testing.T) {
	k1 := RepoKey("/repo", RepoConfig{IncludeExternal: true})
	k2 := RepoKey("/repo", RepoConfig{IncludeExternal: false})
	require.NotEqual(t, k1, k2)
}
