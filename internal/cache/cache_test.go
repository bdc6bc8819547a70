package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestCache(t *testing.T, ttl time.Duration, maxEntries int) *FileCache {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weather.json")
	return New(path, ttl, maxEntries, zaptest.NewLogger(t))
}

func TestGetMissOnEmptyCache(t *testing.T) {
	c := newTestCache(t, time.Minute, 0)

	_, ok := c.Get("40.84,-73.94,imperial,now")
	assert.False(t, ok)
}

func TestPutThenGetReturnsPayload(t *testing.T) {
	c := newTestCache(t, time.Minute, 0)
	payload := json.RawMessage(`{"current":{"temp":71}}`)

	require.NoError(t, c.Put("k", payload))

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.JSONEq(t, string(payload), string(got))
}

func TestExpiredEntryIsAMiss(t *testing.T) {
	c := newTestCache(t, time.Nanosecond, 0)

	require.NoError(t, c.Put("k", json.RawMessage(`{}`)))
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok, "stale entries must never be served")
}

func TestPersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather.json")
	logger := zaptest.NewLogger(t)
	payload := json.RawMessage(`{"lat":48.85}`)

	first := New(path, time.Minute, 0, logger)
	require.NoError(t, first.Put("k", payload))

	second := New(path, time.Minute, 0, logger)
	got, ok := second.Get("k")
	require.True(t, ok)
	assert.JSONEq(t, string(payload), string(got))
}

func TestCorruptFileDegradesToEmptyCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	c := New(path, time.Minute, 0, zaptest.NewLogger(t))

	_, ok := c.Get("k")
	assert.False(t, ok)

	// The cache stays usable after the bad read.
	require.NoError(t, c.Put("k", json.RawMessage(`{}`)))
	_, ok = c.Get("k")
	assert.True(t, ok)
}

func TestUnreadableFileDegradesToEmptyCache(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}

	path := filepath.Join(t.TempDir(), "weather.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o000))

	c := New(path, time.Minute, 0, zaptest.NewLogger(t))
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestCullsOldestBeyondMaxEntries(t *testing.T) {
	c := newTestCache(t, time.Hour, 2)

	require.NoError(t, c.Put("oldest", json.RawMessage(`1`)))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, c.Put("middle", json.RawMessage(`2`)))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, c.Put("newest", json.RawMessage(`3`)))

	assert.Equal(t, 2, c.Len())

	_, ok := c.Get("oldest")
	assert.False(t, ok, "oldest entry should have been culled")
	_, ok = c.Get("newest")
	assert.True(t, ok)
}

func TestPutOverwritesEntry(t *testing.T) {
	c := newTestCache(t, time.Minute, 0)

	require.NoError(t, c.Put("k", json.RawMessage(`{"v":1}`)))
	require.NoError(t, c.Put("k", json.RawMessage(`{"v":2}`)))

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.JSONEq(t, `{"v":2}`, string(got))
	assert.Equal(t, 1, c.Len())
}

func TestExpiredEntriesPurgedOnSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather.json")
	logger := zaptest.NewLogger(t)

	c := New(path, 5*time.Millisecond, 0, logger)
	require.NoError(t, c.Put("old", json.RawMessage(`1`)))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, c.Put("new", json.RawMessage(`2`)))

	// Reload from disk: only the fresh entry should have been written.
	reloaded := New(path, time.Hour, 0, logger)
	assert.Equal(t, 1, reloaded.Len())
	_, ok := reloaded.Get("new")
	assert.True(t, ok)
}
