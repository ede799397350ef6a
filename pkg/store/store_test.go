package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGet(t *testing.T) {
	t.Parallel()

	s := New()
	require.NoError(t, s.Set("A", "B"))

	value, ok := s.Get("A")
	assert.True(t, ok)
	assert.Equal(t, "B", value)

	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestSetRefusesExistingKey(t *testing.T) {
	t.Parallel()

	s := New()
	require.NoError(t, s.Set("A", "B"))

	err := s.Set("A", "C")
	require.ErrorIs(t, err, ErrKeyExists)

	// Original value untouched.
	value, _ := s.Get("A")
	assert.Equal(t, "B", value)
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	s := New()
	require.NoError(t, s.Set("A", "B"))
	before := s.Secrets["A"].Updated

	time.Sleep(2 * time.Millisecond)
	require.NoError(t, s.Update("A", "C"))

	value, _ := s.Get("A")
	assert.Equal(t, "C", value)
	assert.True(t, s.Secrets["A"].Updated.After(before))

	assert.ErrorIs(t, s.Update("missing", "x"), ErrKeyNotFound)
}

func TestRemove(t *testing.T) {
	t.Parallel()

	s := New()
	require.NoError(t, s.Set("A", "B"))
	require.NoError(t, s.Remove("A"))

	_, ok := s.Get("A")
	assert.False(t, ok)

	assert.ErrorIs(t, s.Remove("A"), ErrKeyNotFound)
}

func TestKeysAndEntriesSnapshots(t *testing.T) {
	t.Parallel()

	s := New()
	require.NoError(t, s.Set("one", "1"))
	require.NoError(t, s.Set("two", "2"))

	keys := s.Keys()
	assert.ElementsMatch(t, []string{"one", "two"}, keys)

	entries := s.Entries()
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.NotEmpty(t, e.Key)
		assert.False(t, e.Updated.IsZero())
	}

	// Snapshots are detached from later mutations.
	require.NoError(t, s.Remove("one"))
	assert.Len(t, keys, 2)
	assert.Equal(t, 1, s.Len())
}

func TestArbitraryKeysAccepted(t *testing.T) {
	t.Parallel()

	s := New()
	for _, key := range []string{"", "with spaces", "ünïcode/∆", "a\tb"} {
		require.NoError(t, s.Set(key, "v"))
		_, ok := s.Get(key)
		assert.True(t, ok)
	}
}

func TestJSONRoundtrip(t *testing.T) {
	t.Parallel()

	s := New()
	require.NoError(t, s.Set("api_key", "secret123"))

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded Store
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.True(t, decoded.CreationDate.Equal(s.CreationDate))
	value, ok := decoded.Get("api_key")
	assert.True(t, ok)
	assert.Equal(t, "secret123", value)
}
