package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedCacheSetGet(t *testing.T) {
	fc := NewFeedCache(16, time.Minute)
	defer fc.Close()

	_, ok := fc.Get("index", 1)
	assert.False(t, ok)

	fc.Set("index", 1, []byte("page one"))
	body, ok := fc.Get("index", 1)
	require.True(t, ok)
	assert.Equal(t, []byte("page one"), body)

	// Different page numbers are distinct entries
	_, ok = fc.Get("index", 2)
	assert.False(t, ok)

	hits, misses, entries := fc.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(2), misses)
	assert.Equal(t, 1, entries)
}

func TestFeedCacheTTLExpiry(t *testing.T) {
	fc := NewFeedCache(16, 10*time.Millisecond)
	defer fc.Close()

	fc.Set("index", 1, []byte("stale"))
	time.Sleep(25 * time.Millisecond)

	_, ok := fc.Get("index", 1)
	assert.False(t, ok)
}

func TestFeedCacheInvalidateAll(t *testing.T) {
	fc := NewFeedCache(16, time.Minute)
	defer fc.Close()

	fc.Set("index", 1, []byte("one"))
	fc.Set("index", 2, []byte("two"))
	fc.InvalidateAll()

	_, ok := fc.Get("index", 1)
	assert.False(t, ok)
	_, ok = fc.Get("index", 2)
	assert.False(t, ok)
}

func TestFeedCacheInvalidateFeed(t *testing.T) {
	fc := NewFeedCache(16, time.Minute)
	defer fc.Close()

	fc.Set("index", 1, []byte("index page"))
	fc.Set("group:pandas", 1, []byte("group page"))

	fc.InvalidateFeed("index")

	_, ok := fc.Get("index", 1)
	assert.False(t, ok)
	body, ok := fc.Get("group:pandas", 1)
	require.True(t, ok)
	assert.Equal(t, []byte("group page"), body)
}

func TestFeedCacheEviction(t *testing.T) {
	fc := NewFeedCache(3, time.Minute)
	defer fc.Close()

	for i := 1; i <= 4; i++ {
		fc.Set("index", i, []byte(fmt.Sprintf("page %d", i)))
	}

	_, _, entries := fc.Stats()
	assert.Equal(t, 3, entries)
}
