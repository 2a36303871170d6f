// Package cache provides in-memory response caching for zoonet feed pages
package cache

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// CachedFeedResult holds one rendered feed page
type CachedFeedResult struct {
	Body      []byte
	CreatedAt time.Time
	LastUsed  time.Time
}

// FeedCache caches rendered feed pages keyed by feed name and page number.
// Entries live until an explicit invalidation or until the TTL backstop
// expires them, whichever comes first.
type FeedCache struct {
	cache       map[string]*CachedFeedResult
	mutex       sync.RWMutex
	maxEntries  int           // Maximum number of cached pages
	maxAge      time.Duration // Maximum age of entries
	cleanupTick time.Duration // How often to run cleanup
	stopCleanup chan struct{}
	hits        int64
	misses      int64
	countermux  sync.RWMutex
}

// NewFeedCache creates a new feed cache with the specified limits
func NewFeedCache(maxEntries int, maxAge time.Duration) *FeedCache {
	fc := &FeedCache{
		cache:       make(map[string]*CachedFeedResult),
		maxEntries:  maxEntries,
		maxAge:      maxAge,
		cleanupTick: time.Minute * 5,
		stopCleanup: make(chan struct{}),
	}

	go fc.cleanup()

	return fc
}

// generateKey creates a cache key from the feed name and page number
func generateKey(feed string, page int) string {
	return fmt.Sprintf("%s_p%d", feed, page)
}

// Get retrieves a cached page body for a feed
func (fc *FeedCache) Get(feed string, page int) ([]byte, bool) {
	key := generateKey(feed, page)

	fc.mutex.RLock()
	entry, exists := fc.cache[key]
	fc.mutex.RUnlock()

	if !exists {
		fc.countermux.Lock()
		fc.misses++
		fc.countermux.Unlock()
		return nil, false
	}

	if time.Since(entry.CreatedAt) > fc.maxAge {
		fc.mutex.Lock()
		delete(fc.cache, key)
		fc.mutex.Unlock()
		fc.countermux.Lock()
		fc.misses++
		fc.countermux.Unlock()
		return nil, false
	}

	fc.countermux.Lock()
	fc.hits++
	fc.countermux.Unlock()

	fc.mutex.Lock()
	entry.LastUsed = time.Now()
	fc.mutex.Unlock()

	return entry.Body, true
}

// Set stores a rendered page body in the cache
func (fc *FeedCache) Set(feed string, page int, body []byte) {
	key := generateKey(feed, page)

	entry := &CachedFeedResult{
		Body:      body,
		CreatedAt: time.Now(),
		LastUsed:  time.Now(),
	}

	fc.mutex.Lock()
	if len(fc.cache) >= fc.maxEntries {
		fc.evictOldestLocked()
	}
	fc.cache[key] = entry
	fc.mutex.Unlock()
}

// InvalidateFeed drops every cached page of a single feed
func (fc *FeedCache) InvalidateFeed(feed string) {
	prefix := feed + "_p"
	fc.mutex.Lock()
	for key := range fc.cache {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(fc.cache, key)
		}
	}
	fc.mutex.Unlock()
}

// InvalidateAll drops the whole cache. Called on every post or comment write.
func (fc *FeedCache) InvalidateAll() {
	fc.mutex.Lock()
	cleared := len(fc.cache)
	fc.cache = make(map[string]*CachedFeedResult)
	fc.mutex.Unlock()
	if cleared > 0 {
		log.Printf("FeedCache: invalidated %d cached pages", cleared)
	}
}

// Stats returns cache hit/miss counters and current entry count
func (fc *FeedCache) Stats() (hits, misses int64, entries int) {
	fc.countermux.RLock()
	hits, misses = fc.hits, fc.misses
	fc.countermux.RUnlock()
	fc.mutex.RLock()
	entries = len(fc.cache)
	fc.mutex.RUnlock()
	return hits, misses, entries
}

// Close stops the cleanup goroutine
func (fc *FeedCache) Close() {
	close(fc.stopCleanup)
}

// evictOldestLocked removes the least recently used entry.
// Caller must hold fc.mutex.
func (fc *FeedCache) evictOldestLocked() {
	var oldestKey string
	var oldestTime time.Time
	for key, entry := range fc.cache {
		if oldestKey == "" || entry.LastUsed.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.LastUsed
		}
	}
	if oldestKey != "" {
		delete(fc.cache, oldestKey)
	}
}

// cleanup periodically removes expired entries
func (fc *FeedCache) cleanup() {
	ticker := time.NewTicker(fc.cleanupTick)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			fc.mutex.Lock()
			for key, entry := range fc.cache {
				if now.Sub(entry.CreatedAt) > fc.maxAge {
					delete(fc.cache, key)
				}
			}
			fc.mutex.Unlock()
		case <-fc.stopCleanup:
			return
		}
	}
}
