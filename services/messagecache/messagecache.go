// Package messagecache holds the most recent non-command message per
// (channel, user) key so a follow-up create command can consume it. Entries
// expire after a TTL; a background sweep keeps write-only keys from
// accumulating. State is process-local by design.
package messagecache

import (
	"log"
	"sync"
	"time"

	"github.com/samber/mo"

	"eztestbot/models"
)

const (
	DefaultTTL           = 10 * time.Minute
	DefaultSweepInterval = 5 * time.Minute
)

type cacheKey struct {
	channelID string
	userID    string
}

type MessageCacheService struct {
	mu      sync.RWMutex
	entries map[cacheKey]models.CachedMessage

	ttl           time.Duration
	sweepInterval time.Duration
	now           func() time.Time

	stopCh  chan struct{}
	stopped sync.Once
}

func NewMessageCacheService(ttl, sweepInterval time.Duration) *MessageCacheService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if sweepInterval <= 0 {
		sweepInterval = DefaultSweepInterval
	}

	return &MessageCacheService{
		entries:       make(map[cacheKey]models.CachedMessage),
		ttl:           ttl,
		sweepInterval: sweepInterval,
		now:           time.Now,
		stopCh:        make(chan struct{}),
	}
}

// Store records the message for its key, unconditionally overwriting any
// prior entry. Last write wins; no history is retained.
func (s *MessageCacheService) Store(channelID, userID, text, messageID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[cacheKey{channelID: channelID, userID: userID}] = models.CachedMessage{
		Text:      text,
		MessageID: messageID,
		StoredAt:  s.now(),
	}
}

// Fetch returns the cached message for the key. An entry older than the TTL
// behaves as absent and is evicted on the way out.
func (s *MessageCacheService) Fetch(channelID, userID string) mo.Option[models.CachedMessage] {
	key := cacheKey{channelID: channelID, userID: userID}

	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return mo.None[models.CachedMessage]()
	}

	if s.now().Sub(entry.StoredAt) > s.ttl {
		s.mu.Lock()
		// re-check under the write lock; a fresher store may have raced in
		if current, stillThere := s.entries[key]; stillThere && current.StoredAt.Equal(entry.StoredAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return mo.None[models.CachedMessage]()
	}

	return mo.Some(entry)
}

// Evict removes the entry for the key, called after a successful
// context-consuming command so the same message cannot be reused.
func (s *MessageCacheService) Evict(channelID, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, cacheKey{channelID: channelID, userID: userID})
}

// Start launches the background sweep that removes expired entries
// independent of read traffic
func (s *MessageCacheService) Start() {
	go func() {
		ticker := time.NewTicker(s.sweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				removed := s.sweep()
				if removed > 0 {
					log.Printf("🧹 Message cache sweep removed %d expired entries", removed)
				}
			case <-s.stopCh:
				return
			}
		}
	}()
}

// Stop terminates the background sweep. Safe to call more than once.
func (s *MessageCacheService) Stop() {
	s.stopped.Do(func() {
		close(s.stopCh)
	})
}

func (s *MessageCacheService) sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, entry := range s.entries {
		if entry.StoredAt.Before(cutoff) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Len reports the current number of entries, expired or not
func (s *MessageCacheService) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}
