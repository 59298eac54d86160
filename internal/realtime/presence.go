package realtime

import (
	"sort"
	"sync"
	"time"

	"github.com/msp993/backlog-zenith-project/internal/models"
)

type presenceEntry struct {
	presence models.Presence
	seen     time.Time
}

// Tracker records which users are online, one entry per connection.
// An entry that is not refreshed within the ttl is dropped by Sweep.
type Tracker struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]presenceEntry
}

func NewTracker(ttl time.Duration) *Tracker {
	return &Tracker{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]presenceEntry),
	}
}

// Track announces or refreshes a connection. It reports whether the visible
// presence list changed, which is the case for a new connection or a page change.
func (t *Tracker) Track(connID string, p models.Presence) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	existing, ok := t.entries[connID]
	if ok {
		changed := existing.presence.Page != p.Page
		existing.presence.Page = p.Page
		existing.seen = now
		t.entries[connID] = existing
		return changed
	}

	p.OnlineAt = now
	t.entries[connID] = presenceEntry{presence: p, seen: now}
	return true
}

func (t *Tracker) Untrack(connID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.entries[connID]; !ok {
		return false
	}
	delete(t.entries, connID)
	return true
}

// Sweep removes stale entries and returns their connection ids.
func (t *Tracker) Sweep() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := t.now().Add(-t.ttl)
	var removed []string
	for id, e := range t.entries {
		if e.seen.Before(cutoff) {
			delete(t.entries, id)
			removed = append(removed, id)
		}
	}
	sort.Strings(removed)
	return removed
}

// List returns one presence per user, skipping excludeUserID. A user with
// several connections is shown with the most recently refreshed one.
func (t *Tracker) List(excludeUserID string) []models.Presence {
	t.mu.Lock()
	defer t.mu.Unlock()

	latest := make(map[string]presenceEntry)
	for _, e := range t.entries {
		userID := e.presence.UserID
		if userID == "" || userID == excludeUserID {
			continue
		}
		if cur, ok := latest[userID]; !ok || e.seen.After(cur.seen) {
			latest[userID] = e
		}
	}

	users := make([]models.Presence, 0, len(latest))
	for _, e := range latest {
		users = append(users, e.presence)
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].UserName != users[j].UserName {
			return users[i].UserName < users[j].UserName
		}
		return users[i].UserID < users[j].UserID
	})

	return users
}

// Count returns the number of distinct users online.
func (t *Tracker) Count() int {
	return len(t.List(""))
}
