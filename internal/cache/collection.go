// Package cache holds fetched collections in memory and applies optimistic
// writes to them while the database write is in flight.
package cache

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/golang/groupcache/lru"
	"github.com/google/uuid"
	"github.com/msp993/backlog-zenith-project/internal/models"
)

type Collection[T any] struct {
	mu      sync.Mutex
	entries *lru.Cache
	idOf    func(T) string
	pending map[string]models.PendingUpdate
	now     func() time.Time
}

// NewCollection returns a cache holding at most size collections.
// idOf extracts the row id used to locate patched items.
func NewCollection[T any](size int, idOf func(T) string) *Collection[T] {
	return &Collection[T]{
		entries: lru.New(size),
		idOf:    idOf,
		pending: make(map[string]models.PendingUpdate),
		now:     time.Now,
	}
}

// Get returns a copy of the cached collection.
func (c *Collection[T]) Get(key string) ([]T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.entries.Get(key)
	if !ok {
		return nil, false
	}
	return slices.Clone(v.([]T)), true
}

func (c *Collection[T]) Set(key string, items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries.Add(key, slices.Clone(items))
}

func (c *Collection[T]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries.Remove(key)
}

func (c *Collection[T]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries.Clear()
}

// Pending lists optimistic writes that have not settled, oldest first.
func (c *Collection[T]) Pending() []models.PendingUpdate {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.PendingUpdate, 0, len(c.pending))
	for _, p := range c.pending {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b models.PendingUpdate) int {
		return a.StartedAt.Compare(b.StartedAt)
	})
	return out
}

// Mutate patches the cached copy of entity id under key, then runs write.
// On success the pending record is dropped and the patched copy stays.
// On failure the key is invalidated so the next read refetches, and the
// write error is returned unchanged.
func (c *Collection[T]) Mutate(
	ctx context.Context, key, id string, patch func(*T), write func(context.Context) error,
) error {
	update := c.apply(key, id, patch)

	if err := write(ctx); err != nil {
		c.rollback(update)
		return err
	}

	c.settle(update)
	return nil
}

func (c *Collection[T]) apply(key, id string, patch func(*T)) models.PendingUpdate {
	c.mu.Lock()
	defer c.mu.Unlock()

	update := models.PendingUpdate{
		ID:        uuid.NewString(),
		Key:       key,
		EntityID:  id,
		StartedAt: c.now(),
	}
	c.pending[update.ID] = update

	v, ok := c.entries.Get(key)
	if !ok {
		return update
	}

	items := slices.Clone(v.([]T))
	for i := range items {
		if c.idOf(items[i]) == id {
			patch(&items[i])
			c.entries.Add(key, items)
			break
		}
	}

	return update
}

func (c *Collection[T]) settle(update models.PendingUpdate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.pending, update.ID)
}

func (c *Collection[T]) rollback(update models.PendingUpdate) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.pending, update.ID)
	c.entries.Remove(update.Key)
}
