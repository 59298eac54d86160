package realtime

import (
	"testing"
	"time"

	"github.com/msp993/backlog-zenith-project/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTracker(ttl time.Duration) (*Tracker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)}
	tr := NewTracker(ttl)
	tr.now = clock.now
	return tr, clock
}

func TestTrackerTrackAndList(t *testing.T) {
	tr, clock := newTestTracker(time.Minute)

	assert.True(t, tr.Track("c1", models.Presence{UserID: "u1", UserName: "Bea", Page: "/backlog"}))
	assert.True(t, tr.Track("c2", models.Presence{UserID: "u2", UserName: "Ana", Page: "/bugs"}))

	clock.advance(10 * time.Second)
	assert.False(t, tr.Track("c1", models.Presence{UserID: "u1", Page: "/backlog"}), "heartbeat is not a change")
	assert.True(t, tr.Track("c1", models.Presence{UserID: "u1", Page: "/kpis"}), "page change is a change")

	users := tr.List("")
	require.Len(t, users, 2)
	assert.Equal(t, "Ana", users[0].UserName)
	assert.Equal(t, "Bea", users[1].UserName)
	assert.Equal(t, "/kpis", users[1].Page)
	assert.Equal(t, time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC), users[1].OnlineAt)

	others := tr.List("u1")
	require.Len(t, others, 1)
	assert.Equal(t, "u2", others[0].UserID)
	assert.Equal(t, 2, tr.Count())
}

func TestTrackerOneEntryPerUser(t *testing.T) {
	tr, clock := newTestTracker(time.Minute)

	tr.Track("tab1", models.Presence{UserID: "u1", UserName: "Ana", Page: "/backlog"})
	clock.advance(time.Second)
	tr.Track("tab2", models.Presence{UserID: "u1", UserName: "Ana", Page: "/bugs"})

	users := tr.List("")
	require.Len(t, users, 1)
	assert.Equal(t, "/bugs", users[0].Page)

	assert.True(t, tr.Untrack("tab2"))
	assert.False(t, tr.Untrack("tab2"))
	users = tr.List("")
	require.Len(t, users, 1)
	assert.Equal(t, "/backlog", users[0].Page)
}

func TestTrackerSweep(t *testing.T) {
	tr, clock := newTestTracker(time.Minute)

	tr.Track("c1", models.Presence{UserID: "u1"})
	clock.advance(40 * time.Second)
	tr.Track("c2", models.Presence{UserID: "u2"})
	clock.advance(30 * time.Second)

	assert.Equal(t, []string{"c1"}, tr.Sweep())
	assert.Empty(t, tr.Sweep())

	users := tr.List("")
	require.Len(t, users, 1)
	assert.Equal(t, "u2", users[0].UserID)
}

func TestTrackerSkipsAnonymous(t *testing.T) {
	tr, _ := newTestTracker(time.Minute)
	tr.Track("c1", models.Presence{Page: "/"})
	assert.Empty(t, tr.List(""))
}
