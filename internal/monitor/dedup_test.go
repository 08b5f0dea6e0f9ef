package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackerKnownIDNeverNewAgain(t *testing.T) {
	tr := newTracker()
	tr.markKnown("p1")

	assert.False(t, tr.isNew("p1", 1000, 1000))
	assert.False(t, tr.isNew("p1", 10_000_000, 1000))
}

func TestTrackerRecencyWindow(t *testing.T) {
	tr := newTracker()
	lastCheck := int64(10_000)

	// Inside the 5-minute grace window: new.
	assert.True(t, tr.isNew("a", lastCheck, lastCheck))
	assert.True(t, tr.isNew("b", lastCheck-299, lastCheck))

	// At or beyond the window boundary: stale, even though unseen.
	assert.False(t, tr.isNew("c", lastCheck-300, lastCheck))
	assert.False(t, tr.isNew("d", lastCheck-301, lastCheck))
}

func TestTrackerSeed(t *testing.T) {
	tr := newTracker()
	tr.seed([]string{"p1", "p2"})

	assert.Equal(t, 2, tr.size())
	assert.False(t, tr.isNew("p1", 99_999, 0))
	assert.False(t, tr.isNew("p2", 99_999, 0))
	assert.True(t, tr.isNew("p3", 99_999, 99_999))

	// Seeding again is additive, not a reset.
	tr.seed([]string{"p3"})
	assert.Equal(t, 3, tr.size())
}
