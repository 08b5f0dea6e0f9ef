package monitor

// recencyWindow is the backward grace period, in seconds, that admits
// slightly-late payments as still new. Anything older than this relative
// to the previous check is assumed already handled, even if its id was
// never seen: that bounds memory and avoids replay storms after long
// downtime.
const recencyWindow = 300

// tracker records which payment ids have already been surfaced. It is
// owned by the poll goroutine (seeded before the loop starts) and never
// evicts: id volume over one session is small enough to keep forever.
type tracker struct {
	known map[string]struct{}
}

func newTracker() *tracker {
	return &tracker{known: make(map[string]struct{})}
}

// seed bulk-inserts ids so pre-existing payments are never alerted on.
func (t *tracker) seed(ids []string) {
	for _, id := range ids {
		t.known[id] = struct{}{}
	}
}

// markKnown records an id as surfaced.
func (t *tracker) markKnown(id string) {
	t.known[id] = struct{}{}
}

// isNew reports whether a payment should be surfaced: its id must be
// unseen and its timestamp must fall inside the recency window relative
// to the previous completed check.
func (t *tracker) isNew(id string, timestamp, lastCheckTime int64) bool {
	if _, ok := t.known[id]; ok {
		return false
	}
	return timestamp > lastCheckTime-recencyWindow
}

func (t *tracker) size() int {
	return len(t.known)
}
