// Package usage tracks per-user movement recency. A Snapshot is built once per
// generation call from a single batched read of the usage collaborator; the
// core never writes usage history (that happens after the caller commits a
// sequence, outside this package).
package usage

import "time"

// NeverUsedDays is the synthetic staleness for movements with no usage record.
// A missing record means "never used" and must sort as oldest, so the sentinel
// is larger than any real staleness.
const NeverUsedDays = 1 << 30

// Snapshot is an immutable view of one user's last-used timestamps at a fixed
// reference time.
type Snapshot struct {
	lastUsed map[string]time.Time
	now      time.Time
}

// NewSnapshot builds a Snapshot. lastUsed may be nil or empty for users with
// no history.
func NewSnapshot(lastUsed map[string]time.Time, now time.Time) Snapshot {
	return Snapshot{lastUsed: lastUsed, now: now}
}

// Empty reports whether the user has no usage history at all.
func (s Snapshot) Empty() bool { return len(s.lastUsed) == 0 }

// LastUsed returns the movement's last-used timestamp, if any.
func (s Snapshot) LastUsed(movementID string) (time.Time, bool) {
	t, ok := s.lastUsed[movementID]
	return t, ok
}

// DaysSince returns whole days since the movement was last used, or
// NeverUsedDays when there is no record.
func (s Snapshot) DaysSince(movementID string) int {
	t, ok := s.lastUsed[movementID]
	if !ok {
		return NeverUsedDays
	}
	d := int(s.now.Sub(t).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// Stalest returns the id with the highest staleness among the given ids,
// together with its staleness in days. Ties break by id so the result is a
// total order. Returns ("", 0) for an empty id set.
func (s Snapshot) Stalest(movementIDs []string) (string, int) {
	stalestID := ""
	stalestDays := -1
	for _, id := range movementIDs {
		d := s.DaysSince(id)
		if d > stalestDays || (d == stalestDays && id < stalestID) {
			stalestID = id
			stalestDays = d
		}
	}
	if stalestDays < 0 {
		return "", 0
	}
	return stalestID, stalestDays
}
