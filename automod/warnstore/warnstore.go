package warnstore

import (
	"context"
	"time"
)

// A single moderation warning on a user's ledger.
type Warning struct {
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// Valid reports whether the warning still counts toward escalation at the
// given instant.
func (w Warning) Valid(now time.Time, expiry time.Duration) bool {
	return now.Sub(w.CreatedAt) < expiry
}

// WarnStore is the per-(community,user) warning ledger. Expired warnings are
// pruned lazily on each Issue; after an escalation fires the caller clears
// the ledger.
//
// Warning state does not survive a process restart with the in-memory
// backend; the redis backend is the optional persistence hook.
type WarnStore interface {
	// Issue prunes warnings older than expiry (relative to w.CreatedAt),
	// appends w, and returns the resulting valid warning count.
	Issue(ctx context.Context, communityID, userID string, w Warning, expiry time.Duration) (int, error)

	// Clear empties the user's ledger.
	Clear(ctx context.Context, communityID, userID string) error
}

func ledgerKey(communityID, userID string) string {
	return communityID + "/" + userID
}
