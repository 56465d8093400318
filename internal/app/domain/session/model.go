// Package session defines the persisted wallet session record.
package session

import (
	"strings"
	"time"
)

// DefaultTTL is how long a persisted session stays restorable.
const DefaultTTL = 24 * time.Hour

// Record is the single persisted wallet session. At most one exists at a
// time; every mutating path either writes a complete record or clears it.
type Record struct {
	Address string    `json:"address"`
	SavedAt time.Time `json:"saved_at"`
}

// Expired reports whether the record is too old to restore.
func (r Record) Expired(now time.Time, ttl time.Duration) bool {
	return now.Sub(r.SavedAt) >= ttl
}

// Normalize lowercases a wallet address. Providers report addresses in mixed
// checksum casing; the portal compares and stores them case-insensitively.
func Normalize(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
