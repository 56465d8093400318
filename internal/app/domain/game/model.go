// Package game defines the catalog entity for playable games listed on the
// portal.
package game

import "time"

// Status tags a game row. Trending rows are surfaced in the spotlight strip;
// the tag is informational and never computed client-side.
const (
	StatusNormal   = "normal"
	StatusTrending = "trending"
)

// Game represents one row of the hosted games table. The portal holds
// transient, re-fetchable copies only; the catalog never mutates them.
type Game struct {
	ID            string    `json:"id,omitempty"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	GameURL       string    `json:"game_url"`
	ThumbnailURL  string    `json:"thumbnail_url"`
	TwitterURL    string    `json:"twitter_url,omitempty"`
	DiscordURL    string    `json:"discord_url,omitempty"`
	WalletAddress string    `json:"wallet_address"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
}
