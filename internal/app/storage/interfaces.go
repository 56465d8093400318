// Package storage defines the persistence ports the portal flows depend on.
// Every implementation fronts the hosted backend (or an in-memory stand-in);
// the portal itself owns no data.
package storage

import (
	"context"
	"errors"

	"github.com/arrondavide/psite/internal/app/domain/game"
	"github.com/arrondavide/psite/internal/app/domain/product"
	"github.com/arrondavide/psite/internal/app/domain/vote"
)

// ErrNotFound is returned by delete operations when no row matched the id
// and wallet filter, whether the row is missing or owned by someone else.
var ErrNotFound = errors.New("storage: row not found")

// GameStore persists game catalog rows.
type GameStore interface {
	// ListGames returns all games ordered by creation time descending.
	ListGames(ctx context.Context) ([]game.Game, error)
	// TrendingGames returns the newest games tagged trending, up to limit.
	TrendingGames(ctx context.Context, limit int) ([]game.Game, error)
	ListGamesByOwner(ctx context.Context, wallet string) ([]game.Game, error)
	CreateGame(ctx context.Context, g game.Game) (game.Game, error)
	DeleteGame(ctx context.Context, id, wallet string) error
}

// ProductStore persists shop listing rows.
type ProductStore interface {
	// ListProducts returns all listings ordered by creation time descending.
	ListProducts(ctx context.Context) ([]product.Product, error)
	ListProductsBySeller(ctx context.Context, wallet string) ([]product.Product, error)
	CreateProduct(ctx context.Context, p product.Product) (product.Product, error)
	// DeleteProduct removes a listing; the wallet filter scopes the delete
	// to the owning seller.
	DeleteProduct(ctx context.Context, id, wallet string) error
}

// VoteStore persists vote choices and exposes the aggregate counters. The
// backing procedure is the sole writer of both; callers never do counter
// arithmetic.
type VoteStore interface {
	// CastVote records choice for (gameID, wallet), replacing previous.
	// previous carries the caller's last known choice so the procedure can
	// adjust both counters and the choice row atomically.
	CastVote(ctx context.Context, gameID, wallet string, choice, previous vote.Choice) error
	// GameStats reads the aggregate counters for one game.
	GameStats(ctx context.Context, gameID string) (vote.Stats, error)
	// VotesByWallet returns every recorded choice for a wallet, keyed by
	// game id.
	VotesByWallet(ctx context.Context, wallet string) (map[string]vote.Choice, error)
}

// VoteWatcher is an optional extension of VoteStore for backends that can
// push vote changes. fn receives the affected game id; the returned function
// tears the subscription down.
type VoteWatcher interface {
	WatchVotes(ctx context.Context, fn func(gameID string)) (func(), error)
}

// ObjectStore persists binary assets and hands back public URLs.
type ObjectStore interface {
	Put(ctx context.Context, path string, data []byte, contentType string) (string, error)
	Remove(ctx context.Context, paths []string) error
}
