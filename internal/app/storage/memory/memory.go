// Package memory provides an in-memory implementation of the storage ports.
// It is safe for concurrent use and is primarily intended for tests and
// local development; the vote procedure semantics of the hosted backend are
// reproduced here so flows behave identically against either store.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arrondavide/psite/internal/app/domain/game"
	"github.com/arrondavide/psite/internal/app/domain/product"
	"github.com/arrondavide/psite/internal/app/domain/session"
	"github.com/arrondavide/psite/internal/app/domain/vote"
	"github.com/arrondavide/psite/internal/app/storage"
)

// Store is an in-memory implementation of all storage ports.
type Store struct {
	mu       sync.RWMutex
	games    []game.Game
	products []product.Product
	stats    map[string]vote.Stats
	choices  map[string]map[string]vote.Choice // wallet -> game id -> choice
	objects  map[string][]byte
}

var _ storage.GameStore = (*Store)(nil)
var _ storage.ProductStore = (*Store)(nil)
var _ storage.VoteStore = (*Store)(nil)
var _ storage.ObjectStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{
		stats:   make(map[string]vote.Stats),
		choices: make(map[string]map[string]vote.Choice),
		objects: make(map[string][]byte),
	}
}

// GameStore implementation ----------------------------------------------------

func (s *Store) ListGames(_ context.Context) ([]game.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirstGames(s.games), nil
}

func (s *Store) TrendingGames(_ context.Context, limit int) ([]game.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]game.Game, 0, limit)
	for _, g := range newestFirstGames(s.games) {
		if g.Status != game.StatusTrending {
			continue
		}
		out = append(out, g)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *Store) ListGamesByOwner(_ context.Context, wallet string) ([]game.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wallet = session.Normalize(wallet)
	out := make([]game.Game, 0)
	for _, g := range newestFirstGames(s.games) {
		if session.Normalize(g.WalletAddress) == wallet {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *Store) CreateGame(_ context.Context, g game.Game) (game.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.Status == "" {
		g.Status = game.StatusNormal
	}
	g.CreatedAt = time.Now().UTC()
	s.games = append(s.games, g)
	return g, nil
}

func (s *Store) DeleteGame(_ context.Context, id, wallet string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wallet = session.Normalize(wallet)
	for i, g := range s.games {
		if g.ID == id && session.Normalize(g.WalletAddress) == wallet {
			s.games = append(s.games[:i], s.games[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("game %s for wallet %s: %w", id, wallet, storage.ErrNotFound)
}

// ProductStore implementation -------------------------------------------------

func (s *Store) ListProducts(_ context.Context) ([]product.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return newestFirstProducts(s.products), nil
}

func (s *Store) ListProductsBySeller(_ context.Context, wallet string) ([]product.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wallet = session.Normalize(wallet)
	out := make([]product.Product, 0)
	for _, p := range newestFirstProducts(s.products) {
		if session.Normalize(p.SellerWalletAddress) == wallet {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Store) CreateProduct(_ context.Context, p product.Product) (product.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = time.Now().UTC()
	p.ImageURLs = append([]string(nil), p.ImageURLs...)
	s.products = append(s.products, p)
	return p, nil
}

func (s *Store) DeleteProduct(_ context.Context, id, wallet string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	wallet = session.Normalize(wallet)
	for i, p := range s.products {
		if p.ID == id && session.Normalize(p.SellerWalletAddress) == wallet {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("product %s for wallet %s: %w", id, wallet, storage.ErrNotFound)
}

// VoteStore implementation ----------------------------------------------------

// CastVote mirrors the hosted vote procedure: it adjusts both counters and
// the stored choice in one step under the store lock.
func (s *Store) CastVote(_ context.Context, gameID, wallet string, choice, previous vote.Choice) error {
	if !vote.CanTransition(previous, choice) {
		return fmt.Errorf("illegal vote transition %q -> %q", previous, choice)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	wallet = session.Normalize(wallet)
	byGame := s.choices[wallet]
	if byGame == nil {
		byGame = make(map[string]vote.Choice)
		s.choices[wallet] = byGame
	}
	if byGame[gameID] != previous {
		return fmt.Errorf("stale previous choice for game %s", gameID)
	}

	st := s.stats[gameID]
	st.GameID = gameID
	switch previous {
	case vote.Upvote:
		st.Upvotes--
	case vote.Downvote:
		st.Downvotes--
	}
	switch choice {
	case vote.Upvote:
		st.Upvotes++
	case vote.Downvote:
		st.Downvotes++
	}
	s.stats[gameID] = st
	byGame[gameID] = choice
	return nil
}

func (s *Store) GameStats(_ context.Context, gameID string) (vote.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := s.stats[gameID]
	st.GameID = gameID
	return st, nil
}

func (s *Store) VotesByWallet(_ context.Context, wallet string) (map[string]vote.Choice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]vote.Choice)
	for gameID, c := range s.choices[session.Normalize(wallet)] {
		out[gameID] = c
	}
	return out, nil
}

// ObjectStore implementation --------------------------------------------------

func (s *Store) Put(_ context.Context, path string, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.objects[path] = append([]byte(nil), data...)
	return "memory://" + path, nil
}

func (s *Store) Remove(_ context.Context, paths []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range paths {
		delete(s.objects, p)
	}
	return nil
}

// Object returns a stored object's bytes, for tests.
func (s *Store) Object(path string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.objects[path]
	return data, ok
}

// helpers ---------------------------------------------------------------------

// newestFirstGames returns a copy in reverse insertion order, matching the
// created_at descending order the hosted queries use.
func newestFirstGames(in []game.Game) []game.Game {
	out := make([]game.Game, 0, len(in))
	for i := len(in) - 1; i >= 0; i-- {
		out = append(out, in[i])
	}
	return out
}

func newestFirstProducts(in []product.Product) []product.Product {
	out := make([]product.Product, 0, len(in))
	for i := len(in) - 1; i >= 0; i-- {
		out = append(out, in[i])
	}
	return out
}
