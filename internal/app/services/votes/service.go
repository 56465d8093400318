// Package votes drives the up/down vote flow for catalog games. Choices are
// cached per session so the arrows render instantly; counter arithmetic stays
// in the backing procedure.
package votes

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/arrondavide/psite/internal/app/domain/session"
	"github.com/arrondavide/psite/internal/app/domain/vote"
	"github.com/arrondavide/psite/internal/app/storage"
	"github.com/arrondavide/psite/pkg/logger"
)

// ErrAuthRequired is returned when a vote is cast without a connected wallet.
var ErrAuthRequired = errors.New("votes: wallet connection required")

// ErrInvalidChoice is returned for a choice outside the vote vocabulary.
var ErrInvalidChoice = errors.New("votes: invalid choice")

// Service tracks the connected wallet's choices and the per-game counters.
type Service struct {
	store    storage.VoteStore
	identity func() string
	log      *logger.Logger

	mu      sync.RWMutex
	choices map[string]vote.Choice
	stats   map[string]vote.Stats
}

// New creates a vote service. identity reports the connected wallet address
// and may return empty when no session is active.
func New(store storage.VoteStore, identity func() string, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("votes")
	}
	if identity == nil {
		identity = func() string { return "" }
	}
	return &Service{
		store:    store,
		identity: identity,
		log:      log,
		choices:  make(map[string]vote.Choice),
		stats:    make(map[string]vote.Stats),
	}
}

// Choice returns the session's recorded choice for a game, or vote.None.
func (s *Service) Choice(gameID string) vote.Choice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.choices[gameID]
}

// Stats returns the counters for a game, reading through to the store on a
// cache miss.
func (s *Service) Stats(ctx context.Context, gameID string) (vote.Stats, error) {
	s.mu.RLock()
	cached, ok := s.stats[gameID]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	stats, err := s.store.GameStats(ctx, gameID)
	if err != nil {
		return vote.Stats{}, fmt.Errorf("read game stats: %w", err)
	}
	s.mu.Lock()
	s.stats[gameID] = stats
	s.mu.Unlock()
	return stats, nil
}

// Cast records next as the wallet's choice for gameID and returns the fresh
// counters. Repeating the current choice is a no-op; there is no way back to
// no-vote. The cached choice only advances after the store accepts the write.
func (s *Service) Cast(ctx context.Context, gameID string, next vote.Choice) (vote.Stats, error) {
	wallet := session.Normalize(s.identity())
	if wallet == "" {
		return vote.Stats{}, ErrAuthRequired
	}
	if !next.Valid() {
		return vote.Stats{}, fmt.Errorf("%w: %q", ErrInvalidChoice, next)
	}

	s.mu.RLock()
	prev := s.choices[gameID]
	cached := s.stats[gameID]
	s.mu.RUnlock()

	if !vote.CanTransition(prev, next) {
		return cached, nil
	}

	if err := s.store.CastVote(ctx, gameID, wallet, next, prev); err != nil {
		return vote.Stats{}, fmt.Errorf("cast vote: %w", err)
	}

	s.mu.Lock()
	s.choices[gameID] = next
	s.mu.Unlock()

	stats, err := s.store.GameStats(ctx, gameID)
	if err != nil {
		s.log.WithError(err).WithField("game_id", gameID).Warn("vote recorded but counter refresh failed")
		return vote.Stats{}, fmt.Errorf("refresh game stats: %w", err)
	}

	s.mu.Lock()
	s.stats[gameID] = stats
	s.mu.Unlock()
	return stats, nil
}

// Hydrate loads every recorded choice for the connected wallet. Called after
// session restore or connect so the arrows reflect earlier votes. A missing
// session leaves the cache empty without error.
func (s *Service) Hydrate(ctx context.Context) error {
	wallet := session.Normalize(s.identity())
	if wallet == "" {
		s.Reset()
		return nil
	}

	choices, err := s.store.VotesByWallet(ctx, wallet)
	if err != nil {
		return fmt.Errorf("load wallet votes: %w", err)
	}

	s.mu.Lock()
	s.choices = make(map[string]vote.Choice, len(choices))
	for id, c := range choices {
		if c.Valid() {
			s.choices[id] = c
		}
	}
	s.mu.Unlock()
	return nil
}

// Invalidate drops the cached counters for one game so the next Stats read
// goes to the store. Driven by the realtime vote feed.
func (s *Service) Invalidate(gameID string) {
	s.mu.Lock()
	delete(s.stats, gameID)
	s.mu.Unlock()
}

// Reset drops all cached choices and counters. Called on disconnect.
func (s *Service) Reset() {
	s.mu.Lock()
	s.choices = make(map[string]vote.Choice)
	s.stats = make(map[string]vote.Stats)
	s.mu.Unlock()
}
