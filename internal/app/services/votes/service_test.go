package votes

import (
	"context"
	"errors"
	"testing"

	"github.com/arrondavide/psite/internal/app/domain/game"
	"github.com/arrondavide/psite/internal/app/domain/vote"
	"github.com/arrondavide/psite/internal/app/storage/memory"
)

type countingStore struct {
	*memory.Store
	castCalls  int
	statsCalls int
	castErr    error
}

func (c *countingStore) CastVote(ctx context.Context, gameID, wallet string, choice, previous vote.Choice) error {
	c.castCalls++
	if c.castErr != nil {
		return c.castErr
	}
	return c.Store.CastVote(ctx, gameID, wallet, choice, previous)
}

func (c *countingStore) GameStats(ctx context.Context, gameID string) (vote.Stats, error) {
	c.statsCalls++
	return c.Store.GameStats(ctx, gameID)
}

func identity(addr string) func() string {
	return func() string { return addr }
}

func seedGame(t *testing.T, store *memory.Store) game.Game {
	t.Helper()
	g, err := store.CreateGame(context.Background(), game.Game{Title: "Neon Drift"})
	if err != nil {
		t.Fatalf("seed game: %v", err)
	}
	return g
}

func TestCastRequiresWallet(t *testing.T) {
	store := &countingStore{Store: memory.New()}
	svc := New(store, identity(""), nil)

	_, err := svc.Cast(context.Background(), "g1", vote.Upvote)
	if !errors.Is(err, ErrAuthRequired) {
		t.Fatalf("err = %v, want ErrAuthRequired", err)
	}
	if store.castCalls != 0 || store.statsCalls != 0 {
		t.Fatal("unauthenticated cast must not touch the store")
	}
}

func TestCastRejectsUnknownChoice(t *testing.T) {
	store := &countingStore{Store: memory.New()}
	svc := New(store, identity("0xAbc"), nil)

	_, err := svc.Cast(context.Background(), "g1", vote.Choice("sideways"))
	if !errors.Is(err, ErrInvalidChoice) {
		t.Fatalf("err = %v, want ErrInvalidChoice", err)
	}
	if store.castCalls != 0 {
		t.Fatal("invalid choice must not reach the store")
	}
}

func TestCastStateMachine(t *testing.T) {
	store := &countingStore{Store: memory.New()}
	g := seedGame(t, store.Store)
	svc := New(store, identity("0xABCDEF"), nil)
	ctx := context.Background()

	stats, err := svc.Cast(ctx, g.ID, vote.Upvote)
	if err != nil {
		t.Fatalf("first upvote: %v", err)
	}
	if stats.Upvotes != 1 || stats.Downvotes != 0 {
		t.Fatalf("after upvote: %+v", stats)
	}
	if svc.Choice(g.ID) != vote.Upvote {
		t.Fatalf("choice = %q, want upvote", svc.Choice(g.ID))
	}

	// Switching sides moves both counters in one step.
	stats, err = svc.Cast(ctx, g.ID, vote.Downvote)
	if err != nil {
		t.Fatalf("switch to downvote: %v", err)
	}
	if stats.Upvotes != 0 || stats.Downvotes != 1 {
		t.Fatalf("after switch: %+v", stats)
	}

	// Repeating the current choice is a pure no-op.
	castsBefore := store.castCalls
	stats, err = svc.Cast(ctx, g.ID, vote.Downvote)
	if err != nil {
		t.Fatalf("repeat downvote: %v", err)
	}
	if store.castCalls != castsBefore {
		t.Fatal("repeated choice must not call the store")
	}
	if stats.Upvotes != 0 || stats.Downvotes != 1 {
		t.Fatalf("repeat returned stale counters: %+v", stats)
	}
}

func TestCastFailureLeavesChoiceUntouched(t *testing.T) {
	store := &countingStore{Store: memory.New(), castErr: errors.New("procedure failed")}
	g := seedGame(t, store.Store)
	svc := New(store, identity("0xabc"), nil)

	if _, err := svc.Cast(context.Background(), g.ID, vote.Upvote); err == nil {
		t.Fatal("expected cast error")
	}
	if svc.Choice(g.ID) != vote.None {
		t.Fatalf("choice advanced despite failure: %q", svc.Choice(g.ID))
	}
}

func TestHydrateAndReset(t *testing.T) {
	store := &countingStore{Store: memory.New()}
	g1 := seedGame(t, store.Store)
	g2 := seedGame(t, store.Store)
	ctx := context.Background()

	if err := store.Store.CastVote(ctx, g1.ID, "0xabc", vote.Upvote, vote.None); err != nil {
		t.Fatalf("seed vote: %v", err)
	}
	if err := store.Store.CastVote(ctx, g2.ID, "0xabc", vote.Downvote, vote.None); err != nil {
		t.Fatalf("seed vote: %v", err)
	}

	// Address case must not matter when reading back the wallet's votes.
	svc := New(store, identity("0xABC"), nil)
	if err := svc.Hydrate(ctx); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if svc.Choice(g1.ID) != vote.Upvote || svc.Choice(g2.ID) != vote.Downvote {
		t.Fatalf("hydrated choices = %q %q", svc.Choice(g1.ID), svc.Choice(g2.ID))
	}

	svc.Reset()
	if svc.Choice(g1.ID) != vote.None {
		t.Fatal("reset did not drop cached choices")
	}
}

func TestHydrateWithoutWalletClearsCache(t *testing.T) {
	store := &countingStore{Store: memory.New()}
	svc := New(store, identity(""), nil)

	if err := svc.Hydrate(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	if svc.Choice("any") != vote.None {
		t.Fatal("expected empty cache")
	}
}
