package app

import (
	"context"
	"testing"
	"time"

	"github.com/arrondavide/psite/internal/app/domain/game"
	"github.com/arrondavide/psite/internal/app/domain/session"
	"github.com/arrondavide/psite/internal/app/domain/vote"
	"github.com/arrondavide/psite/internal/app/services/wallet"
	"github.com/arrondavide/psite/internal/app/storage/memory"
)

type stubProvider struct {
	accounts []string
	chainID  string
}

func (p *stubProvider) Accounts(context.Context) ([]string, error)        { return p.accounts, nil }
func (p *stubProvider) RequestAccounts(context.Context) ([]string, error) { return p.accounts, nil }
func (p *stubProvider) ChainID(context.Context) (string, error)           { return p.chainID, nil }
func (p *stubProvider) SwitchChain(context.Context, string) error         { return nil }

func memStores(store *memory.Store) Stores {
	return Stores{Games: store, Products: store, Votes: store, Objects: store}
}

func TestStartRestoresSessionAndHydratesVotes(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	g, _ := store.CreateGame(ctx, game.Game{Title: "Neon Drift"})
	if err := store.CastVote(ctx, g.ID, "0xabc", vote.Upvote, vote.None); err != nil {
		t.Fatalf("seed vote: %v", err)
	}

	sessions := wallet.NewMemoryStore()
	sessions.Save(session.Record{Address: "0xabc", SavedAt: time.Now()})

	a := New(memStores(store), Options{
		Provider: &stubProvider{accounts: []string{"0xABC"}, chainID: wallet.DefaultChainID},
		Sessions: sessions,
	})
	a.Start(ctx)

	if !a.Wallet.Connected() {
		t.Fatal("session not restored")
	}
	if a.Votes.Choice(g.ID) != vote.Upvote {
		t.Fatalf("votes not hydrated, choice = %q", a.Votes.Choice(g.ID))
	}

	page, info := a.Games.Page()
	if len(page) != 1 || info.Total != 1 {
		t.Fatalf("catalog not loaded: %d items", len(page))
	}
}

func TestDisconnectEmptiesVoteCache(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	g, _ := store.CreateGame(ctx, game.Game{Title: "Neon Drift"})

	a := New(memStores(store), Options{
		Provider: &stubProvider{accounts: []string{"0xabc"}, chainID: wallet.DefaultChainID},
		Sessions: wallet.NewMemoryStore(),
	})
	a.Start(ctx)

	if err := a.Wallet.Connect(ctx); err != nil {
		t.Fatalf("connect: %v", err)
	}
	if _, err := a.Votes.Cast(ctx, g.ID, vote.Upvote); err != nil {
		t.Fatalf("cast: %v", err)
	}

	a.Wallet.Disconnect()
	if a.Votes.Choice(g.ID) != vote.None {
		t.Fatal("disconnect must empty the vote cache")
	}

	if _, err := a.Votes.Cast(ctx, g.ID, vote.Upvote); err == nil {
		t.Fatal("voting after disconnect must require a wallet")
	}
}
