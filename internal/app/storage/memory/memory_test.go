package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/arrondavide/psite/internal/app/domain/game"
	"github.com/arrondavide/psite/internal/app/domain/product"
	"github.com/arrondavide/psite/internal/app/domain/vote"
	"github.com/arrondavide/psite/internal/app/storage"
)

func TestListGamesNewestFirst(t *testing.T) {
	store := New()
	ctx := context.Background()

	first, _ := store.CreateGame(ctx, game.Game{Title: "first"})
	second, _ := store.CreateGame(ctx, game.Game{Title: "second"})

	games, err := store.ListGames(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(games) != 2 || games[0].ID != second.ID || games[1].ID != first.ID {
		t.Fatalf("order = %v", games)
	}
}

func TestDeleteUnmatchedRowReportsNotFound(t *testing.T) {
	store := New()
	ctx := context.Background()

	g, _ := store.CreateGame(ctx, game.Game{Title: "g", WalletAddress: "0xOwner"})
	p, _ := store.CreateProduct(ctx, product.Product{Name: "p", SellerWalletAddress: "0xSeller"})

	if err := store.DeleteGame(ctx, g.ID, "0xsomeoneelse"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("foreign game delete err = %v, want ErrNotFound", err)
	}
	if err := store.DeleteProduct(ctx, "no-such-id", "0xseller"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("missing product delete err = %v, want ErrNotFound", err)
	}

	if err := store.DeleteGame(ctx, g.ID, "0xOWNER"); err != nil {
		t.Fatalf("owner game delete: %v", err)
	}
	if err := store.DeleteProduct(ctx, p.ID, "0xseller"); err != nil {
		t.Fatalf("seller product delete: %v", err)
	}
}

func TestCastVoteRejectsStalePrevious(t *testing.T) {
	store := New()
	ctx := context.Background()
	g, _ := store.CreateGame(ctx, game.Game{Title: "g"})

	if err := store.CastVote(ctx, g.ID, "0xabc", vote.Upvote, vote.None); err != nil {
		t.Fatalf("first vote: %v", err)
	}

	// A second client acting on an outdated choice must not corrupt counters.
	err := store.CastVote(ctx, g.ID, "0xabc", vote.Downvote, vote.None)
	if err == nil {
		t.Fatal("expected stale previous to be rejected")
	}

	stats, _ := store.GameStats(ctx, g.ID)
	if stats.Upvotes != 1 || stats.Downvotes != 0 {
		t.Fatalf("counters corrupted: %+v", stats)
	}
}

func TestCastVoteRejectsIllegalTransition(t *testing.T) {
	store := New()
	ctx := context.Background()
	g, _ := store.CreateGame(ctx, game.Game{Title: "g"})

	if err := store.CastVote(ctx, g.ID, "0xabc", vote.Upvote, vote.Upvote); err == nil {
		t.Fatal("repeating a choice must be rejected by the procedure")
	}
	if err := store.CastVote(ctx, g.ID, "0xabc", vote.None, vote.Upvote); err == nil {
		t.Fatal("unvoting must be rejected by the procedure")
	}
}

func TestObjectRoundTrip(t *testing.T) {
	store := New()
	ctx := context.Background()

	url, err := store.Put(ctx, "0xabc/pic.jpg", []byte("bytes"), "image/jpeg")
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if url == "" {
		t.Fatal("expected public URL")
	}

	data, ok := store.Object("0xabc/pic.jpg")
	if !ok || string(data) != "bytes" {
		t.Fatalf("object = %q, ok = %v", data, ok)
	}

	if err := store.Remove(ctx, []string{"0xabc/pic.jpg"}); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, ok := store.Object("0xabc/pic.jpg"); ok {
		t.Fatal("object not removed")
	}
}
