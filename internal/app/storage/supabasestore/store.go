// Package supabasestore implements the storage ports on top of the hosted
// Supabase project. Tables and the vote procedure are fixed by the backend
// schema; this package only translates between domain types and rows.
package supabasestore

import (
	"context"
	"fmt"

	"github.com/arrondavide/psite/infra/supabase"
	"github.com/arrondavide/psite/internal/app/domain/game"
	"github.com/arrondavide/psite/internal/app/domain/product"
	"github.com/arrondavide/psite/internal/app/domain/session"
	"github.com/arrondavide/psite/internal/app/domain/vote"
	"github.com/arrondavide/psite/internal/app/storage"
)

const (
	tableGames     = "games"
	tableShop      = "shop"
	tableGameVotes = "game_votes"
	viewGameStats  = "game_stats"
	rpcHandleVote  = "handle_vote"
)

// DefaultBucket is the public bucket listing images are uploaded to.
const DefaultBucket = "product-images"

// Store implements the storage ports against a Supabase project.
type Store struct {
	client *supabase.Client
	bucket string
}

var _ storage.GameStore = (*Store)(nil)
var _ storage.ProductStore = (*Store)(nil)
var _ storage.VoteStore = (*Store)(nil)
var _ storage.ObjectStore = (*Store)(nil)
var _ storage.VoteWatcher = (*Store)(nil)

// New creates a store over the given client. An empty bucket selects
// DefaultBucket.
func New(client *supabase.Client, bucket string) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("supabase client is required")
	}
	if bucket == "" {
		bucket = DefaultBucket
	}
	return &Store{client: client, bucket: bucket}, nil
}

// GameStore implementation ----------------------------------------------------

func (s *Store) ListGames(ctx context.Context) ([]game.Game, error) {
	var games []game.Game
	err := s.client.Database().From(tableGames).
		Select("*").
		Order("created_at", supabase.OrderDesc).
		ExecuteInto(ctx, &games)
	return games, err
}

func (s *Store) TrendingGames(ctx context.Context, limit int) ([]game.Game, error) {
	var games []game.Game
	err := s.client.Database().From(tableGames).
		Select("*").
		Eq("status", game.StatusTrending).
		Order("created_at", supabase.OrderDesc).
		Limit(limit).
		ExecuteInto(ctx, &games)
	return games, err
}

func (s *Store) ListGamesByOwner(ctx context.Context, wallet string) ([]game.Game, error) {
	var games []game.Game
	err := s.client.Database().From(tableGames).
		Select("*").
		Eq("wallet_address", session.Normalize(wallet)).
		Order("created_at", supabase.OrderDesc).
		ExecuteInto(ctx, &games)
	return games, err
}

func (s *Store) CreateGame(ctx context.Context, g game.Game) (game.Game, error) {
	var created []game.Game
	err := s.client.Database().From(tableGames).
		Insert([]game.Game{g}).
		ExecuteInto(ctx, &created)
	if err != nil {
		return game.Game{}, err
	}
	if len(created) == 0 {
		return game.Game{}, fmt.Errorf("insert returned no row")
	}
	return created[0], nil
}

func (s *Store) DeleteGame(ctx context.Context, id, wallet string) error {
	var deleted []game.Game
	err := s.client.Database().From(tableGames).
		Delete().
		Eq("id", id).
		Eq("wallet_address", session.Normalize(wallet)).
		ExecuteInto(ctx, &deleted)
	if err != nil {
		return err
	}
	// PostgREST answers 2xx even when the filter matched nothing.
	if len(deleted) == 0 {
		return fmt.Errorf("game %s for wallet %s: %w", id, wallet, storage.ErrNotFound)
	}
	return nil
}

// ProductStore implementation -------------------------------------------------

func (s *Store) ListProducts(ctx context.Context) ([]product.Product, error) {
	var products []product.Product
	err := s.client.Database().From(tableShop).
		Select("*").
		Order("created_at", supabase.OrderDesc).
		ExecuteInto(ctx, &products)
	return products, err
}

func (s *Store) ListProductsBySeller(ctx context.Context, wallet string) ([]product.Product, error) {
	var products []product.Product
	err := s.client.Database().From(tableShop).
		Select("*").
		Eq("seller_wallet_address", session.Normalize(wallet)).
		Order("created_at", supabase.OrderDesc).
		ExecuteInto(ctx, &products)
	return products, err
}

func (s *Store) CreateProduct(ctx context.Context, p product.Product) (product.Product, error) {
	var created []product.Product
	err := s.client.Database().From(tableShop).
		Insert([]product.Product{p}).
		ExecuteInto(ctx, &created)
	if err != nil {
		return product.Product{}, err
	}
	if len(created) == 0 {
		return product.Product{}, fmt.Errorf("insert returned no row")
	}
	return created[0], nil
}

func (s *Store) DeleteProduct(ctx context.Context, id, wallet string) error {
	var deleted []product.Product
	err := s.client.Database().From(tableShop).
		Delete().
		Eq("id", id).
		Eq("seller_wallet_address", session.Normalize(wallet)).
		ExecuteInto(ctx, &deleted)
	if err != nil {
		return err
	}
	if len(deleted) == 0 {
		return fmt.Errorf("product %s for wallet %s: %w", id, wallet, storage.ErrNotFound)
	}
	return nil
}

// VoteStore implementation ----------------------------------------------------

func (s *Store) CastVote(ctx context.Context, gameID, wallet string, choice, previous vote.Choice) error {
	params := map[string]interface{}{
		"p_game_id":        gameID,
		"p_wallet_address": session.Normalize(wallet),
		"p_vote_type":      string(choice),
	}
	if previous == vote.None {
		params["p_previous_vote"] = nil
	} else {
		params["p_previous_vote"] = string(previous)
	}

	_, err := s.client.Database().RPC(ctx, rpcHandleVote, params)
	return err
}

func (s *Store) GameStats(ctx context.Context, gameID string) (vote.Stats, error) {
	var rows []vote.Stats
	err := s.client.Database().From(viewGameStats).
		Select("*").
		Eq("game_id", gameID).
		ExecuteInto(ctx, &rows)
	if err != nil {
		return vote.Stats{}, err
	}
	// The view has no row until the first vote lands.
	if len(rows) == 0 {
		return vote.Stats{GameID: gameID}, nil
	}
	return rows[0], nil
}

func (s *Store) VotesByWallet(ctx context.Context, wallet string) (map[string]vote.Choice, error) {
	var rows []struct {
		GameID   string `json:"game_id"`
		VoteType string `json:"vote_type"`
	}
	err := s.client.Database().From(tableGameVotes).
		Select("game_id,vote_type").
		Eq("wallet_address", session.Normalize(wallet)).
		ExecuteInto(ctx, &rows)
	if err != nil {
		return nil, err
	}

	out := make(map[string]vote.Choice, len(rows))
	for _, r := range rows {
		out[r.GameID] = vote.Choice(r.VoteType)
	}
	return out, nil
}

// WatchVotes subscribes to vote table changes and reports the affected game
// id after every committed change. It blocks until the connection is
// established and returns the channel teardown function.
func (s *Store) WatchVotes(ctx context.Context, fn func(gameID string)) (func(), error) {
	rt := s.client.Realtime()
	if err := rt.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect realtime: %w", err)
	}

	ch, err := rt.SubscribeToPostgresChanges(ctx, supabase.PostgresChangesConfig{
		Table: tableGameVotes,
	}, func(event *supabase.RealtimeEvent) {
		record, ok := event.Payload["record"].(map[string]any)
		if !ok {
			// Deletes carry the row under old_record.
			record, ok = event.Payload["old_record"].(map[string]any)
		}
		if !ok {
			return
		}
		if gameID, ok := record["game_id"].(string); ok && gameID != "" {
			fn(gameID)
		}
	})
	if err != nil {
		rt.Disconnect()
		return nil, fmt.Errorf("subscribe to vote changes: %w", err)
	}

	teardown := func() {
		ch.Unsubscribe(context.Background())
		rt.Disconnect()
	}
	return teardown, nil
}

// ObjectStore implementation --------------------------------------------------

func (s *Store) Put(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	return s.client.Storage().Upload(ctx, s.bucket, path, data, &supabase.UploadOptions{
		ContentType:  contentType,
		CacheControl: "3600",
	})
}

func (s *Store) Remove(ctx context.Context, paths []string) error {
	return s.client.Storage().Remove(ctx, s.bucket, paths)
}
