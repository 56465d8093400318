// Package app assembles the portal: wallet session, catalog pipelines, vote
// and listing flows, all over the storage ports.
package app

import (
	"context"
	"time"

	"github.com/arrondavide/psite/internal/app/services/catalog"
	"github.com/arrondavide/psite/internal/app/services/listings"
	"github.com/arrondavide/psite/internal/app/services/votes"
	"github.com/arrondavide/psite/internal/app/services/wallet"
	"github.com/arrondavide/psite/internal/app/storage"
	"github.com/arrondavide/psite/pkg/logger"
)

// Stores groups the persistence ports the portal needs. A single backend
// value (hosted or in-memory) usually implements all four.
type Stores struct {
	Games    storage.GameStore
	Products storage.ProductStore
	Votes    storage.VoteStore
	Objects  storage.ObjectStore
}

// Options tunes the assembled portal.
type Options struct {
	Provider   wallet.Provider
	Sessions   wallet.SessionStore
	ChainID    string
	SessionTTL time.Duration
	PageSize   int
	Log        *logger.Logger
}

// Application is the wired portal.
type Application struct {
	Wallet   *wallet.Manager
	Games    *catalog.Games
	Products *catalog.Products
	Votes    *votes.Service
	Listings *listings.Service

	stores Stores
	log    *logger.Logger
}

// New wires the portal services together. The wallet manager drives the vote
// cache: a new identity hydrates it, a disconnect empties it.
func New(stores Stores, opts Options) *Application {
	log := opts.Log
	if log == nil {
		log = logger.NewDefault("app")
	}
	if opts.PageSize <= 0 {
		opts.PageSize = catalog.DefaultPageSize
	}

	mgr := wallet.New(opts.Provider, opts.Sessions, wallet.Config{
		ChainID: opts.ChainID,
		TTL:     opts.SessionTTL,
	}, log.WithField("service", "wallet"))

	identity := mgr.Address

	a := &Application{
		Wallet:   mgr,
		Games:    catalog.NewGames(stores.Games, opts.PageSize, log.WithField("service", "games")),
		Products: catalog.NewProducts(stores.Products, opts.PageSize, log.WithField("service", "products")),
		Votes:    votes.New(stores.Votes, identity, log.WithField("service", "votes")),
		Listings: listings.New(stores.Games, stores.Products, stores.Objects, identity, log.WithField("service", "listings")),
		stores:   stores,
		log:      log,
	}

	mgr.OnChange(func(address string) {
		if address == "" {
			a.Votes.Reset()
			return
		}
		if err := a.Votes.Hydrate(context.Background()); err != nil {
			log.WithError(err).Warn("vote hydration after identity change failed")
		}
	})

	return a
}

// Start restores any persisted session and loads both catalogs. Failures are
// not fatal; each surface retries on its next interaction.
func (a *Application) Start(ctx context.Context) {
	if err := a.Wallet.Restore(ctx); err != nil {
		a.log.WithError(err).Warn("session restore failed")
	}
	if err := a.Games.Load(ctx); err != nil {
		a.log.WithError(err).Warn("game catalog load failed")
	}
	if err := a.Products.Load(ctx); err != nil {
		a.log.WithError(err).Warn("shop catalog load failed")
	}
}

// WatchVotes subscribes to the backend's vote feed when it offers one, so
// counters refresh without a reload. Returns a no-op teardown otherwise.
func (a *Application) WatchVotes(ctx context.Context) (func(), error) {
	watcher, ok := a.stores.Votes.(storage.VoteWatcher)
	if !ok {
		return func() {}, nil
	}
	return watcher.WatchVotes(ctx, a.Votes.Invalidate)
}
