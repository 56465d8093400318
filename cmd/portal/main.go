package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/arrondavide/psite/infra/supabase"
	"github.com/arrondavide/psite/internal/app"
	"github.com/arrondavide/psite/internal/app/domain/game"
	"github.com/arrondavide/psite/internal/app/domain/product"
	"github.com/arrondavide/psite/internal/app/services/wallet"
	"github.com/arrondavide/psite/internal/app/storage/memory"
	"github.com/arrondavide/psite/internal/app/storage/supabasestore"
	"github.com/arrondavide/psite/internal/config"
	"github.com/arrondavide/psite/pkg/logger"
)

func main() {
	var (
		configPath = flag.String("config", "config/portal.yaml", "Path to portal config")
		envFile    = flag.String("env", ".env", "Path to .env with Supabase credentials")
		devMode    = flag.Bool("dev", false, "Run against the in-memory store instead of the hosted backend")
	)
	flag.Parse()

	// Missing .env is fine; deployment sets real environment variables.
	_ = godotenv.Load(*envFile)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.NewDefault("portal").WithError(err).Error("load config")
		os.Exit(1)
	}

	log := logger.New("portal", os.Stderr, cfg.Portal.LogLevel)

	stores, err := buildStores(cfg, *devMode)
	if err != nil {
		log.WithError(err).Error("build stores")
		os.Exit(1)
	}

	portal := app.New(stores, app.Options{
		Sessions:   wallet.NewFileStore(cfg.Wallet.SessionFile),
		ChainID:    cfg.Wallet.ChainID,
		SessionTTL: cfg.Wallet.SessionTTL.Std(),
		PageSize:   cfg.Portal.PageSize,
		Log:        log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	portal.Start(ctx)

	if teardown, err := portal.WatchVotes(ctx); err != nil {
		log.WithError(err).Warn("live vote feed unavailable")
	} else {
		defer teardown()
	}

	srv := &http.Server{
		Addr:    cfg.Portal.ListenAddr,
		Handler: newServer(portal, log).routes(),
	}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	log.WithField("addr", cfg.Portal.ListenAddr).Info("portal preview listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Error("serve")
		os.Exit(1)
	}
}

func buildStores(cfg config.Config, dev bool) (app.Stores, error) {
	if dev {
		store := memory.New()
		seedFixtures(store)
		return app.Stores{Games: store, Products: store, Votes: store, Objects: store}, nil
	}

	client, err := supabase.New(supabase.Config{
		ProjectURL: cfg.Supabase.ProjectURL,
		AnonKey:    cfg.Supabase.AnonKey,
	})
	if err != nil {
		return app.Stores{}, err
	}

	store, err := supabasestore.New(client, cfg.Supabase.Bucket)
	if err != nil {
		return app.Stores{}, err
	}
	return app.Stores{Games: store, Products: store, Votes: store, Objects: store}, nil
}

// seedFixtures fills the dev store with enough rows to exercise trending,
// filtering and pagination in the preview.
func seedFixtures(store *memory.Store) {
	ctx := context.Background()

	for i := 1; i <= 12; i++ {
		status := game.StatusNormal
		if i%4 == 0 {
			status = game.StatusTrending
		}
		store.CreateGame(ctx, game.Game{
			Title:         fmt.Sprintf("Arcade Game %02d", i),
			Description:   "Dev fixture",
			GameURL:       fmt.Sprintf("https://play.example.com/game-%02d", i),
			ThumbnailURL:  fmt.Sprintf("https://cdn.example.com/game-%02d.png", i),
			WalletAddress: "0xdev",
			Status:        status,
		})
	}

	categories := product.Categories
	for i := 1; i <= 27; i++ {
		store.CreateProduct(ctx, product.Product{
			Name:                fmt.Sprintf("Listing %02d", i),
			Description:         "Dev fixture",
			Price:               float64(5 * i),
			ImageURLs:           []string{fmt.Sprintf("https://cdn.example.com/listing-%02d.jpg", i)},
			TelegramLink:        "https://t.me/devseller",
			SellerWalletAddress: "0xdev",
			Category:            categories[i%len(categories)],
		})
	}
}
