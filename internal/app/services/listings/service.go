// Package listings owns the submission and management flows for games and
// shop products: local form validation, sequential photo upload with
// progress, record insert, and owner-scoped deletes.
package listings

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/arrondavide/psite/internal/app/domain/game"
	"github.com/arrondavide/psite/internal/app/domain/product"
	"github.com/arrondavide/psite/internal/app/domain/session"
	"github.com/arrondavide/psite/internal/app/storage"
	"github.com/arrondavide/psite/internal/imaging"
	"github.com/arrondavide/psite/pkg/logger"
)

// ErrAuthRequired is returned when a submission or delete is attempted
// without a connected wallet.
var ErrAuthRequired = errors.New("listings: wallet connection required")

// UploadError reports a failed photo upload. The submission aborts at the
// first failure; photos uploaded before it stay in storage.
type UploadError struct {
	Index int
	Err   error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload image %d: %v", e.Index+1, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// InsertError reports a record insert that failed after its photos were
// already uploaded. Uploaded carries their public URLs so the caller can
// report or retry.
type InsertError struct {
	Uploaded []string
	Err      error
}

func (e *InsertError) Error() string {
	return fmt.Sprintf("insert listing after %d uploads: %v", len(e.Uploaded), e.Err)
}

func (e *InsertError) Unwrap() error { return e.Err }

// ProgressFunc receives the upload completion percentage, 0 through 100.
type ProgressFunc func(percent int)

// Compressor bounds and re-encodes a photo before upload.
type Compressor func(data []byte) ([]byte, error)

// Service runs the listing flows over the storage ports.
type Service struct {
	games    storage.GameStore
	products storage.ProductStore
	objects  storage.ObjectStore
	identity func() string
	compress Compressor
	log      *logger.Logger
}

// New creates the listing service. identity reports the connected wallet and
// may return empty.
func New(games storage.GameStore, products storage.ProductStore, objects storage.ObjectStore, identity func() string, log *logger.Logger) *Service {
	if log == nil {
		log = logger.NewDefault("listings")
	}
	if identity == nil {
		identity = func() string { return "" }
	}
	return &Service{
		games:    games,
		products: products,
		objects:  objects,
		identity: identity,
		compress: imaging.Compress,
		log:      log,
	}
}

func (s *Service) wallet() (string, error) {
	w := session.Normalize(s.identity())
	if w == "" {
		return "", ErrAuthRequired
	}
	return w, nil
}

// SubmitGame validates the form and inserts the game record. Status always
// starts normal; curation happens elsewhere.
func (s *Service) SubmitGame(ctx context.Context, sub GameSubmission) (game.Game, error) {
	wallet, err := s.wallet()
	if err != nil {
		return game.Game{}, err
	}
	if err := sub.Validate(); err != nil {
		return game.Game{}, err
	}

	created, err := s.games.CreateGame(ctx, game.Game{
		Title:         sub.Title,
		Description:   sub.Description,
		GameURL:       sub.GameURL,
		ThumbnailURL:  sub.ThumbnailURL,
		TwitterURL:    sub.TwitterURL,
		DiscordURL:    sub.DiscordURL,
		WalletAddress: wallet,
		Status:        game.StatusNormal,
	})
	if err != nil {
		return game.Game{}, &InsertError{Err: err}
	}

	s.log.WithField("game_id", created.ID).Info("game listed")
	return created, nil
}

// SubmitProduct validates the form, uploads binary photos one at a time
// while reporting progress, then inserts the listing. The first upload
// failure aborts the whole submission; no record is inserted.
func (s *Service) SubmitProduct(ctx context.Context, sub ProductSubmission, progress ProgressFunc) (product.Product, error) {
	wallet, err := s.wallet()
	if err != nil {
		return product.Product{}, err
	}
	if err := sub.Validate(); err != nil {
		return product.Product{}, err
	}
	price, err := sub.ParsePrice()
	if err != nil {
		return product.Product{}, err
	}
	if progress == nil {
		progress = func(int) {}
	}

	urls := make([]string, 0, len(sub.Images)+len(sub.ImageURLs))
	urls = append(urls, sub.ImageURLs...)

	progress(0)
	for i, raw := range sub.Images {
		compressed, err := s.compress(raw)
		if err != nil {
			return product.Product{}, &UploadError{Index: i, Err: err}
		}
		path := fmt.Sprintf("%s/%s.jpg", wallet, uuid.NewString())
		url, err := s.objects.Put(ctx, path, compressed, "image/jpeg")
		if err != nil {
			return product.Product{}, &UploadError{Index: i, Err: err}
		}
		urls = append(urls, url)
		progress((i + 1) * 100 / len(sub.Images))
	}
	if len(sub.Images) == 0 {
		progress(100)
	}

	created, err := s.products.CreateProduct(ctx, product.Product{
		Name:                sub.Name,
		Description:         sub.Description,
		Price:               price,
		ImageURLs:           urls,
		TelegramLink:        sub.TelegramLink,
		WhatsappLink:        sub.WhatsappLink,
		SellerWalletAddress: wallet,
		Category:            sub.Category,
	})
	if err != nil {
		// Photos already uploaded are not rolled back.
		return product.Product{}, &InsertError{Uploaded: urls, Err: err}
	}

	s.log.WithField("product_id", created.ID).Info("product listed")
	return created, nil
}

// DeleteGame removes one of the caller's games.
func (s *Service) DeleteGame(ctx context.Context, id string) error {
	wallet, err := s.wallet()
	if err != nil {
		return err
	}
	return s.games.DeleteGame(ctx, id, wallet)
}

// DeleteProduct removes one of the caller's listings.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	wallet, err := s.wallet()
	if err != nil {
		return err
	}
	return s.products.DeleteProduct(ctx, id, wallet)
}
