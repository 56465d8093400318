package listings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arrondavide/psite/internal/app/domain/product"
)

// MaxImages is the per-listing photo limit, enforced before any file is
// touched.
const MaxImages = 5

// ValidationError reports a form field that failed local validation. It is
// surfaced inline and never reaches the network.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// GameSubmission is the game upload form.
type GameSubmission struct {
	Title        string
	Description  string
	GameURL      string
	ThumbnailURL string
	TwitterURL   string
	DiscordURL   string
}

// Validate checks the form locally. Social links are optional but must be
// web URLs when present.
func (s GameSubmission) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if strings.TrimSpace(s.Description) == "" {
		return &ValidationError{Field: "description", Message: "description is required"}
	}
	if !isWebURL(s.GameURL) {
		return &ValidationError{Field: "game_url", Message: "a valid game URL is required"}
	}
	if !isWebURL(s.ThumbnailURL) {
		return &ValidationError{Field: "thumbnail_url", Message: "a valid thumbnail URL is required"}
	}
	if s.TwitterURL != "" && !isWebURL(s.TwitterURL) {
		return &ValidationError{Field: "twitter_url", Message: "must be a web URL"}
	}
	if s.DiscordURL != "" && !isWebURL(s.DiscordURL) {
		return &ValidationError{Field: "discord_url", Message: "must be a web URL"}
	}
	return nil
}

// ProductSubmission is the seller listing form. Photos arrive either as
// binary files to compress and upload, or as ready-made web URLs.
type ProductSubmission struct {
	Name         string
	Description  string
	Price        string
	Category     string
	Images       [][]byte
	ImageURLs    []string
	TelegramLink string
	WhatsappLink string
}

// Validate checks the form locally: required text, a positive price, a
// category from the fixed set, at least one contact method and at least one
// image. The image count cap applies before any file is read.
func (s ProductSubmission) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if strings.TrimSpace(s.Description) == "" {
		return &ValidationError{Field: "description", Message: "description is required"}
	}
	if _, err := s.ParsePrice(); err != nil {
		return err
	}
	if !product.ValidCategory(s.Category) {
		return &ValidationError{Field: "category", Message: "select a category"}
	}
	if s.TelegramLink == "" && s.WhatsappLink == "" {
		return &ValidationError{Field: "contact", Message: "at least one contact method is required"}
	}
	if len(s.Images)+len(s.ImageURLs) == 0 {
		return &ValidationError{Field: "images", Message: "at least one image is required"}
	}
	if len(s.Images)+len(s.ImageURLs) > MaxImages {
		return &ValidationError{Field: "images", Message: fmt.Sprintf("maximum %d images", MaxImages)}
	}
	for _, u := range s.ImageURLs {
		if !isWebURL(u) {
			return &ValidationError{Field: "images", Message: "image URLs must start with http(s)"}
		}
	}
	return nil
}

// ParsePrice converts the raw price field, rejecting anything that is not a
// positive number.
func (s ProductSubmission) ParsePrice() (float64, error) {
	p, err := strconv.ParseFloat(strings.TrimSpace(s.Price), 64)
	if err != nil || p <= 0 {
		return 0, &ValidationError{Field: "price", Message: "valid price is required"}
	}
	return p, nil
}

func isWebURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
