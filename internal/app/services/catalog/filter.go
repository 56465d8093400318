// Package catalog implements the browse pipeline shared by the games page
// and the shop: one select-all against the hosted table, pure client-side
// filtering, and fixed-size page windows.
package catalog

import (
	"strings"

	"github.com/arrondavide/psite/internal/app/domain/game"
	"github.com/arrondavide/psite/internal/app/domain/product"
)

// Filters holds the browse inputs. The zero value matches everything.
type Filters struct {
	// Query is matched case-insensitively as a substring of the entity's
	// display name.
	Query string
	// Category must equal the entity's category exactly; empty matches all.
	Category string
	// MinPrice and MaxPrice are inclusive bounds; nil is unconstrained.
	MinPrice *float64
	MaxPrice *float64
}

// matchText reports whether name contains the query, ignoring case.
func (f Filters) matchText(name string) bool {
	if f.Query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(f.Query))
}

func (f Filters) matchCategory(category string) bool {
	return f.Category == "" || f.Category == category
}

func (f Filters) matchPrice(price float64) bool {
	if f.MinPrice != nil && price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && price > *f.MaxPrice {
		return false
	}
	return true
}

// MatchGame applies the text filter to a game. Games carry no category or
// price, so those inputs are ignored.
func (f Filters) MatchGame(g game.Game) bool {
	return f.matchText(g.Title)
}

// MatchProduct applies all filters to a shop listing.
func (f Filters) MatchProduct(p product.Product) bool {
	return f.matchText(p.Name) && f.matchCategory(p.Category) && f.matchPrice(p.Price)
}
