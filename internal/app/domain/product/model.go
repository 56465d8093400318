// Package product defines the peer-to-peer shop listing entity.
package product

import "time"

// Categories is the fixed set a listing must choose from.
var Categories = []string{
	"gaming",
	"collectibles",
	"accounts",
	"hardware",
	"other",
}

// ValidCategory reports whether c is one of the fixed listing categories.
func ValidCategory(c string) bool {
	for _, cat := range Categories {
		if c == cat {
			return true
		}
	}
	return false
}

// Product represents one row of the hosted shop table. Rows are created by
// the listing submission flow and deleted only by their owning wallet.
type Product struct {
	ID                  string    `json:"id,omitempty"`
	Name                string    `json:"name"`
	Description         string    `json:"description"`
	Price               float64   `json:"price"`
	ImageURLs           []string  `json:"image_urls"`
	TelegramLink        string    `json:"telegram_link,omitempty"`
	WhatsappLink        string    `json:"whatsapp_link,omitempty"`
	SellerWalletAddress string    `json:"seller_wallet_address"`
	Category            string    `json:"category"`
	Verified            bool      `json:"verified"`
	CreatedAt           time.Time `json:"created_at,omitempty"`
}
