package menu

import (
	"time"

	"serveur/internal/core"
)

// Menu is one persisted restaurant menu. Document holds the full
// MenuDocument including translations and pairings.
type Menu struct {
	ID             int64          `json:"id"`
	RestaurantName string         `json:"restaurant_name"`
	Slug           string         `json:"slug"`
	PDFPath        string         `json:"pdf_path"`
	Languages      []string       `json:"languages"`
	Document       *core.Document `json:"menu"`
	CreatedAt      time.Time      `json:"created_at"`
}

// CreateInput is a validated-on-entry upload request.
type CreateInput struct {
	RestaurantName string
	Languages      []string
	Filename       string
	ContentType    string
	PDF            []byte
}

type CreateResult struct {
	MenuID    int64  `json:"menu_id"`
	Slug      string `json:"slug"`
	PublicURL string `json:"public_url"`
	QRURL     string `json:"qr_url"`
}

type SitemapEntry struct {
	Slug      string
	UpdatedAt time.Time
}
