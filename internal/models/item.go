package models

import "time"

const (
	StatusActive = "active"
	StatusSold   = "sold"
	StatusTraded = "traded"
	StatusLost   = "lost"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusSold, StatusTraded, StatusLost:
		return true
	}
	return false
}

type Item struct {
	ID               string     `json:"id" db:"id"`
	UserID           string     `json:"user_id" db:"user_id"`
	CollectionID     *string    `json:"collection_id,omitempty" db:"collection_id"`
	Category         string     `json:"category" db:"category"`
	Brand            string     `json:"brand" db:"brand"`
	Model            string     `json:"model" db:"model"`
	Reference        *string    `json:"reference,omitempty" db:"reference"`
	SerialNumber     *string    `json:"serial_number,omitempty" db:"serial_number"`
	Nickname         *string    `json:"nickname,omitempty" db:"nickname"`
	PurchaseDate     *Date      `json:"purchase_date,omitempty" db:"purchase_date"`
	PurchasePrice    *float64   `json:"purchase_price,omitempty" db:"purchase_price"`
	CurrentValue     *float64   `json:"current_value,omitempty" db:"current_value"`
	ValueUpdatedAt   *time.Time `json:"value_updated_at,omitempty" db:"value_updated_at"`
	Condition        *string    `json:"condition,omitempty" db:"condition"`
	Status           string     `json:"status" db:"status"`
	SoldDate         *Date      `json:"sold_date,omitempty" db:"sold_date"`
	SoldPrice        *float64   `json:"sold_price,omitempty" db:"sold_price"`
	WarrantyExpiry   *Date      `json:"warranty_expiry,omitempty" db:"warranty_expiry"`
	WaterResistanceM *int       `json:"water_resistance_m,omitempty" db:"water_resistance_m"`
	Metadata         Metadata   `json:"metadata,omitempty" db:"metadata"`
	ImageURL         *string    `json:"image_url,omitempty" db:"image_url"`
	AIImageURL       *string    `json:"ai_image_url,omitempty" db:"ai_image_url"`
	Notes            *string    `json:"notes,omitempty" db:"notes"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// Disposed reports whether the item has left the collection.
func (i Item) Disposed() bool {
	return i.Status == StatusSold || i.Status == StatusTraded || i.Status == StatusLost
}

// DisplayName is used in prompts and notifications.
func (i Item) DisplayName() string {
	name := i.Brand + " " + i.Model
	if i.Reference != nil && *i.Reference != "" {
		name += " " + *i.Reference
	}
	return name
}

type ItemFilter struct {
	CollectionID string
	Status       string
	Category     string
}

type SellRequest struct {
	Date   Date     `json:"date"`
	Price  *float64 `json:"price"`
	Status string   `json:"status"`
}

const (
	PriceSourceManual = "manual"
	PriceSourceAI     = "ai"
	PriceSourceScrape = "scrape"
)

type PricePoint struct {
	ID         string    `json:"id" db:"id"`
	ItemID     string    `json:"item_id" db:"item_id"`
	Value      float64   `json:"value" db:"value"`
	Source     string    `json:"source" db:"source"`
	RecordedAt time.Time `json:"recorded_at" db:"recorded_at"`
}
