package models

import "time"

type WishlistItem struct {
	ID             string    `json:"id" db:"id"`
	UserID         string    `json:"user_id" db:"user_id"`
	Category       string    `json:"category" db:"category"`
	Brand          string    `json:"brand" db:"brand"`
	Model          string    `json:"model" db:"model"`
	Reference      *string   `json:"reference,omitempty" db:"reference"`
	TargetPrice    *float64  `json:"target_price,omitempty" db:"target_price"`
	Priority       int       `json:"priority" db:"priority"`
	URL            *string   `json:"url,omitempty" db:"url"`
	Notes          *string   `json:"notes,omitempty" db:"notes"`
	AcquiredItemID *string   `json:"acquired_item_id,omitempty" db:"acquired_item_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

type AcquireRequest struct {
	CollectionID  *string  `json:"collection_id"`
	PurchasePrice *float64 `json:"purchase_price"`
	PurchaseDate  *Date    `json:"purchase_date"`
}
