package models

import "time"

type WearEntry struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	ItemID    string    `json:"item_id" db:"item_id"`
	WornOn    Date      `json:"worn_on" db:"worn_on"`
	Days      float64   `json:"days" db:"days"`
	TripID    *string   `json:"trip_id,omitempty" db:"trip_id"`
	EventID   *string   `json:"event_id,omitempty" db:"event_id"`
	Notes     *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type WearInput struct {
	ItemID  string  `json:"item_id"`
	WornOn  Date    `json:"worn_on"`
	Days    float64 `json:"days"`
	TripID  *string `json:"trip_id"`
	EventID *string `json:"event_id"`
	Notes   *string `json:"notes"`
}

type WearFilter struct {
	From   *Date
	To     *Date
	ItemID string
	TripID string
}

// WearResult is the saved entry together with any entries that were
// downgraded to make room for it.
type WearResult struct {
	Entry    WearEntry   `json:"entry"`
	Adjusted []WearEntry `json:"adjusted"`
}

type WearDay struct {
	Date      Date        `json:"date"`
	Entries   []WearEntry `json:"entries"`
	Remaining float64     `json:"remaining"`
}
