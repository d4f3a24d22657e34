package models

import "time"

const (
	CategoryWatch   = "watch"
	CategorySneaker = "sneaker"
	CategoryPurse   = "purse"
)

func ValidCategory(c string) bool {
	switch c {
	case CategoryWatch, CategorySneaker, CategoryPurse:
		return true
	}
	return false
}

type Collection struct {
	ID          string    `json:"id" db:"id"`
	UserID      string    `json:"user_id" db:"user_id"`
	Name        string    `json:"name" db:"name"`
	Category    string    `json:"category" db:"category"`
	Description *string   `json:"description,omitempty" db:"description"`
	IsPublic    bool      `json:"is_public" db:"is_public"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
