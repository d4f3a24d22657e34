package models

import "time"

type Message struct {
	ID         string     `json:"id" db:"id"`
	SenderID   string     `json:"sender_id" db:"sender_id"`
	ReceiverID string     `json:"receiver_id" db:"receiver_id"`
	Body       string     `json:"body" db:"body"`
	ReadAt     *time.Time `json:"read_at,omitempty" db:"read_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// Conversation is one row of the inbox: the latest message exchanged with
// a counterpart and how many of theirs are still unread.
type Conversation struct {
	CounterpartID   string    `json:"counterpart_id" db:"counterpart_id"`
	CounterpartName string    `json:"counterpart_name" db:"counterpart_name"`
	LastMessage     string    `json:"last_message" db:"last_message"`
	LastSenderID    string    `json:"last_sender_id" db:"last_sender_id"`
	LastAt          time.Time `json:"last_at" db:"last_at"`
	UnreadCount     int       `json:"unread_count" db:"unread_count"`
}
