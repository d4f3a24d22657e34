package models

import "time"

const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
	FriendshipDeclined = "declined"
)

type Friendship struct {
	ID          string    `json:"id" db:"id"`
	RequesterID string    `json:"requester_id" db:"requester_id"`
	AddresseeID string    `json:"addressee_id" db:"addressee_id"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Other returns the participant that is not userID.
func (f Friendship) Other(userID string) string {
	if f.RequesterID == userID {
		return f.AddresseeID
	}
	return f.RequesterID
}

type Post struct {
	ID           string    `json:"id" db:"id"`
	UserID       string    `json:"user_id" db:"user_id"`
	ItemID       *string   `json:"item_id,omitempty" db:"item_id"`
	Body         string    `json:"body" db:"body"`
	ImageURL     *string   `json:"image_url,omitempty" db:"image_url"`
	Sentiment    *float64  `json:"sentiment,omitempty" db:"sentiment"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	AuthorName   string    `json:"author_name" db:"author_name"`
	LikeCount    int       `json:"like_count" db:"like_count"`
	CommentCount int       `json:"comment_count" db:"comment_count"`
	LikedByMe    bool      `json:"liked_by_me" db:"liked_by_me"`
}

type Comment struct {
	ID         string    `json:"id" db:"id"`
	PostID     string    `json:"post_id" db:"post_id"`
	UserID     string    `json:"user_id" db:"user_id"`
	Body       string    `json:"body" db:"body"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	AuthorName string    `json:"author_name" db:"author_name"`
}

type FeedQuery struct {
	Before *time.Time
	Limit  int
}

type ForumThread struct {
	ID          string     `json:"id" db:"id"`
	UserID      string     `json:"user_id" db:"user_id"`
	Category    string     `json:"category" db:"category"`
	Title       string     `json:"title" db:"title"`
	Body        string     `json:"body" db:"body"`
	Sentiment   *float64   `json:"sentiment,omitempty" db:"sentiment"`
	ReplyCount  int        `json:"reply_count" db:"reply_count"`
	LastReplyAt *time.Time `json:"last_reply_at,omitempty" db:"last_reply_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	AuthorName  string     `json:"author_name" db:"author_name"`
}

type ForumReply struct {
	ID         string    `json:"id" db:"id"`
	ThreadID   string    `json:"thread_id" db:"thread_id"`
	UserID     string    `json:"user_id" db:"user_id"`
	Body       string    `json:"body" db:"body"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	AuthorName string    `json:"author_name" db:"author_name"`
}

type DeviceToken struct {
	UserID    string    `json:"user_id" db:"user_id"`
	Token     string    `json:"token" db:"token"`
	Platform  string    `json:"platform" db:"platform"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// FriendRequest is an incoming request with the requester's name attached.
type FriendRequest struct {
	Friendship
	RequesterName string `json:"requester_name" db:"requester_name"`
}
