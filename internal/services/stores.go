package services

import (
	"context"
	"time"

	"soravault/internal/models"
	"soravault/internal/repositories"
)

// The interfaces below are the slices of the repositories each service
// needs. The *repositories types satisfy them.

type ProfileStore interface {
	Get(ctx context.Context, id string) (models.Profile, error)
	Ensure(ctx context.Context, id, username string) (models.Profile, error)
	Update(ctx context.Context, id string, u models.ProfileUpdate) (models.Profile, error)
	Search(ctx context.Context, query, excludeID string, limit int) ([]models.Profile, error)
}

type CollectionStore interface {
	Create(ctx context.Context, c models.Collection) (models.Collection, error)
	List(ctx context.Context, userID string) ([]models.Collection, error)
	Get(ctx context.Context, userID, id string) (models.Collection, error)
	Update(ctx context.Context, c models.Collection) (models.Collection, error)
	Delete(ctx context.Context, userID, id string) error
}

type ItemStore interface {
	Create(ctx context.Context, it models.Item) (models.Item, error)
	List(ctx context.Context, userID string, f models.ItemFilter) ([]models.Item, error)
	Get(ctx context.Context, userID, id string) (models.Item, error)
	Update(ctx context.Context, it models.Item, value *float64) (models.Item, error)
	Delete(ctx context.Context, userID, id string) error
	Sell(ctx context.Context, userID, id string, req models.SellRequest) (models.Item, error)
	SetImage(ctx context.Context, userID, id, url string) (models.Item, error)
	SetAIImage(ctx context.Context, userID, id, url string) (models.Item, error)
	SetValue(ctx context.Context, userID, id string, value float64, source string) (models.Item, error)
	PricePoints(ctx context.Context, userID, id string) ([]models.PricePoint, error)
	ListMissingAIImage(ctx context.Context, userID string, limit int) ([]models.Item, error)
	BackfillCandidates(ctx context.Context, limit int) ([]models.Item, error)
	StaleValues(ctx context.Context, before time.Time, limit int) ([]models.Item, error)
}

type WearStore interface {
	Save(ctx context.Context, userID string, day models.Date, plan repositories.WearPlanner) (models.WearResult, error)
	Get(ctx context.Context, userID, id string) (models.WearEntry, error)
	Delete(ctx context.Context, userID, id string) error
	List(ctx context.Context, userID string, f models.WearFilter) ([]models.WearEntry, error)
	Day(ctx context.Context, userID string, day models.Date) ([]models.WearEntry, error)
}

type TripStore interface {
	Create(ctx context.Context, t models.Trip) (models.Trip, error)
	List(ctx context.Context, userID string) ([]models.Trip, error)
	Get(ctx context.Context, userID, id string) (models.Trip, error)
	Update(ctx context.Context, t models.Trip) (models.Trip, error)
	Delete(ctx context.Context, userID, id string) error
}

type EventStore interface {
	Create(ctx context.Context, e models.Event) (models.Event, error)
	List(ctx context.Context, userID string) ([]models.Event, error)
	Get(ctx context.Context, userID, id string) (models.Event, error)
	Update(ctx context.Context, e models.Event) (models.Event, error)
	Delete(ctx context.Context, userID, id string) error
}

type WaterStore interface {
	Create(ctx context.Context, u models.WaterUsage) (models.WaterUsage, error)
	List(ctx context.Context, userID, itemID string) ([]models.WaterUsage, error)
	Delete(ctx context.Context, userID, id string) error
}

type WishlistStore interface {
	Create(ctx context.Context, w models.WishlistItem) (models.WishlistItem, error)
	List(ctx context.Context, userID string) ([]models.WishlistItem, error)
	Get(ctx context.Context, userID, id string) (models.WishlistItem, error)
	Update(ctx context.Context, w models.WishlistItem) (models.WishlistItem, error)
	Delete(ctx context.Context, userID, id string) error
	Acquire(ctx context.Context, userID, id string, item models.Item) (models.Item, models.WishlistItem, error)
}

type FriendshipStore interface {
	Between(ctx context.Context, a, b string) (models.Friendship, error)
	Get(ctx context.Context, id string) (models.Friendship, error)
	Create(ctx context.Context, requesterID, addresseeID string) (models.Friendship, error)
	Reopen(ctx context.Context, id, requesterID, addresseeID string) (models.Friendship, error)
	SetStatus(ctx context.Context, id, status string) (models.Friendship, error)
	Delete(ctx context.Context, id string) error
	Friends(ctx context.Context, userID string) ([]models.Profile, error)
	Incoming(ctx context.Context, userID string) ([]models.FriendRequest, error)
	AreFriends(ctx context.Context, a, b string) (bool, error)
}

type PostStore interface {
	Create(ctx context.Context, p models.Post) (models.Post, error)
	Get(ctx context.Context, viewerID, id string) (models.Post, error)
	Feed(ctx context.Context, viewerID string, q models.FeedQuery) ([]models.Post, error)
	Delete(ctx context.Context, userID, id string) error
	SetSentiment(ctx context.Context, id string, score float64) error
	Like(ctx context.Context, userID, postID string) error
	Unlike(ctx context.Context, userID, postID string) error
	AddComment(ctx context.Context, c models.Comment) (models.Comment, error)
	Comments(ctx context.Context, postID string) ([]models.Comment, error)
	DeleteComment(ctx context.Context, userID, id string) error
}

type MessageStore interface {
	Create(ctx context.Context, m models.Message) (models.Message, error)
	Conversations(ctx context.Context, userID string) ([]models.Conversation, error)
	Thread(ctx context.Context, userID, otherID string, before *time.Time, limit int) ([]models.Message, error)
	MarkRead(ctx context.Context, userID, otherID string) (int64, error)
}

type ForumStore interface {
	CreateThread(ctx context.Context, t models.ForumThread) (models.ForumThread, error)
	GetThread(ctx context.Context, id string) (models.ForumThread, error)
	ListThreads(ctx context.Context, category string, limit int) ([]models.ForumThread, error)
	DeleteThread(ctx context.Context, userID, id string) error
	SetSentiment(ctx context.Context, id string, score float64) error
	AddReply(ctx context.Context, reply models.ForumReply) (models.ForumReply, error)
	Replies(ctx context.Context, threadID string) ([]models.ForumReply, error)
}

type DeviceStore interface {
	Upsert(ctx context.Context, d models.DeviceToken) (models.DeviceToken, error)
}

// Uploader puts a blob into object storage and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, folder string, data []byte) (string, error)
}
