package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"soravault/internal/models"
	"soravault/internal/notify"
	"soravault/internal/realtime"
)

type FriendService struct {
	Friendships FriendshipStore
	Profiles    ProfileStore
	Push        notify.Notifier
	Background  *Background
	changes
}

func NewFriendService(friendships FriendshipStore, profiles ProfileStore, push notify.Notifier, bg *Background, pub realtime.Publisher, logger *slog.Logger) *FriendService {
	return &FriendService{
		Friendships: friendships,
		Profiles:    profiles,
		Push:        push,
		Background:  bg,
		changes:     newChanges(pub, logger),
	}
}

// Request asks addresseeID to become friends. If they already asked the
// caller, their request is accepted instead of creating a second one.
func (s *FriendService) Request(ctx context.Context, userID, addresseeID string) (models.Friendship, error) {
	if err := required("addressee_id", addresseeID); err != nil {
		return models.Friendship{}, err
	}
	if addresseeID == userID {
		return models.Friendship{}, models.Invalid("addressee_id", "cannot befriend yourself")
	}
	if _, err := s.Profiles.Get(ctx, addresseeID); err != nil {
		return models.Friendship{}, err
	}

	existing, err := s.Friendships.Between(ctx, userID, addresseeID)
	switch {
	case errors.Is(err, models.ErrNotFound):
		f, err := s.Friendships.Create(ctx, userID, addresseeID)
		if err != nil {
			return models.Friendship{}, err
		}
		s.requested(ctx, f)
		return f, nil
	case err != nil:
		return models.Friendship{}, err
	}

	switch existing.Status {
	case models.FriendshipAccepted:
		return models.Friendship{}, models.ErrAlreadyFriends
	case models.FriendshipPending:
		if existing.RequesterID == userID {
			return models.Friendship{}, fmt.Errorf("%w: request already sent", models.ErrConflict)
		}
		f, err := s.Friendships.SetStatus(ctx, existing.ID, models.FriendshipAccepted)
		if err != nil {
			return models.Friendship{}, err
		}
		s.changed(ctx, f, realtime.Update)
		return f, nil
	default:
		f, err := s.Friendships.Reopen(ctx, existing.ID, userID, addresseeID)
		if err != nil {
			return models.Friendship{}, err
		}
		s.requested(ctx, f)
		return f, nil
	}
}

func (s *FriendService) requested(ctx context.Context, f models.Friendship) {
	s.changed(ctx, f, realtime.Insert)
	if s.Push == nil {
		return
	}
	s.Background.Go(ctx, "push friend request", func(ctx context.Context) error {
		requester, err := s.Profiles.Get(ctx, f.RequesterID)
		if err != nil {
			return err
		}
		return s.Push.Notify(ctx, f.AddresseeID, notify.Notification{
			Title: "New friend request",
			Body:  requester.Name() + " wants to add you as a friend",
			Data:  map[string]string{"type": "friend_request", "friendship_id": f.ID},
		})
	})
}

func (s *FriendService) changed(ctx context.Context, f models.Friendship, typ string) {
	s.emit(ctx, "friendships", typ, f.ID, f.RequesterID)
	s.emit(ctx, "friendships", typ, f.ID, f.AddresseeID)
}

func (s *FriendService) Accept(ctx context.Context, userID, id string) (models.Friendship, error) {
	return s.respond(ctx, userID, id, models.FriendshipAccepted)
}

func (s *FriendService) Decline(ctx context.Context, userID, id string) (models.Friendship, error) {
	return s.respond(ctx, userID, id, models.FriendshipDeclined)
}

// respond lets the addressee settle a pending request.
func (s *FriendService) respond(ctx context.Context, userID, id, status string) (models.Friendship, error) {
	f, err := s.Friendships.Get(ctx, id)
	if err != nil {
		return models.Friendship{}, err
	}
	switch {
	case f.RequesterID != userID && f.AddresseeID != userID:
		return models.Friendship{}, models.ErrNotFound
	case f.AddresseeID != userID:
		return models.Friendship{}, fmt.Errorf("%w: only the addressee can answer a request", models.ErrForbidden)
	case f.Status != models.FriendshipPending:
		return models.Friendship{}, fmt.Errorf("%w: request is %s", models.ErrConflict, f.Status)
	}

	out, err := s.Friendships.SetStatus(ctx, id, status)
	if err != nil {
		return models.Friendship{}, err
	}
	s.changed(ctx, out, realtime.Update)
	return out, nil
}

// Remove ends a friendship (or withdraws a request) from either side.
func (s *FriendService) Remove(ctx context.Context, userID, otherID string) error {
	f, err := s.Friendships.Between(ctx, userID, otherID)
	if err != nil {
		return err
	}
	if err := s.Friendships.Delete(ctx, f.ID); err != nil {
		return err
	}
	s.changed(ctx, f, realtime.Delete)
	return nil
}

func (s *FriendService) Friends(ctx context.Context, userID string) ([]models.Profile, error) {
	return s.Friendships.Friends(ctx, userID)
}

func (s *FriendService) Incoming(ctx context.Context, userID string) ([]models.FriendRequest, error) {
	return s.Friendships.Incoming(ctx, userID)
}
