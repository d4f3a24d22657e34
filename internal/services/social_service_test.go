package services

import (
	"context"
	"errors"
	"testing"

	"soravault/internal/models"
	"soravault/internal/realtime"
)

type fakeMessages struct {
	MessageStore
	created []models.Message
}

func (f *fakeMessages) Create(_ context.Context, m models.Message) (models.Message, error) {
	m.ID = "m1"
	f.created = append(f.created, m)
	return m, nil
}

func newFriendFixture(rows ...models.Friendship) (*FriendService, *fakeFriendships, *fakePush, *Background) {
	store := newFakeFriendships(rows...)
	profiles := &fakeProfiles{names: map[string]string{"alice": "alice", "bob": "bob"}}
	push := &fakePush{}
	bg := &Background{}
	return NewFriendService(store, profiles, push, bg, &recordedEvents{}, nil), store, push, bg
}

func TestFriendRequestCreatesPendingAndPushes(t *testing.T) {
	svc, _, push, bg := newFriendFixture()

	f, err := svc.Request(context.Background(), "alice", "bob")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if f.Status != models.FriendshipPending || f.RequesterID != "alice" {
		t.Fatalf("unexpected friendship %+v", f)
	}
	bg.Wait()
	if len(push.sent) != 1 || push.sent[0].userID != "bob" {
		t.Fatalf("expected a push to bob, got %+v", push.sent)
	}
}

func TestFriendRequestAcceptsReversePending(t *testing.T) {
	svc, _, _, _ := newFriendFixture(models.Friendship{ID: "f1", RequesterID: "bob", AddresseeID: "alice", Status: models.FriendshipPending})

	f, err := svc.Request(context.Background(), "alice", "bob")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if f.ID != "f1" || f.Status != models.FriendshipAccepted {
		t.Fatalf("expected f1 accepted, got %+v", f)
	}
}

func TestFriendRequestRejections(t *testing.T) {
	cases := []struct {
		name string
		rows []models.Friendship
		to   string
		want error
	}{
		{"self", nil, "alice", models.ErrInvalidInput},
		{"unknown user", nil, "carol", models.ErrNotFound},
		{"duplicate", []models.Friendship{{ID: "f1", RequesterID: "alice", AddresseeID: "bob", Status: models.FriendshipPending}}, "bob", models.ErrConflict},
		{"already friends", []models.Friendship{{ID: "f1", RequesterID: "bob", AddresseeID: "alice", Status: models.FriendshipAccepted}}, "bob", models.ErrAlreadyFriends},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, _, _ := newFriendFixture(tc.rows...)
			if _, err := svc.Request(context.Background(), "alice", tc.to); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestFriendRequestReopensDeclined(t *testing.T) {
	svc, _, _, _ := newFriendFixture(models.Friendship{ID: "f1", RequesterID: "bob", AddresseeID: "alice", Status: models.FriendshipDeclined})

	f, err := svc.Request(context.Background(), "alice", "bob")
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if f.Status != models.FriendshipPending || f.RequesterID != "alice" || f.AddresseeID != "bob" {
		t.Fatalf("unexpected friendship %+v", f)
	}
}

func TestOnlyAddresseeAnswers(t *testing.T) {
	row := models.Friendship{ID: "f1", RequesterID: "alice", AddresseeID: "bob", Status: models.FriendshipPending}

	svc, _, _, _ := newFriendFixture(row)
	if _, err := svc.Accept(context.Background(), "alice", "f1"); !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("requester must not accept, got %v", err)
	}
	if _, err := svc.Decline(context.Background(), "carol", "f1"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("stranger must get not found, got %v", err)
	}
	f, err := svc.Accept(context.Background(), "bob", "f1")
	if err != nil || f.Status != models.FriendshipAccepted {
		t.Fatalf("Accept: %+v %v", f, err)
	}
	if _, err := svc.Decline(context.Background(), "bob", "f1"); !errors.Is(err, models.ErrConflict) {
		t.Fatalf("answered request must conflict, got %v", err)
	}
}

func TestSendMessageRequiresFriendship(t *testing.T) {
	friendships := newFakeFriendships(models.Friendship{ID: "f1", RequesterID: "alice", AddresseeID: "bob", Status: models.FriendshipPending})
	messages := &fakeMessages{}
	svc := NewMessageService(messages, friendships, &fakeProfiles{}, nil, &Background{}, nil, nil)

	if _, err := svc.Send(context.Background(), "alice", "bob", "hi"); !errors.Is(err, models.ErrNotFriends) {
		t.Fatalf("expected ErrNotFriends, got %v", err)
	}
	if len(messages.created) != 0 {
		t.Fatalf("message must not be stored")
	}
}

func TestSendMessageNotifiesReceiver(t *testing.T) {
	friendships := newFakeFriendships(models.Friendship{ID: "f1", RequesterID: "alice", AddresseeID: "bob", Status: models.FriendshipAccepted})
	messages := &fakeMessages{}
	push := &fakePush{}
	events := &recordedEvents{}
	bg := &Background{}
	profiles := &fakeProfiles{names: map[string]string{"alice": "alice"}}
	svc := NewMessageService(messages, friendships, profiles, push, bg, events, nil)

	msg, err := svc.Send(context.Background(), "alice", "bob", "  see you at the meetup  ")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if msg.Body != "see you at the meetup" {
		t.Fatalf("body not trimmed: %q", msg.Body)
	}
	if events.count("messages", realtime.Insert, "bob") != 1 {
		t.Fatalf("receiver must get a realtime event")
	}
	bg.Wait()
	if len(push.sent) != 1 || push.sent[0].n.Title != "alice" || push.sent[0].n.Data["type"] != "message" {
		t.Fatalf("unexpected push %+v", push.sent)
	}
}

func TestPageSize(t *testing.T) {
	for in, want := range map[int]int{0: 20, -5: 20, 50: 50, 1000: 100} {
		if got := pageSize(in); got != want {
			t.Fatalf("pageSize(%d) = %d, want %d", in, got, want)
		}
	}
}
