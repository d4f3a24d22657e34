package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"firebase.google.com/go/messaging"
)

type fakeSender struct {
	sent  []*messaging.Message
	errOf map[string]error
}

func (f *fakeSender) Send(_ context.Context, m *messaging.Message) (string, error) {
	f.sent = append(f.sent, m)
	return "projects/x/messages/1", f.errOf[m.Token]
}

type fakeTokens struct {
	tokens  []string
	deleted []string
}

func (f *fakeTokens) Tokens(context.Context, string) ([]string, error) { return f.tokens, nil }

func (f *fakeTokens) DeleteTokens(_ context.Context, tokens []string) error {
	f.deleted = append(f.deleted, tokens...)
	return nil
}

func TestNotifySendsToEveryDevice(t *testing.T) {
	sender := &fakeSender{errOf: map[string]error{"b": errors.New("unavailable")}}
	store := &fakeTokens{tokens: []string{"a", "b"}}
	f := &FCM{Client: sender, Tokens: store, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}

	err := f.Notify(context.Background(), "u1", Notification{Title: "New message", Body: "hi", Data: map[string]string{"kind": "message"}})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(sender.sent) != 2 {
		t.Fatalf("expected 2 sends, got %d", len(sender.sent))
	}
	m := sender.sent[0]
	if m.Token != "a" || m.Notification.Title != "New message" || m.Data["kind"] != "message" {
		t.Fatalf("unexpected message %+v", m)
	}
	if m.APNS.Payload.Aps.Alert.Body != "hi" {
		t.Fatalf("apns alert not filled")
	}
	if len(store.deleted) != 0 {
		t.Fatalf("transient failure must not delete tokens: %v", store.deleted)
	}
}

func TestNoopNotify(t *testing.T) {
	var n Notifier = Noop{}
	if err := n.Notify(context.Background(), "u1", Notification{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
