// Package notify sends push notifications through Firebase Cloud Messaging.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	firebase "firebase.google.com/go"
	"firebase.google.com/go/messaging"
	"google.golang.org/api/option"
)

type Notification struct {
	Title string
	Body  string
	Data  map[string]string
}

// Notifier delivers a notification to every device of a user.
type Notifier interface {
	Notify(ctx context.Context, userID string, n Notification) error
}

type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type TokenStore interface {
	Tokens(ctx context.Context, userID string) ([]string, error)
	DeleteTokens(ctx context.Context, tokens []string) error
}

type FCM struct {
	Client Sender
	Tokens TokenStore
	Logger *slog.Logger
}

// NewFCM initialises the Firebase app from a service account file.
func NewFCM(ctx context.Context, credentialsFile string, tokens TokenStore, logger *slog.Logger) (*FCM, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase messaging: %w", err)
	}
	return &FCM{Client: client, Tokens: tokens, Logger: logger}, nil
}

// Notify sends n to each registered device. Tokens that FCM reports as
// unregistered are deleted. Other send failures are logged and skipped.
func (f *FCM) Notify(ctx context.Context, userID string, n Notification) error {
	tokens, err := f.Tokens.Tokens(ctx, userID)
	if err != nil {
		return fmt.Errorf("load device tokens: %w", err)
	}

	var stale []string
	for _, token := range tokens {
		_, err := f.Client.Send(ctx, buildMessage(token, n))
		switch {
		case err == nil:
		case messaging.IsRegistrationTokenNotRegistered(err) || messaging.IsInvalidArgument(err):
			stale = append(stale, token)
		default:
			f.Logger.Warn("push send failed", "user_id", userID, "error", err)
		}
	}

	if len(stale) > 0 {
		if err := f.Tokens.DeleteTokens(ctx, stale); err != nil {
			return fmt.Errorf("delete stale tokens: %w", err)
		}
		f.Logger.Info("removed stale device tokens", "user_id", userID, "count", len(stale))
	}
	return nil
}

func buildMessage(token string, n Notification) *messaging.Message {
	return &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Body,
		},
		Data: n.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority_channel",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{"apns-priority": "10"},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{Title: n.Title, Body: n.Body},
					Sound: "default",
				},
			},
		},
	}
}

// Noop is used when push is not configured.
type Noop struct{}

func (Noop) Notify(context.Context, string, Notification) error { return nil }
