package services

import (
	"context"
	"strings"

	"soravault/internal/models"
)

type DeviceService struct {
	Devices DeviceStore
}

// Register stores or refreshes a push token for the caller.
func (s *DeviceService) Register(ctx context.Context, userID string, d models.DeviceToken) (models.DeviceToken, error) {
	d.Token = strings.TrimSpace(d.Token)
	if err := required("token", d.Token); err != nil {
		return models.DeviceToken{}, err
	}
	d.Platform = strings.ToLower(strings.TrimSpace(d.Platform))
	switch d.Platform {
	case "ios", "android", "web":
	default:
		return models.DeviceToken{}, models.Invalid("platform", "must be ios, android or web")
	}
	d.UserID = userID
	return s.Devices.Upsert(ctx, d)
}
