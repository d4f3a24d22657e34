package services

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"soravault/internal/models"
)

var usernameRe = regexp.MustCompile(`^[a-z0-9_.]{3,30}$`)

type ProfileService struct {
	Profiles ProfileStore
	known    *expirable.LRU[string, struct{}]
}

func NewProfileService(store ProfileStore) *ProfileService {
	return &ProfileService{
		Profiles: store,
		known:    expirable.NewLRU[string, struct{}](10000, nil, time.Hour),
	}
}

// Touch makes sure a profile row exists for userID. Every owned row
// references profiles, so the auth middleware calls this before any handler.
// Recently seen users skip the database.
func (s *ProfileService) Touch(ctx context.Context, userID string) error {
	if s.known != nil {
		if _, ok := s.known.Get(userID); ok {
			return nil
		}
	}
	if _, err := s.Me(ctx, userID); err != nil {
		return err
	}
	if s.known != nil {
		s.known.Add(userID, struct{}{})
	}
	return nil
}

// Me returns the caller's profile, creating it on first use. Accounts live
// with the auth provider, so the profile row may not exist yet.
func (s *ProfileService) Me(ctx context.Context, userID string) (models.Profile, error) {
	return s.Profiles.Ensure(ctx, userID, defaultUsername(userID))
}

func defaultUsername(userID string) string {
	id := strings.ReplaceAll(userID, "-", "")
	if len(id) > 12 {
		id = id[:12]
	}
	return "user_" + id
}

func (s *ProfileService) Update(ctx context.Context, userID string, u models.ProfileUpdate) (models.Profile, error) {
	if u.Username != nil {
		name := strings.ToLower(strings.TrimSpace(*u.Username))
		if !usernameRe.MatchString(name) {
			return models.Profile{}, models.Invalid("username", "must be 3-30 characters of a-z, 0-9, _ or .")
		}
		u.Username = &name
	}
	if u.Bio != nil && len(*u.Bio) > 500 {
		return models.Profile{}, models.Invalid("bio", "must be at most 500 characters")
	}
	if _, err := s.Me(ctx, userID); err != nil {
		return models.Profile{}, err
	}
	return s.Profiles.Update(ctx, userID, u)
}

func (s *ProfileService) Get(ctx context.Context, id string) (models.Profile, error) {
	return s.Profiles.Get(ctx, id)
}

func (s *ProfileService) Search(ctx context.Context, userID, query string, limit int) ([]models.Profile, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil, models.Invalid("q", "must be at least 2 characters")
	}
	return s.Profiles.Search(ctx, query, userID, pageSize(limit))
}
