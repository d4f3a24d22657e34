package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bmizerany/pat"

	"soravault/internal/auth"
	"soravault/internal/models"
	"soravault/internal/services"
)

type memProfiles struct {
	byID map[string]models.Profile
}

func (m *memProfiles) Get(_ context.Context, id string) (models.Profile, error) {
	p, ok := m.byID[id]
	if !ok {
		return models.Profile{}, models.ErrNotFound
	}
	return p, nil
}

func (m *memProfiles) Ensure(_ context.Context, id, username string) (models.Profile, error) {
	if p, ok := m.byID[id]; ok {
		return p, nil
	}
	p := models.Profile{ID: id, Username: username}
	m.byID[id] = p
	return p, nil
}

func (m *memProfiles) Update(_ context.Context, id string, u models.ProfileUpdate) (models.Profile, error) {
	p := m.byID[id]
	if u.Username != nil {
		p.Username = *u.Username
	}
	if u.Bio != nil {
		p.Bio = u.Bio
	}
	m.byID[id] = p
	return p, nil
}

func (m *memProfiles) Search(_ context.Context, query, excludeID string, limit int) ([]models.Profile, error) {
	var out []models.Profile
	for id, p := range m.byID {
		if id != excludeID && strings.Contains(p.Username, query) {
			out = append(out, p)
		}
	}
	return out, nil
}

func profileRouter(store *memProfiles) http.Handler {
	h := &ProfileHandler{Service: services.NewProfileService(store)}
	mux := pat.New()
	mux.Get("/me", http.HandlerFunc(h.Me))
	mux.Put("/me", http.HandlerFunc(h.UpdateMe))
	mux.Get("/users/search", http.HandlerFunc(h.Search))
	mux.Get("/users/:id", http.HandlerFunc(h.GetUser))
	return mux
}

func asUser(r *http.Request, id string) *http.Request {
	return r.WithContext(auth.WithUserID(r.Context(), id))
}

func TestProfileMeCreatesProfile(t *testing.T) {
	store := &memProfiles{byID: map[string]models.Profile{}}
	rr := httptest.NewRecorder()
	profileRouter(store).ServeHTTP(rr, asUser(httptest.NewRequest(http.MethodGet, "/me", nil), "0b9c2f7e-1111-2222-3333-444455556666"))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body)
	}
	var p models.Profile
	if err := json.NewDecoder(rr.Body).Decode(&p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Username != "user_0b9c2f7e1111" {
		t.Fatalf("unexpected default username %q", p.Username)
	}
}

func TestProfileUpdateRejectsBadUsername(t *testing.T) {
	store := &memProfiles{byID: map[string]models.Profile{}}
	req := httptest.NewRequest(http.MethodPut, "/me", strings.NewReader(`{"username":"no spaces allowed"}`))
	rr := httptest.NewRecorder()
	profileRouter(store).ServeHTTP(rr, asUser(req, "u1"))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	var body errorBody
	json.NewDecoder(rr.Body).Decode(&body)
	if body.Field != "username" {
		t.Fatalf("expected username field, got %q", body.Field)
	}
}

func TestProfileGetUserRoutesParam(t *testing.T) {
	store := &memProfiles{byID: map[string]models.Profile{
		"u2": {ID: "u2", Username: "watchfan"},
	}}

	rr := httptest.NewRecorder()
	profileRouter(store).ServeHTTP(rr, asUser(httptest.NewRequest(http.MethodGet, "/users/u2", nil), "u1"))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "watchfan") {
		t.Fatalf("unexpected response %d: %s", rr.Code, rr.Body)
	}

	rr = httptest.NewRecorder()
	profileRouter(store).ServeHTTP(rr, asUser(httptest.NewRequest(http.MethodGet, "/users/missing", nil), "u1"))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestProfileSearchNeedsQuery(t *testing.T) {
	store := &memProfiles{byID: map[string]models.Profile{}}
	rr := httptest.NewRecorder()
	profileRouter(store).ServeHTTP(rr, asUser(httptest.NewRequest(http.MethodGet, "/users/search?q=a", nil), "u1"))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
