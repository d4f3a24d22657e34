package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"soravault/internal/ai"
	"soravault/internal/models"
	"soravault/internal/pricing"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", models.Invalid("name", "is required"), http.StatusBadRequest},
		{"capacity", &models.CapacityError{Requested: 1, Remaining: 0.5}, http.StatusConflict},
		{"forbidden", models.ErrForbidden, http.StatusForbidden},
		{"not friends", models.ErrNotFriends, http.StatusForbidden},
		{"not found", fmt.Errorf("get item: %w", models.ErrNotFound), http.StatusNotFound},
		{"conflict", models.ErrConflict, http.StatusConflict},
		{"already friends", models.ErrAlreadyFriends, http.StatusConflict},
		{"ai disabled", models.ErrAIDisabled, http.StatusServiceUnavailable},
		{"ai rate limited", &ai.APIError{StatusCode: http.StatusTooManyRequests}, http.StatusTooManyRequests},
		{"ai upstream", &ai.APIError{StatusCode: http.StatusInternalServerError}, http.StatusBadGateway},
		{"no estimate", pricing.ErrNoEstimate, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorStatus(tt.err); got != tt.want {
				t.Fatalf("errorStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestWriteErrorBody(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, &models.CapacityError{Date: models.NewDate(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)), Requested: 1, Remaining: 0.25})

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
	var body errorBody
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Remaining != 0.25 {
		t.Fatalf("expected remaining 0.25, got %v", body.Remaining)
	}

	rr = httptest.NewRecorder()
	writeError(rr, models.Invalid("days", "must be a multiple of 0.25"))
	body = errorBody{}
	json.NewDecoder(rr.Body).Decode(&body)
	if body.Field != "days" {
		t.Fatalf("expected field days, got %q", body.Field)
	}
}

func TestWriteErrorHidesInternal(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, errors.New("pq: connection refused"))

	var body errorBody
	json.NewDecoder(rr.Body).Decode(&body)
	if body.Error != "internal server error" {
		t.Fatalf("internal error leaked: %q", body.Error)
	}
}

func TestWriteErrorRetryAfter(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, fmt.Errorf("generate: %w", &ai.APIError{StatusCode: http.StatusTooManyRequests, RetryAfter: 1500 * time.Millisecond}))

	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rr.Code)
	}
	if got := rr.Header().Get("Retry-After"); got != "2" {
		t.Fatalf("expected Retry-After 2, got %q", got)
	}
}

func TestWriteErrorDefaultRetryAfter(t *testing.T) {
	for name, err := range map[string]error{
		"upstream without hint": &ai.APIError{StatusCode: http.StatusTooManyRequests},
		"local limiter":         fmt.Errorf("generate image: %w", models.ErrRateLimited),
	} {
		rr := httptest.NewRecorder()
		writeError(rr, err)
		if rr.Code != http.StatusTooManyRequests {
			t.Fatalf("%s: expected 429, got %d", name, rr.Code)
		}
		if got := rr.Header().Get("Retry-After"); got != "60" {
			t.Fatalf("%s: expected Retry-After 60, got %q", name, got)
		}
	}
}

func TestQueryHelpers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/wear?from=2024-05-01&limit=x&apply=true&before=2024-05-01T10:00:00Z", nil)

	d, err := queryDate(req, "from")
	if err != nil || d == nil || d.String() != "2024-05-01" {
		t.Fatalf("queryDate: %v %v", d, err)
	}
	if _, err := queryInt(req, "limit"); !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("expected invalid limit, got %v", err)
	}
	if !queryBool(req, "apply") {
		t.Fatalf("expected apply=true")
	}
	if ts, err := queryTime(req, "before"); err != nil || ts == nil {
		t.Fatalf("queryTime: %v %v", ts, err)
	}
	if d, err := queryDate(req, "to"); err != nil || d != nil {
		t.Fatalf("missing date should be nil, got %v %v", d, err)
	}
}
