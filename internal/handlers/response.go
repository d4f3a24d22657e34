package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"soravault/internal/ai"
	"soravault/internal/auth"
	"soravault/internal/models"
	"soravault/internal/pricing"
)

const maxJSONBody = 1 << 20

// defaultRetryAfter is sent on 429s whose cause carries no hint of its own.
const defaultRetryAfter = 60 * time.Second

type errorBody struct {
	Error     string  `json:"error"`
	Field     string  `json:"field,omitempty"`
	Remaining float64 `json:"remaining,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorStatus maps service errors onto HTTP statuses. Upstream AI failures
// other than rate limits are reported as 502.
func errorStatus(err error) int {
	var apiErr *ai.APIError
	switch {
	case errors.Is(err, models.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, models.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrCapacityExceeded):
		return http.StatusConflict
	case errors.Is(err, models.ErrForbidden), errors.Is(err, models.ErrNotFriends):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict), errors.Is(err, models.ErrAlreadyFriends):
		return http.StatusConflict
	case errors.Is(err, models.ErrAIDisabled):
		return http.StatusServiceUnavailable
	case errors.As(err, &apiErr), errors.Is(err, pricing.ErrNoEstimate):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	body := errorBody{Error: err.Error()}

	if status == http.StatusTooManyRequests {
		wait := defaultRetryAfter
		var apiErr *ai.APIError
		if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
			wait = apiErr.RetryAfter
		}
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
	}
	var vErr *models.ValidationError
	if errors.As(err, &vErr) {
		body.Field = vErr.Field
	}
	var capErr *models.CapacityError
	if errors.As(err, &capErr) {
		body.Remaining = capErr.Remaining
	}
	if status == http.StatusInternalServerError {
		body.Error = "internal server error"
	}
	writeJSON(w, status, body)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", models.ErrInvalidInput)
		}
		return fmt.Errorf("%w: invalid JSON body: %v", models.ErrInvalidInput, err)
	}
	return nil
}

// currentUser is set by the auth middleware; routes without it never reach
// a handler that calls this.
func currentUser(r *http.Request) string {
	id, _ := auth.UserID(r.Context())
	return id
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, models.Invalid(name, "must be an integer")
	}
	return n, nil
}

func queryDate(r *http.Request, name string) (*models.Date, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		return nil, models.Invalid(name, "must be YYYY-MM-DD")
	}
	return &d, nil
}

func queryTime(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil, models.Invalid(name, "must be an RFC 3339 timestamp")
	}
	return &t, nil
}

func queryBool(r *http.Request, name string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return v
}
