package handlers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"soravault/internal/models"
)

// getParam returns a route parameter. pat stores captures in the query as
// ":name"; routes registered on a Go 1.22 ServeMux expose them through
// PathValue instead.
func getParam(r *http.Request, name string) string {
	if v := r.URL.Query().Get(":" + name); v != "" {
		return v
	}
	return r.PathValue(name)
}

// RequireUUIDParams answers 404 for routes whose named parameters are not
// UUIDs. Every table is keyed by UUID, so such a row cannot exist.
func RequireUUIDParams(names ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, name := range names {
				v := getParam(r, name)
				if v == "" {
					continue
				}
				if _, err := uuid.Parse(v); err != nil {
					writeError(w, fmt.Errorf("%w: malformed %s", models.ErrNotFound, name))
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
