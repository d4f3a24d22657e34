package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"soravault/internal/models"
)

func TestDBErrorTranslation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", sql.ErrNoRows, models.ErrNotFound},
		{"unique", &pgconn.PgError{Code: "23505", ConstraintName: "profiles_username_key"}, models.ErrConflict},
		{"foreign key", &pgconn.PgError{Code: "23503"}, models.ErrInvalidInput},
		{"check", &pgconn.PgError{Code: "23514"}, models.ErrInvalidInput},
		{"malformed uuid", &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}, models.ErrInvalidInput},
	}
	for _, tc := range cases {
		if got := dbError("op", tc.err); !errors.Is(got, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}

	plain := errors.New("connection reset")
	if got := dbError("op", plain); !errors.Is(got, plain) {
		t.Fatalf("unknown errors must stay wrapped, got %v", got)
	}
	if dbError("op", nil) != nil {
		t.Fatalf("nil must stay nil")
	}
}

func TestRequireAffected(t *testing.T) {
	if err := requireAffected("op", sqlmock.NewResult(0, 0), nil); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := requireAffected("op", sqlmock.NewResult(0, 1), nil); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}
