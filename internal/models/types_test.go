package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestDateJSON(t *testing.T) {
	var payload struct {
		On   Date  `json:"on"`
		Opt  *Date `json:"opt"`
		Full Date  `json:"full"`
	}
	if err := json.Unmarshal([]byte(`{"on":"2024-02-29","opt":null,"full":"2024-03-01T22:10:00Z"}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.On.String() != "2024-02-29" {
		t.Fatalf("unexpected date %s", payload.On)
	}
	if payload.Opt != nil {
		t.Fatalf("expected nil optional date")
	}
	if payload.Full.String() != "2024-03-01" {
		t.Fatalf("timestamp must truncate to day, got %s", payload.Full)
	}

	out, err := json.Marshal(payload.On)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"2024-02-29"` {
		t.Fatalf("unexpected json %s", out)
	}

	if err := json.Unmarshal([]byte(`"29/02/2024"`), &payload.On); err == nil {
		t.Fatalf("expected error for bad layout")
	}
}

func TestDateScan(t *testing.T) {
	var d Date
	if err := d.Scan(time.Date(2023, 7, 4, 15, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("scan time: %v", err)
	}
	if d.String() != "2023-07-04" {
		t.Fatalf("unexpected %s", d)
	}
	if err := d.Scan([]byte("2023-07-05")); err != nil || d.String() != "2023-07-05" {
		t.Fatalf("scan bytes: %v %s", err, d)
	}
	if err := d.Scan(42); err == nil {
		t.Fatalf("expected error scanning int")
	}

	v, err := d.Value()
	if err != nil || v != "2023-07-05" {
		t.Fatalf("unexpected value %v %v", v, err)
	}
	if v, _ := (Date{}).Value(); v != nil {
		t.Fatalf("zero date must be NULL")
	}
}

func TestDateDaysUntil(t *testing.T) {
	from, _ := ParseDate("2024-01-01")
	to, _ := ParseDate("2024-03-01")
	if got := from.DaysUntil(to); got != 60 {
		t.Fatalf("expected 60 days, got %d", got)
	}
	if got := from.AddDays(31).String(); got != "2024-02-01" {
		t.Fatalf("unexpected AddDays %s", got)
	}
}

func TestMetadata(t *testing.T) {
	var m Metadata
	if err := m.Scan([]byte(`{"movement":"automatic"}`)); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if m["movement"] != "automatic" {
		t.Fatalf("unexpected metadata %v", m)
	}
	v, err := Metadata(nil).Value()
	if err != nil || v != "{}" {
		t.Fatalf("nil metadata must encode as empty object, got %v", v)
	}
}

func TestTypedErrorsUnwrap(t *testing.T) {
	if !errors.Is(Invalid("brand", "required"), ErrInvalidInput) {
		t.Fatalf("validation error must wrap ErrInvalidInput")
	}
	capErr := &CapacityError{Requested: 0.5, Remaining: 0.25}
	if !errors.Is(capErr, ErrCapacityExceeded) {
		t.Fatalf("capacity error must wrap ErrCapacityExceeded")
	}
}
