package services

import (
	"context"
	"errors"
	"testing"

	"soravault/internal/models"
	"soravault/internal/realtime"
	"soravault/internal/wear"
)

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatalf("parse date: %v", err)
	}
	return d
}

func newWearFixture(t *testing.T, entries ...models.WearEntry) (*WearService, *fakeWear, *recordedEvents) {
	t.Helper()
	items := newFakeItems(
		models.Item{ID: "watch", UserID: "u1", Brand: "Omega", Model: "Speedmaster", Status: models.StatusActive},
		models.Item{ID: "sneaker", UserID: "u1", Brand: "Nike", Model: "Dunk", Status: models.StatusActive},
		models.Item{ID: "purse", UserID: "u1", Brand: "Hermes", Model: "Kelly", Status: models.StatusActive},
	)
	store := newFakeWear(entries...)
	events := &recordedEvents{}
	svc := NewWearService(store, items, nil, nil, events, nil)
	return svc, store, events
}

func TestRecordDowngradesFullDayForPartialEntry(t *testing.T) {
	day := mustDate(t, "2024-03-01")
	svc, store, events := newWearFixture(t, models.WearEntry{ID: "w1", UserID: "u1", ItemID: "watch", WornOn: day, Days: 1})

	res, err := svc.Record(context.Background(), "u1", models.WearInput{ItemID: "sneaker", WornOn: day, Days: 0.5})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if len(res.Adjusted) != 1 || res.Adjusted[0].ID != "w1" || res.Adjusted[0].Days != wear.HalfDay {
		t.Fatalf("expected w1 downgraded to 0.5, got %+v", res.Adjusted)
	}
	if store.entries["w1"].Days != wear.HalfDay {
		t.Fatalf("downgrade not stored")
	}
	if events.count("wear_entries", realtime.Insert, "u1") != 1 || events.count("wear_entries", realtime.Update, "u1") != 1 {
		t.Fatalf("unexpected events %+v", events.events)
	}
}

func TestRecordRejectsOverflowWithDate(t *testing.T) {
	day := mustDate(t, "2024-03-01")
	svc, store, _ := newWearFixture(t,
		models.WearEntry{ID: "w1", UserID: "u1", ItemID: "watch", WornOn: day, Days: 0.5},
		models.WearEntry{ID: "w2", UserID: "u1", ItemID: "sneaker", WornOn: day, Days: 0.25},
	)

	_, err := svc.Record(context.Background(), "u1", models.WearInput{ItemID: "purse", WornOn: day, Days: 0.5})
	var capErr *models.CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected capacity error, got %v", err)
	}
	if capErr.Remaining != 0.25 || !capErr.Date.Equal(day.Time) {
		t.Fatalf("unexpected capacity error %+v", capErr)
	}
	if len(store.entries) != 2 {
		t.Fatalf("rejected entry must not be stored")
	}
}

func TestRecordSameItemUpdatesExistingEntry(t *testing.T) {
	day := mustDate(t, "2024-03-01")
	svc, store, events := newWearFixture(t, models.WearEntry{ID: "w1", UserID: "u1", ItemID: "watch", WornOn: day, Days: 0.5})

	res, err := svc.Record(context.Background(), "u1", models.WearInput{ItemID: "watch", WornOn: day, Days: 1})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if res.Entry.ID != "w1" || res.Entry.Days != 1 {
		t.Fatalf("expected w1 to become a full day, got %+v", res.Entry)
	}
	if len(store.entries) != 1 {
		t.Fatalf("expected a single entry, got %d", len(store.entries))
	}
	if events.count("wear_entries", realtime.Update, "u1") != 1 {
		t.Fatalf("expected an update event, got %+v", events.events)
	}
}

func TestUpdateMovingOntoSameItemConflicts(t *testing.T) {
	d1 := mustDate(t, "2024-03-01")
	d2 := mustDate(t, "2024-03-02")
	svc, _, _ := newWearFixture(t,
		models.WearEntry{ID: "w1", UserID: "u1", ItemID: "watch", WornOn: d1, Days: 1},
		models.WearEntry{ID: "w2", UserID: "u1", ItemID: "watch", WornOn: d2, Days: 0.5},
	)

	_, err := svc.Update(context.Background(), "u1", "w1", models.WearInput{ItemID: "watch", WornOn: d2, Days: 0.5})
	if !errors.Is(err, models.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestUpdateDoesNotCountItself(t *testing.T) {
	day := mustDate(t, "2024-03-01")
	svc, _, _ := newWearFixture(t,
		models.WearEntry{ID: "w1", UserID: "u1", ItemID: "watch", WornOn: day, Days: 0.5},
		models.WearEntry{ID: "w2", UserID: "u1", ItemID: "sneaker", WornOn: day, Days: 0.5},
	)

	res, err := svc.Update(context.Background(), "u1", "w1", models.WearInput{ItemID: "watch", WornOn: day, Days: 0.5})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if res.Entry.ID != "w1" {
		t.Fatalf("unexpected entry %+v", res.Entry)
	}
}

func TestRecordValidation(t *testing.T) {
	svc, _, _ := newWearFixture(t)
	day := mustDate(t, "2024-03-01")

	cases := []struct {
		name string
		in   models.WearInput
		want error
	}{
		{"zero days", models.WearInput{ItemID: "watch", WornOn: day, Days: 0}, wear.ErrInvalidDays},
		{"too many days", models.WearInput{ItemID: "watch", WornOn: day, Days: 1.5}, wear.ErrInvalidDays},
		{"missing item", models.WearInput{WornOn: day, Days: 1}, models.ErrInvalidInput},
		{"unknown item", models.WearInput{ItemID: "nope", WornOn: day, Days: 1}, models.ErrInvalidInput},
		{"future", models.WearInput{ItemID: "watch", WornOn: mustDate(t, "2999-01-01"), Days: 1}, models.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Record(context.Background(), "u1", tc.in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestDayReportsRemaining(t *testing.T) {
	day := mustDate(t, "2024-03-01")
	svc, _, _ := newWearFixture(t, models.WearEntry{ID: "w1", UserID: "u1", ItemID: "watch", WornOn: day, Days: 0.25})

	got, err := svc.Day(context.Background(), "u1", day)
	if err != nil {
		t.Fatalf("Day: %v", err)
	}
	if got.Remaining != 0.75 || len(got.Entries) != 1 {
		t.Fatalf("unexpected day %+v", got)
	}
}

func TestRecordRoundsDaysToStoredPrecision(t *testing.T) {
	day := mustDate(t, "2024-03-01")
	svc, store, _ := newWearFixture(t)

	res, err := svc.Record(context.Background(), "u1", models.WearInput{ItemID: "watch", WornOn: day, Days: 0.3334})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if res.Entry.Days != 0.333 {
		t.Fatalf("expected days rounded to 0.333, got %v", res.Entry.Days)
	}
	if store.entries[res.Entry.ID].Days != 0.333 {
		t.Fatalf("stored days not rounded: %v", store.entries[res.Entry.ID].Days)
	}
	if _, err := svc.Record(context.Background(), "u1", models.WearInput{ItemID: "sneaker", WornOn: day, Days: 0.0004}); !errors.Is(err, wear.ErrInvalidDays) {
		t.Fatalf("expected days rounding to zero to be rejected, got %v", err)
	}
}
