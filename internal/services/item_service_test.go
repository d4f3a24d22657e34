package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"soravault/internal/models"
)

type fakeWater struct {
	WaterStore
	created []models.WaterUsage
}

func (f *fakeWater) Create(_ context.Context, u models.WaterUsage) (models.WaterUsage, error) {
	u.ID = "water-1"
	f.created = append(f.created, u)
	return u, nil
}

func ptr[T any](v T) *T { return &v }

func TestCreateItemRecordsManualValue(t *testing.T) {
	items := newFakeItems()
	svc := NewItemService(items, &fakeCollections{}, nil, nil, nil, nil, nil)

	out, err := svc.Create(context.Background(), "u1", models.Item{
		Category:     models.CategoryWatch,
		Brand:        " Rolex ",
		Model:        "Submariner",
		CurrentValue: ptr(9500.0),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if out.Brand != "Rolex" || out.Status != models.StatusActive || out.UserID != "u1" {
		t.Fatalf("unexpected item %+v", out)
	}
	if len(items.values) != 1 || items.values[0].Source != models.PriceSourceManual || items.values[0].Value != 9500 {
		t.Fatalf("expected one manual price point, got %+v", items.values)
	}
}

func TestCreateItemValidation(t *testing.T) {
	svc := NewItemService(newFakeItems(), &fakeCollections{owned: map[string]string{"c1": "u1"}}, nil, nil, nil, nil, nil)

	cases := map[string]models.Item{
		"missing brand":      {Category: models.CategoryWatch, Model: "X"},
		"bad category":       {Category: "car", Brand: "B", Model: "X"},
		"negative price":     {Category: models.CategoryPurse, Brand: "B", Model: "X", PurchasePrice: ptr(-1.0)},
		"foreign collection": {Category: models.CategorySneaker, Brand: "B", Model: "X", CollectionID: ptr("c2")},
	}
	for name, it := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), "u1", it); !errors.Is(err, models.ErrInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
		})
	}
}

func TestUpdateItemOnlyRecordsChangedValue(t *testing.T) {
	items := newFakeItems(models.Item{ID: "i1", UserID: "u1", Category: models.CategoryWatch, Brand: "B", Model: "M", CurrentValue: ptr(100.0)})
	svc := NewItemService(items, &fakeCollections{}, nil, nil, nil, nil, nil)

	edit := models.Item{Category: models.CategoryWatch, Brand: "B", Model: "M", CurrentValue: ptr(100.0)}
	if _, err := svc.Update(context.Background(), "u1", "i1", edit); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if len(items.values) != 0 {
		t.Fatalf("unchanged value must not add a price point")
	}

	edit.CurrentValue = ptr(120.0)
	out, err := svc.Update(context.Background(), "u1", "i1", edit)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if *out.CurrentValue != 120 || len(items.values) != 1 {
		t.Fatalf("expected new value recorded, got %+v / %+v", out, items.values)
	}
}

func TestSellRejectsActiveStatus(t *testing.T) {
	items := newFakeItems(models.Item{ID: "i1", UserID: "u1"})
	svc := NewItemService(items, nil, nil, nil, nil, nil, nil)
	_, err := svc.Sell(context.Background(), "u1", "i1", models.SellRequest{Status: models.StatusActive})
	if !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestWaterWarnsBeyondRating(t *testing.T) {
	items := newFakeItems(models.Item{ID: "i1", UserID: "u1", Brand: "Seiko", Model: "SKX", WaterResistanceM: ptr(200)})
	water := &fakeWater{}
	svc := NewWaterService(water, items, nil, nil)
	day := mustDate(t, "2024-06-01")

	res, err := svc.Record(context.Background(), "u1", models.WaterUsage{ItemID: "i1", UsedOn: day, Activity: "dive", DepthM: ptr(30.0)})
	if err != nil || res.Warning != "" {
		t.Fatalf("shallow dive: %+v %v", res, err)
	}

	res, err = svc.Record(context.Background(), "u1", models.WaterUsage{ItemID: "i1", UsedOn: day, Activity: "dive", DepthM: ptr(250.0)})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if !strings.Contains(res.Warning, "200m") {
		t.Fatalf("expected a depth warning, got %q", res.Warning)
	}
	if len(water.created) != 2 {
		t.Fatalf("warning must not block the record")
	}

	if _, err := svc.Record(context.Background(), "u1", models.WaterUsage{ItemID: "i1", UsedOn: day, Activity: "surf"}); !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("expected invalid activity, got %v", err)
	}
}

func TestTripEndBeforeStart(t *testing.T) {
	trip := models.Trip{Name: "Tokyo", StartDate: mustDate(t, "2024-05-10"), EndDate: mustDate(t, "2024-05-01")}
	if err := validateTrip(&trip); !errors.Is(err, models.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}

	trip = models.Trip{Name: "Day trip", StartDate: mustDate(t, "2024-05-10")}
	if err := validateTrip(&trip); err != nil || !trip.EndDate.Equal(trip.StartDate.Time) {
		t.Fatalf("single-day trip: %+v %v", trip, err)
	}
}

func TestDefaultUsername(t *testing.T) {
	if got := defaultUsername("3f2b1c4d-aaaa-bbbb-cccc-000000000000"); got != "user_3f2b1c4daaaa" {
		t.Fatalf("unexpected username %q", got)
	}
}
