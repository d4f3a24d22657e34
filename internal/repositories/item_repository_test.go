package repositories

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"soravault/internal/models"
)

var itemCols = []string{"id", "user_id", "collection_id", "category", "brand", "model", "reference", "serial_number", "nickname",
	"purchase_date", "purchase_price", "current_value", "value_updated_at", "condition", "status", "sold_date", "sold_price",
	"warranty_expiry", "water_resistance_m", "metadata", "image_url", "ai_image_url", "notes", "created_at", "updated_at"}

func itemRows() *sqlmock.Rows { return sqlmock.NewRows(itemCols) }

func itemRow(id, userID, category, brand, model string, at time.Time) []driver.Value {
	return []driver.Value{id, userID, nil, category, brand, model, nil, nil, nil,
		nil, nil, nil, nil, nil, "active", nil, nil,
		nil, nil, []byte(`{}`), nil, nil, nil, at, at}
}

func TestItemGetScopedByOwner(t *testing.T) {
	db, mock := newMock(t)
	repo := &ItemRepository{DB: db}

	mock.ExpectQuery(`SELECT .* FROM items WHERE id = \$1 AND user_id = \$2`).
		WithArgs("item-1", "intruder").
		WillReturnRows(itemRows())

	_, err := repo.Get(context.Background(), "intruder", "item-1")
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign item, got %v", err)
	}
}

func TestItemListFilters(t *testing.T) {
	db, mock := newMock(t)
	repo := &ItemRepository{DB: db}
	now := time.Now()

	mock.ExpectQuery(`FROM items WHERE user_id = \$1 AND status = \$2 AND category = \$3 ORDER BY created_at DESC`).
		WithArgs("user-1", "active", "watch").
		WillReturnRows(itemRows().AddRow(itemRow("item-1", "user-1", "watch", "Omega", "Seamaster", now)...))

	items, err := repo.List(context.Background(), "user-1", models.ItemFilter{Status: "active", Category: "watch"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || items[0].Brand != "Omega" || items[0].Metadata == nil {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestItemSetValueRecordsPricePoint(t *testing.T) {
	db, mock := newMock(t)
	repo := &ItemRepository{DB: db}
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE items SET current_value = \$3`).
		WithArgs("item-1", "user-1", 4200.0).
		WillReturnRows(itemRows().AddRow(itemRow("item-1", "user-1", "watch", "Omega", "Seamaster", now)...))
	mock.ExpectExec(`INSERT INTO price_points`).
		WithArgs("item-1", 4200.0, models.PriceSourceAI).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if _, err := repo.SetValue(context.Background(), "user-1", "item-1", 4200, models.PriceSourceAI); err != nil {
		t.Fatalf("SetValue: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestItemCreateWithValueRecordsPricePoint(t *testing.T) {
	db, mock := newMock(t)
	repo := &ItemRepository{DB: db}
	now := time.Now()
	value := 9500.0

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO items`).
		WillReturnRows(itemRows().AddRow(itemRow("item-1", "user-1", "watch", "Omega", "Seamaster", now)...))
	mock.ExpectExec(`INSERT INTO price_points`).
		WithArgs("item-1", value, models.PriceSourceManual).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	it := models.Item{UserID: "user-1", Category: "watch", Brand: "Omega", Model: "Seamaster", CurrentValue: &value}
	if _, err := repo.Create(context.Background(), it); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestItemCreateRollsBackWhenPricePointFails(t *testing.T) {
	db, mock := newMock(t)
	repo := &ItemRepository{DB: db}
	now := time.Now()
	value := 9500.0

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO items`).
		WillReturnRows(itemRows().AddRow(itemRow("item-1", "user-1", "watch", "Omega", "Seamaster", now)...))
	mock.ExpectExec(`INSERT INTO price_points`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	it := models.Item{UserID: "user-1", Category: "watch", Brand: "Omega", Model: "Seamaster", CurrentValue: &value}
	if _, err := repo.Create(context.Background(), it); err == nil {
		t.Fatalf("expected price point failure to fail the create")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestItemUpdateWithoutValueSkipsPricePoint(t *testing.T) {
	db, mock := newMock(t)
	repo := &ItemRepository{DB: db}
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE items SET\s+collection_id = \$3`).
		WillReturnRows(itemRows().AddRow(itemRow("item-1", "user-1", "watch", "Omega", "Seamaster", now)...))
	mock.ExpectCommit()

	it := models.Item{ID: "item-1", UserID: "user-1", Category: "watch", Brand: "Omega", Model: "Seamaster"}
	if _, err := repo.Update(context.Background(), it, nil); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestItemUpdateRollsBackWhenPricePointFails(t *testing.T) {
	db, mock := newMock(t)
	repo := &ItemRepository{DB: db}
	now := time.Now()
	value := 120.0

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE items SET\s+collection_id = \$3`).
		WillReturnRows(itemRows().AddRow(itemRow("item-1", "user-1", "watch", "Omega", "Seamaster", now)...))
	mock.ExpectQuery(`UPDATE items SET current_value = \$3`).
		WithArgs("item-1", "user-1", value).
		WillReturnRows(itemRows().AddRow(itemRow("item-1", "user-1", "watch", "Omega", "Seamaster", now)...))
	mock.ExpectExec(`INSERT INTO price_points`).
		WithArgs("item-1", value, models.PriceSourceManual).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	it := models.Item{ID: "item-1", UserID: "user-1", Category: "watch", Brand: "Omega", Model: "Seamaster"}
	if _, err := repo.Update(context.Background(), it, &value); err == nil {
		t.Fatalf("expected price point failure to fail the update")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
