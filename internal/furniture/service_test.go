package furniture

import (
	"context"
	"testing"
	"time"

	"github.com/artemvolkov/furnistock-backend/pkg/db"
	"github.com/artemvolkov/furnistock-backend/pkg/db/models"
	pkgerrors "github.com/artemvolkov/furnistock-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupFurnitureTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS furniture (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  image_url TEXT NOT NULL DEFAULT '',
  dimensions TEXT,
  price NUMERIC NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS warehouses (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  address TEXT NOT NULL DEFAULT '',
  city TEXT NOT NULL DEFAULT '',
  country TEXT NOT NULL DEFAULT '',
  lat REAL,
  lng REAL,
  capacity INTEGER NOT NULL,
  current_stock INTEGER NOT NULL DEFAULT 0,
  manager_id TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS warehouse_stock_lines (
  warehouse_id TEXT NOT NULL,
  furniture_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  last_updated DATETIME NOT NULL,
  PRIMARY KEY (warehouse_id, furniture_id)
);`,
		`CREATE TABLE IF NOT EXISTS barcodes (
  id TEXT PRIMARY KEY,
  type TEXT NOT NULL,
  data TEXT NOT NULL,
  image_url TEXT NOT NULL DEFAULT '',
  furniture_id TEXT,
  created_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func newFurnitureService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	conn := setupFurnitureTestDB(t)
	svc, err := NewService(db.NewWithConn(conn), NewRepository(conn))
	require.NoError(t, err)
	return svc, conn
}

func seedWarehouse(t *testing.T, conn *gorm.DB, stock int) *models.Warehouse {
	t.Helper()

	w := &models.Warehouse{
		ID:           uuid.New(),
		Name:         "Central",
		Address:      "1 Dock Rd",
		City:         "Rotterdam",
		Country:      "NL",
		Capacity:     1000,
		CurrentStock: stock,
		ManagerID:    uuid.New(),
		IsActive:     true,
	}
	require.NoError(t, conn.Create(w).Error)
	return w
}

func seedLine(t *testing.T, conn *gorm.DB, warehouseID, furnitureID uuid.UUID, qty int) {
	t.Helper()

	line := &models.StockLine{
		WarehouseID: warehouseID,
		FurnitureID: furnitureID,
		Quantity:    qty,
		LastUpdated: time.Now().UTC(),
	}
	require.NoError(t, conn.Create(line).Error)
}

func TestCreateAndGetFurniture(t *testing.T) {
	svc, _ := newFurnitureService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{
		Name:        "Oak Desk",
		Description: "140x70 writing desk",
		Price:       decimal.RequireFromString("249.99"),
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Oak Desk", got.Name)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("249.99")))
}

func TestCreateRejectsNegativePrice(t *testing.T) {
	svc, _ := newFurnitureService(t)

	_, err := svc.Create(context.Background(), CreateInput{
		Name:  "Broken Chair",
		Price: decimal.RequireFromString("-1"),
	})
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestCreateRejectsBlankName(t *testing.T) {
	svc, _ := newFurnitureService(t)

	_, err := svc.Create(context.Background(), CreateInput{Name: "   "})
	require.Error(t, err)
}

func TestUpdateAppliesPartialChanges(t *testing.T) {
	svc, _ := newFurnitureService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{Name: "Oak Desk", Price: decimal.NewFromInt(100)})
	require.NoError(t, err)

	newName := "Walnut Desk"
	newPrice := decimal.NewFromInt(150)
	updated, err := svc.Update(ctx, created.ID, UpdateInput{Name: &newName, Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, "Walnut Desk", updated.Name)
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(150)))
}

func TestUpdateMissingItemReturnsNotFound(t *testing.T) {
	svc, _ := newFurnitureService(t)

	name := "Ghost"
	_, err := svc.Update(context.Background(), uuid.New(), UpdateInput{Name: &name})
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestDeleteCascadesLinesAndRecomputesStock(t *testing.T) {
	svc, conn := newFurnitureService(t)
	ctx := context.Background()

	desk, err := svc.Create(ctx, CreateInput{Name: "Desk", Price: decimal.NewFromInt(100)})
	require.NoError(t, err)
	chair, err := svc.Create(ctx, CreateInput{Name: "Chair", Price: decimal.NewFromInt(40)})
	require.NoError(t, err)

	w1 := seedWarehouse(t, conn, 30)
	w2 := seedWarehouse(t, conn, 5)
	seedLine(t, conn, w1.ID, desk.ID, 20)
	seedLine(t, conn, w1.ID, chair.ID, 10)
	seedLine(t, conn, w2.ID, desk.ID, 5)

	require.NoError(t, svc.Delete(ctx, desk.ID))

	_, err = svc.Get(ctx, desk.ID)
	require.Error(t, err)

	var lineCount int64
	require.NoError(t, conn.Model(&models.StockLine{}).Where("furniture_id = ?", desk.ID).Count(&lineCount).Error)
	assert.Zero(t, lineCount)

	var reloaded1, reloaded2 models.Warehouse
	require.NoError(t, conn.First(&reloaded1, "id = ?", w1.ID).Error)
	require.NoError(t, conn.First(&reloaded2, "id = ?", w2.ID).Error)
	assert.Equal(t, 10, reloaded1.CurrentStock)
	assert.Equal(t, 0, reloaded2.CurrentStock)
}

func TestDeleteUnlinksBarcodes(t *testing.T) {
	svc, conn := newFurnitureService(t)
	ctx := context.Background()

	desk, err := svc.Create(ctx, CreateInput{Name: "Desk", Price: decimal.NewFromInt(100)})
	require.NoError(t, err)

	code := &models.Barcode{
		ID:          uuid.New(),
		Type:        "code128",
		Data:        "DESK-0001",
		ImageURL:    "/barcodes/desk.png",
		FurnitureID: &desk.ID,
	}
	require.NoError(t, conn.Create(code).Error)

	require.NoError(t, svc.Delete(ctx, desk.ID))

	var reloaded models.Barcode
	require.NoError(t, conn.First(&reloaded, "id = ?", code.ID).Error)
	assert.Nil(t, reloaded.FurnitureID)
}

func TestDeleteMissingItemReturnsNotFound(t *testing.T) {
	svc, _ := newFurnitureService(t)

	err := svc.Delete(context.Background(), uuid.New())
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestListReturnsCatalog(t *testing.T) {
	svc, _ := newFurnitureService(t)
	ctx := context.Background()

	for _, name := range []string{"Desk", "Chair", "Lamp"} {
		_, err := svc.Create(ctx, CreateInput{Name: name, Price: decimal.NewFromInt(10)})
		require.NoError(t, err)
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}
