package warehouse

import (
	"context"
	"testing"

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

func setupWarehouseTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  full_name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'moderator',
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
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
	}
	for _, stmt := range statements {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func newWarehouseService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	conn := setupWarehouseTestDB(t)
	svc, err := NewService(db.NewWithConn(conn), NewRepository(conn))
	require.NoError(t, err)
	return svc, conn
}

func seedManager(t *testing.T, conn *gorm.DB) *models.User {
	t.Helper()

	u := &models.User{
		ID:           uuid.New(),
		FullName:     "Site Manager",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		Role:         "manager",
		IsActive:     true,
	}
	require.NoError(t, conn.Create(u).Error)
	return u
}

func seedFurniture(t *testing.T, conn *gorm.DB, name string) *models.Furniture {
	t.Helper()

	f := &models.Furniture{
		ID:    uuid.New(),
		Name:  name,
		Price: decimal.NewFromInt(100),
	}
	require.NoError(t, conn.Create(f).Error)
	return f
}

func mustCreateWarehouse(t *testing.T, svc Service, conn *gorm.DB, capacity int) *WarehouseDTO {
	t.Helper()

	manager := seedManager(t, conn)
	w, err := svc.CreateWarehouse(context.Background(), CreateWarehouseInput{
		Name:      "Central " + uuid.NewString()[:8],
		Address:   "1 Dock Rd",
		City:      "Rotterdam",
		Country:   "NL",
		Capacity:  capacity,
		ManagerID: manager.ID,
	})
	require.NoError(t, err)
	return w
}

func currentStock(t *testing.T, conn *gorm.DB, warehouseID uuid.UUID) int {
	t.Helper()

	var w models.Warehouse
	require.NoError(t, conn.First(&w, "id = ?", warehouseID).Error)
	return w.CurrentStock
}

func lineQuantity(t *testing.T, conn *gorm.DB, warehouseID, furnitureID uuid.UUID) (int, bool) {
	t.Helper()

	var line models.StockLine
	err := conn.Where("warehouse_id = ? AND furniture_id = ?", warehouseID, furnitureID).First(&line).Error
	if err == gorm.ErrRecordNotFound {
		return 0, false
	}
	require.NoError(t, err)
	return line.Quantity, true
}

func TestCreateWarehouseRejectsZeroCapacity(t *testing.T) {
	svc, conn := newWarehouseService(t)
	manager := seedManager(t, conn)

	_, err := svc.CreateWarehouse(context.Background(), CreateWarehouseInput{
		Name:      "Tiny",
		Capacity:  0,
		ManagerID: manager.ID,
	})
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestCreateWarehouseRejectsUnknownManager(t *testing.T) {
	svc, _ := newWarehouseService(t)

	_, err := svc.CreateWarehouse(context.Background(), CreateWarehouseInput{
		Name:      "Orphan",
		Capacity:  10,
		ManagerID: uuid.New(),
	})
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestAddStockCreatesLineAndRecomputes(t *testing.T) {
	svc, conn := newWarehouseService(t)
	ctx := context.Background()

	w := mustCreateWarehouse(t, svc, conn, 1000)
	desk := seedFurniture(t, conn, "Desk")

	result, err := svc.AddStock(ctx, w.ID, desk.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Quantity)
	assert.Equal(t, 5, result.CurrentStock)

	// Adding again to the same pair increments the existing line.
	result, err = svc.AddStock(ctx, w.ID, desk.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 8, result.Quantity)
	assert.Equal(t, 8, result.CurrentStock)

	qty, found := lineQuantity(t, conn, w.ID, desk.ID)
	require.True(t, found)
	assert.Equal(t, 8, qty)
	assert.Equal(t, 8, currentStock(t, conn, w.ID))
}

func TestAddStockUnknownWarehouseOrFurniture(t *testing.T) {
	svc, conn := newWarehouseService(t)
	ctx := context.Background()

	w := mustCreateWarehouse(t, svc, conn, 1000)
	desk := seedFurniture(t, conn, "Desk")

	_, err := svc.AddStock(ctx, uuid.New(), desk.ID, 5)
	require.Error(t, err)
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())

	_, err = svc.AddStock(ctx, w.ID, uuid.New(), 5)
	require.Error(t, err)
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestAddStockRejectsNonPositiveQuantity(t *testing.T) {
	svc, conn := newWarehouseService(t)

	w := mustCreateWarehouse(t, svc, conn, 1000)
	desk := seedFurniture(t, conn, "Desk")

	for _, qty := range []int{0, -3} {
		_, err := svc.AddStock(context.Background(), w.ID, desk.ID, qty)
		require.Error(t, err)
		appErr := pkgerrors.As(err)
		require.NotNil(t, appErr)
		assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
	}
}

func TestRemoveStockDecrementsAndDeletesAtZero(t *testing.T) {
	svc, conn := newWarehouseService(t)
	ctx := context.Background()

	w := mustCreateWarehouse(t, svc, conn, 1000)
	desk := seedFurniture(t, conn, "Desk")

	_, err := svc.AddStock(ctx, w.ID, desk.ID, 10)
	require.NoError(t, err)

	result, err := svc.RemoveStock(ctx, w.ID, desk.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 6, result.Quantity)
	assert.Equal(t, 6, result.CurrentStock)

	// Removing the remainder deletes the line instead of keeping a zero row.
	result, err = svc.RemoveStock(ctx, w.ID, desk.ID, 6)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Quantity)
	assert.Equal(t, 0, result.CurrentStock)

	_, found := lineQuantity(t, conn, w.ID, desk.ID)
	assert.False(t, found)
}

func TestRemoveStockInsufficientLeavesStateUnchanged(t *testing.T) {
	svc, conn := newWarehouseService(t)
	ctx := context.Background()

	w := mustCreateWarehouse(t, svc, conn, 1000)
	desk := seedFurniture(t, conn, "Desk")

	_, err := svc.AddStock(ctx, w.ID, desk.ID, 3)
	require.NoError(t, err)

	_, err = svc.RemoveStock(ctx, w.ID, desk.ID, 5)
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, appErr.Code())

	qty, found := lineQuantity(t, conn, w.ID, desk.ID)
	require.True(t, found)
	assert.Equal(t, 3, qty)
	assert.Equal(t, 3, currentStock(t, conn, w.ID))
}

func TestRemoveStockMissingLineIsNotFound(t *testing.T) {
	svc, conn := newWarehouseService(t)

	w := mustCreateWarehouse(t, svc, conn, 1000)
	desk := seedFurniture(t, conn, "Desk")

	_, err := svc.RemoveStock(context.Background(), w.ID, desk.ID, 1)
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestTransferStockMovesQuantityAtomically(t *testing.T) {
	svc, conn := newWarehouseService(t)
	ctx := context.Background()

	from := mustCreateWarehouse(t, svc, conn, 1000)
	to := mustCreateWarehouse(t, svc, conn, 1000)
	desk := seedFurniture(t, conn, "Desk")

	_, err := svc.AddStock(ctx, from.ID, desk.ID, 10)
	require.NoError(t, err)

	result, err := svc.TransferStock(ctx, from.ID, to.ID, desk.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 6, result.From.Quantity)
	assert.Equal(t, 4, result.To.Quantity)

	assert.Equal(t, 6, currentStock(t, conn, from.ID))
	assert.Equal(t, 4, currentStock(t, conn, to.ID))
}

func TestTransferStockRollsBackWhenDestinationMissing(t *testing.T) {
	svc, conn := newWarehouseService(t)
	ctx := context.Background()

	from := mustCreateWarehouse(t, svc, conn, 1000)
	desk := seedFurniture(t, conn, "Desk")

	_, err := svc.AddStock(ctx, from.ID, desk.ID, 10)
	require.NoError(t, err)

	_, err = svc.TransferStock(ctx, from.ID, uuid.New(), desk.ID, 4)
	require.Error(t, err)

	// Source is untouched: the failed destination add rolled the whole
	// transfer back.
	qty, found := lineQuantity(t, conn, from.ID, desk.ID)
	require.True(t, found)
	assert.Equal(t, 10, qty)
	assert.Equal(t, 10, currentStock(t, conn, from.ID))
}

func TestTransferStockRejectsSelfTransfer(t *testing.T) {
	svc, conn := newWarehouseService(t)

	w := mustCreateWarehouse(t, svc, conn, 1000)
	desk := seedFurniture(t, conn, "Desk")

	_, err := svc.TransferStock(context.Background(), w.ID, w.ID, desk.ID, 1)
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestTransferStockInsufficientSourceFails(t *testing.T) {
	svc, conn := newWarehouseService(t)
	ctx := context.Background()

	from := mustCreateWarehouse(t, svc, conn, 1000)
	to := mustCreateWarehouse(t, svc, conn, 1000)
	desk := seedFurniture(t, conn, "Desk")

	_, err := svc.AddStock(ctx, from.ID, desk.ID, 2)
	require.NoError(t, err)

	_, err = svc.TransferStock(ctx, from.ID, to.ID, desk.ID, 5)
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeInsufficientStock, appErr.Code())

	assert.Equal(t, 2, currentStock(t, conn, from.ID))
	assert.Equal(t, 0, currentStock(t, conn, to.ID))
}

func TestAvailabilityListsOnlyActiveWarehousesWithStock(t *testing.T) {
	svc, conn := newWarehouseService(t)
	ctx := context.Background()

	w1 := mustCreateWarehouse(t, svc, conn, 1000)
	w2 := mustCreateWarehouse(t, svc, conn, 1000)
	w3 := mustCreateWarehouse(t, svc, conn, 1000)
	desk := seedFurniture(t, conn, "Desk")

	_, err := svc.AddStock(ctx, w1.ID, desk.ID, 5)
	require.NoError(t, err)
	_, err = svc.AddStock(ctx, w2.ID, desk.ID, 7)
	require.NoError(t, err)

	// w3 never stocked the desk; w2 gets deactivated.
	require.NoError(t, svc.DeleteWarehouse(ctx, w2.ID))

	entries, err := svc.Availability(ctx, desk.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, w1.ID, entries[0].WarehouseID)
	assert.Equal(t, 5, entries[0].Quantity)
	assert.NotEqual(t, w3.ID, entries[0].WarehouseID)
}

func TestAvailabilityUnknownFurnitureIsNotFound(t *testing.T) {
	svc, _ := newWarehouseService(t)

	_, err := svc.Availability(context.Background(), uuid.New())
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}

func TestStockReportComputesUtilization(t *testing.T) {
	svc, conn := newWarehouseService(t)
	ctx := context.Background()

	w := mustCreateWarehouse(t, svc, conn, 100)
	desk := seedFurniture(t, conn, "Desk")
	chair := seedFurniture(t, conn, "Chair")

	_, err := svc.AddStock(ctx, w.ID, desk.ID, 20)
	require.NoError(t, err)
	_, err = svc.AddStock(ctx, w.ID, chair.ID, 5)
	require.NoError(t, err)

	report, err := svc.StockReport(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, report.Capacity)
	assert.Equal(t, 25, report.CurrentStock)
	assert.InDelta(t, 25.0, report.UtilizationPct, 0.001)
	assert.Len(t, report.Lines, 2)
}

func TestStockReportGuardsZeroCapacityRows(t *testing.T) {
	svc, conn := newWarehouseService(t)

	// Legacy row predating the creation guard.
	w := &models.Warehouse{
		ID:        uuid.New(),
		Name:      "Legacy",
		Capacity:  0,
		ManagerID: uuid.New(),
		IsActive:  true,
	}
	require.NoError(t, conn.Create(w).Error)

	report, err := svc.StockReport(context.Background(), w.ID)
	require.NoError(t, err)
	assert.Zero(t, report.UtilizationPct)
}

func TestUpdateWarehouseAllowListedFields(t *testing.T) {
	svc, conn := newWarehouseService(t)
	ctx := context.Background()

	w := mustCreateWarehouse(t, svc, conn, 100)

	newName := "North Hub"
	newCapacity := 250
	updated, err := svc.UpdateWarehouse(ctx, w.ID, UpdateWarehouseInput{
		Name:     &newName,
		Capacity: &newCapacity,
	})
	require.NoError(t, err)
	assert.Equal(t, "North Hub", updated.Name)
	assert.Equal(t, 250, updated.Capacity)

	badCapacity := 0
	_, err = svc.UpdateWarehouse(ctx, w.ID, UpdateWarehouseInput{Capacity: &badCapacity})
	require.Error(t, err)
}

func TestDeleteWarehouseIsSoft(t *testing.T) {
	svc, conn := newWarehouseService(t)
	ctx := context.Background()

	w := mustCreateWarehouse(t, svc, conn, 100)
	require.NoError(t, svc.DeleteWarehouse(ctx, w.ID))

	// Row survives; listing skips it.
	var reloaded models.Warehouse
	require.NoError(t, conn.First(&reloaded, "id = ?", w.ID).Error)
	assert.False(t, reloaded.IsActive)

	list, err := svc.ListWarehouses(ctx)
	require.NoError(t, err)
	for _, item := range list {
		assert.NotEqual(t, w.ID, item.ID)
	}
}
