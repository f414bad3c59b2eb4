package warehouse

import (
	"context"

	"github.com/artemvolkov/furnistock-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes warehouse and stock line persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a warehouse repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repo bound to the provided transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreateWarehouse inserts a new storage site.
func (r *Repository) CreateWarehouse(ctx context.Context, w *models.Warehouse) (*models.Warehouse, error) {
	if err := r.db.WithContext(ctx).Create(w).Error; err != nil {
		return nil, err
	}
	return w, nil
}

// FindWarehouseByID loads a warehouse by its UUID.
func (r *Repository) FindWarehouseByID(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	var w models.Warehouse
	if err := r.db.WithContext(ctx).First(&w, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

// ListActive returns every active warehouse, newest first.
func (r *Repository) ListActive(ctx context.Context) ([]models.Warehouse, error) {
	var list []models.Warehouse
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// SaveWarehouse persists the full warehouse record.
func (r *Repository) SaveWarehouse(ctx context.Context, w *models.Warehouse) error {
	return r.db.WithContext(ctx).Save(w).Error
}

// SetActive flips the warehouse soft-delete flag.
func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Warehouse{}).
		Where("id = ?", id).
		UpdateColumn("is_active", active).Error
}

// UserExists reports whether a user row with the given id exists.
func (r *Repository) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FurnitureExists reports whether a catalog row with the given id exists.
func (r *Repository) FurnitureExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Furniture{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindLine loads the stock line for one (warehouse, furniture) pair.
func (r *Repository) FindLine(ctx context.Context, warehouseID, furnitureID uuid.UUID) (*models.StockLine, error) {
	var line models.StockLine
	err := r.db.WithContext(ctx).
		Where("warehouse_id = ? AND furniture_id = ?", warehouseID, furnitureID).
		First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// CreateLine inserts a fresh stock line.
func (r *Repository) CreateLine(ctx context.Context, line *models.StockLine) error {
	return r.db.WithContext(ctx).Create(line).Error
}

// UpdateLineQuantity rewrites a line's quantity and touch timestamp.
func (r *Repository) UpdateLineQuantity(ctx context.Context, line *models.StockLine) error {
	return r.db.WithContext(ctx).
		Model(&models.StockLine{}).
		Where("warehouse_id = ? AND furniture_id = ?", line.WarehouseID, line.FurnitureID).
		Updates(map[string]any{
			"quantity":     line.Quantity,
			"last_updated": line.LastUpdated,
		}).Error
}

// DeleteLine removes one stock line. Lines at quantity zero are deleted,
// never kept.
func (r *Repository) DeleteLine(ctx context.Context, warehouseID, furnitureID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("warehouse_id = ? AND furniture_id = ?", warehouseID, furnitureID).
		Delete(&models.StockLine{}).Error
}

// LinesFor returns every line of a warehouse with furniture resolved.
func (r *Repository) LinesFor(ctx context.Context, warehouseID uuid.UUID) ([]models.StockLine, error) {
	var lines []models.StockLine
	err := r.db.WithContext(ctx).
		Preload("Furniture").
		Where("warehouse_id = ?", warehouseID).
		Order("furniture_id").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// LinesHolding returns, for one furniture item, each active warehouse
// carrying a non-zero line.
func (r *Repository) LinesHolding(ctx context.Context, furnitureID uuid.UUID) ([]models.StockLine, []models.Warehouse, error) {
	var lines []models.StockLine
	err := r.db.WithContext(ctx).
		Where("furniture_id = ? AND quantity > 0", furnitureID).
		Find(&lines).Error
	if err != nil {
		return nil, nil, err
	}
	if len(lines) == 0 {
		return nil, nil, nil
	}

	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.WarehouseID)
	}

	var warehouses []models.Warehouse
	err = r.db.WithContext(ctx).
		Where("id IN ? AND is_active = ?", ids, true).
		Find(&warehouses).Error
	if err != nil {
		return nil, nil, err
	}
	return lines, warehouses, nil
}

// RecomputeStock rewrites current_stock from the line sum. Runs inside the
// same transaction as the line mutation it follows.
func (r *Repository) RecomputeStock(ctx context.Context, warehouseID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Warehouse{}).
		Where("id = ?", warehouseID).
		UpdateColumn("current_stock", gorm.Expr(
			"(SELECT COALESCE(SUM(quantity), 0) FROM warehouse_stock_lines WHERE warehouse_id = ?)",
			warehouseID,
		)).Error
}
