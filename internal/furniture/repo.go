package furniture

import (
	"context"

	"github.com/artemvolkov/furnistock-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes furniture persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a furniture repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repo bound to the provided transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new catalog item.
func (r *Repository) Create(ctx context.Context, item *models.Furniture) (*models.Furniture, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// FindByID loads a catalog item by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Furniture, error) {
	var item models.Furniture
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// List returns the catalog, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Furniture, error) {
	var items []models.Furniture
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Save persists the full furniture record.
func (r *Repository) Save(ctx context.Context, item *models.Furniture) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// WarehouseIDsHolding returns the ids of warehouses with a stock line for
// the furniture item.
func (r *Repository) WarehouseIDsHolding(ctx context.Context, furnitureID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.StockLine{}).
		Where("furniture_id = ?", furnitureID).
		Pluck("warehouse_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// DeleteLinesFor removes every stock line referencing the furniture item.
func (r *Repository) DeleteLinesFor(ctx context.Context, furnitureID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("furniture_id = ?", furnitureID).
		Delete(&models.StockLine{}).Error
}

// UnlinkBarcodes clears the furniture reference on associated barcodes so the
// records survive catalog deletion.
func (r *Repository) UnlinkBarcodes(ctx context.Context, furnitureID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Barcode{}).
		Where("furniture_id = ?", furnitureID).
		Update("furniture_id", nil).Error
}

// RecomputeWarehouseStock rewrites current_stock from the line sum.
func (r *Repository) RecomputeWarehouseStock(ctx context.Context, warehouseID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Warehouse{}).
		Where("id = ?", warehouseID).
		UpdateColumn("current_stock", gorm.Expr(
			"(SELECT COALESCE(SUM(quantity), 0) FROM warehouse_stock_lines WHERE warehouse_id = ?)",
			warehouseID,
		)).Error
}

// Delete removes the catalog row itself.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Furniture{}, "id = ?", id).Error
}
