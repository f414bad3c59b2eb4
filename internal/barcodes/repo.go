package barcodes

import (
	"context"

	"github.com/artemvolkov/furnistock-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes barcode persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a barcodes repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new barcode record.
func (r *Repository) Create(ctx context.Context, code *models.Barcode) (*models.Barcode, error) {
	if err := r.db.WithContext(ctx).Create(code).Error; err != nil {
		return nil, err
	}
	return code, nil
}

// FindByID loads one barcode with its linked furniture resolved.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Barcode, error) {
	var code models.Barcode
	err := r.db.WithContext(ctx).
		Preload("Furniture").
		First(&code, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &code, nil
}

// List returns every barcode, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Barcode, error) {
	var codes []models.Barcode
	err := r.db.WithContext(ctx).
		Preload("Furniture").
		Order("created_at DESC").
		Find(&codes).Error
	if err != nil {
		return nil, err
	}
	return codes, nil
}

// FindByData returns every stored barcode whose payload matches data.
func (r *Repository) FindByData(ctx context.Context, data string) ([]models.Barcode, error) {
	var codes []models.Barcode
	err := r.db.WithContext(ctx).
		Preload("Furniture").
		Where("data = ?", data).
		Find(&codes).Error
	if err != nil {
		return nil, err
	}
	return codes, nil
}

// Delete removes one barcode record.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Barcode{}, "id = ?", id).Error
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
