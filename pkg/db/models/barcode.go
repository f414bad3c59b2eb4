package models

import (
	"time"

	"github.com/artemvolkov/furnistock-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Barcode stores a rendered barcode image, optionally linked to furniture.
type Barcode struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	Type        enums.BarcodeType `gorm:"column:type;type:text;not null"`
	Data        string            `gorm:"column:data;not null"`
	ImageURL    string            `gorm:"column:image_url;not null"`
	FurnitureID *uuid.UUID        `gorm:"column:furniture_id;type:uuid"`
	Furniture   *Furniture        `gorm:"foreignKey:FurnitureID"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
}

func (b *Barcode) BeforeCreate(_ *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
