package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Warehouse is a storage site. CurrentStock is derived: it must equal the sum
// of the quantities on its stock lines after every mutation.
type Warehouse struct {
	ID           uuid.UUID   `gorm:"column:id;type:uuid;primaryKey"`
	Name         string      `gorm:"column:name;not null"`
	Address      string      `gorm:"column:address;not null"`
	City         string      `gorm:"column:city;not null"`
	Country      string      `gorm:"column:country;not null"`
	Lat          *float64    `gorm:"column:lat"`
	Lng          *float64    `gorm:"column:lng"`
	Capacity     int         `gorm:"column:capacity;not null"`
	CurrentStock int         `gorm:"column:current_stock;not null;default:0"`
	ManagerID    uuid.UUID   `gorm:"column:manager_id;type:uuid;not null"`
	Manager      *User       `gorm:"foreignKey:ManagerID"`
	Lines        []StockLine `gorm:"foreignKey:WarehouseID;constraint:OnDelete:CASCADE"`
	IsActive     bool        `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time   `gorm:"column:updated_at;autoUpdateTime"`
}

func (w *Warehouse) BeforeCreate(_ *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// StockLine holds the quantity of one furniture item in one warehouse.
// At most one line exists per (warehouse, furniture) pair; a line whose
// quantity reaches zero is deleted, not kept.
type StockLine struct {
	WarehouseID uuid.UUID  `gorm:"column:warehouse_id;type:uuid;primaryKey"`
	FurnitureID uuid.UUID  `gorm:"column:furniture_id;type:uuid;primaryKey"`
	Quantity    int        `gorm:"column:quantity;not null"`
	LastUpdated time.Time  `gorm:"column:last_updated;not null"`
	Furniture   *Furniture `gorm:"foreignKey:FurnitureID"`
}

// TableName names the relational rendition of the embedded line list.
func (StockLine) TableName() string {
	return "warehouse_stock_lines"
}
