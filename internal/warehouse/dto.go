package warehouse

import (
	"time"

	"github.com/artemvolkov/furnistock-backend/internal/furniture"
	"github.com/artemvolkov/furnistock-backend/pkg/db/models"
	"github.com/google/uuid"
)

// WarehouseDTO is the transport shape of a storage site.
type WarehouseDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	Country      string    `json:"country"`
	Lat          *float64  `json:"lat,omitempty"`
	Lng          *float64  `json:"lng,omitempty"`
	Capacity     int       `json:"capacity"`
	CurrentStock int       `json:"current_stock"`
	ManagerID    uuid.UUID `json:"manager_id"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StockLineDTO is one line of a warehouse report.
type StockLineDTO struct {
	FurnitureID uuid.UUID               `json:"furniture_id"`
	Furniture   *furniture.FurnitureDTO `json:"furniture,omitempty"`
	Quantity    int                     `json:"quantity"`
	LastUpdated time.Time               `json:"last_updated"`
}

// StockMutationResult reports the state of one line after a ledger mutation.
type StockMutationResult struct {
	WarehouseID  uuid.UUID `json:"warehouse_id"`
	FurnitureID  uuid.UUID `json:"furniture_id"`
	Quantity     int       `json:"quantity"`
	CurrentStock int       `json:"current_stock"`
}

// TransferResult reports both sides of a completed transfer.
type TransferResult struct {
	FurnitureID uuid.UUID           `json:"furniture_id"`
	Quantity    int                 `json:"quantity"`
	From        StockMutationResult `json:"from"`
	To          StockMutationResult `json:"to"`
}

// AvailabilityEntry locates stock of one furniture item in one warehouse.
type AvailabilityEntry struct {
	WarehouseID uuid.UUID `json:"warehouse_id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Quantity    int       `json:"quantity"`
	LastUpdated time.Time `json:"last_updated"`
}

// StockReport summarizes a warehouse's utilization and full line list.
type StockReport struct {
	Warehouse      *WarehouseDTO  `json:"warehouse"`
	Capacity       int            `json:"capacity"`
	CurrentStock   int            `json:"current_stock"`
	UtilizationPct float64        `json:"utilization_pct"`
	Lines          []StockLineDTO `json:"lines"`
}

func warehouseFromModel(w *models.Warehouse) *WarehouseDTO {
	if w == nil {
		return nil
	}
	return &WarehouseDTO{
		ID:           w.ID,
		Name:         w.Name,
		Address:      w.Address,
		City:         w.City,
		Country:      w.Country,
		Lat:          w.Lat,
		Lng:          w.Lng,
		Capacity:     w.Capacity,
		CurrentStock: w.CurrentStock,
		ManagerID:    w.ManagerID,
		IsActive:     w.IsActive,
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    w.UpdatedAt,
	}
}

func warehousesFromModels(list []models.Warehouse) []*WarehouseDTO {
	out := make([]*WarehouseDTO, 0, len(list))
	for i := range list {
		out = append(out, warehouseFromModel(&list[i]))
	}
	return out
}

func lineFromModel(line *models.StockLine) StockLineDTO {
	return StockLineDTO{
		FurnitureID: line.FurnitureID,
		Furniture:   furniture.FromModel(line.Furniture),
		Quantity:    line.Quantity,
		LastUpdated: line.LastUpdated,
	}
}
