package warehouse

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/artemvolkov/furnistock-backend/pkg/db"
	"github.com/artemvolkov/furnistock-backend/pkg/db/models"
	pkgerrors "github.com/artemvolkov/furnistock-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service defines the warehouse and stock ledger operations consumed by the
// controllers. Every stock mutation runs inside a single transaction and
// recomputes the warehouse's derived current_stock before committing.
type Service interface {
	CreateWarehouse(ctx context.Context, input CreateWarehouseInput) (*WarehouseDTO, error)
	ListWarehouses(ctx context.Context) ([]*WarehouseDTO, error)
	GetWarehouse(ctx context.Context, id uuid.UUID) (*WarehouseDTO, error)
	UpdateWarehouse(ctx context.Context, id uuid.UUID, input UpdateWarehouseInput) (*WarehouseDTO, error)
	DeleteWarehouse(ctx context.Context, id uuid.UUID) error

	AddStock(ctx context.Context, warehouseID, furnitureID uuid.UUID, qty int) (*StockMutationResult, error)
	RemoveStock(ctx context.Context, warehouseID, furnitureID uuid.UUID, qty int) (*StockMutationResult, error)
	TransferStock(ctx context.Context, fromID, toID, furnitureID uuid.UUID, qty int) (*TransferResult, error)
	Availability(ctx context.Context, furnitureID uuid.UUID) ([]AvailabilityEntry, error)
	StockReport(ctx context.Context, warehouseID uuid.UUID) (*StockReport, error)
}

// CreateWarehouseInput holds the validated creation payload.
type CreateWarehouseInput struct {
	Name      string
	Address   string
	City      string
	Country   string
	Lat       *float64
	Lng       *float64
	Capacity  int
	ManagerID uuid.UUID
}

// UpdateWarehouseInput holds the allow-listed mutable fields. Anything not
// named here cannot be changed through the update endpoint.
type UpdateWarehouseInput struct {
	Name      *string
	Address   *string
	City      *string
	Country   *string
	Lat       *float64
	Lng       *float64
	Capacity  *int
	ManagerID *uuid.UUID
	IsActive  *bool
}

type service struct {
	client *db.Client
	repo   *Repository
}

// NewService constructs a warehouse service with the provided dependencies.
func NewService(client *db.Client, repo *Repository) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("db client is required")
	}
	if repo == nil {
		return nil, fmt.Errorf("warehouse repository is required")
	}
	return &service{client: client, repo: repo}, nil
}

func (s *service) CreateWarehouse(ctx context.Context, input CreateWarehouseInput) (*WarehouseDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Capacity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "capacity must be at least 1")
	}

	exists, err := s.repo.UserExists(ctx, input.ManagerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup manager")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "manager does not exist")
	}

	w := &models.Warehouse{
		Name:      name,
		Address:   input.Address,
		City:      input.City,
		Country:   input.Country,
		Lat:       input.Lat,
		Lng:       input.Lng,
		Capacity:  input.Capacity,
		ManagerID: input.ManagerID,
		IsActive:  true,
	}
	created, err := s.repo.CreateWarehouse(ctx, w)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert warehouse")
	}
	return warehouseFromModel(created), nil
}

func (s *service) ListWarehouses(ctx context.Context) ([]*WarehouseDTO, error) {
	list, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list warehouses")
	}
	return warehousesFromModels(list), nil
}

func (s *service) GetWarehouse(ctx context.Context, id uuid.UUID) (*WarehouseDTO, error) {
	w, err := s.loadWarehouse(ctx, id)
	if err != nil {
		return nil, err
	}
	return warehouseFromModel(w), nil
}

func (s *service) UpdateWarehouse(ctx context.Context, id uuid.UUID, input UpdateWarehouseInput) (*WarehouseDTO, error) {
	w, err := s.loadWarehouse(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		w.Name = name
	}
	if input.Address != nil {
		w.Address = *input.Address
	}
	if input.City != nil {
		w.City = *input.City
	}
	if input.Country != nil {
		w.Country = *input.Country
	}
	if input.Lat != nil {
		w.Lat = input.Lat
	}
	if input.Lng != nil {
		w.Lng = input.Lng
	}
	if input.Capacity != nil {
		if *input.Capacity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "capacity must be at least 1")
		}
		w.Capacity = *input.Capacity
	}
	if input.ManagerID != nil {
		exists, err := s.repo.UserExists(ctx, *input.ManagerID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup manager")
		}
		if !exists {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "manager does not exist")
		}
		w.ManagerID = *input.ManagerID
	}
	if input.IsActive != nil {
		w.IsActive = *input.IsActive
	}

	if err := s.repo.SaveWarehouse(ctx, w); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update warehouse")
	}
	return warehouseFromModel(w), nil
}

// DeleteWarehouse deactivates the warehouse. Rows are kept so ledger history
// and audit references stay resolvable.
func (s *service) DeleteWarehouse(ctx context.Context, id uuid.UUID) error {
	if _, err := s.loadWarehouse(ctx, id); err != nil {
		return err
	}
	if err := s.repo.SetActive(ctx, id, false); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: deactivate warehouse")
	}
	return nil
}

func (s *service) AddStock(ctx context.Context, warehouseID, furnitureID uuid.UUID, qty int) (*StockMutationResult, error) {
	if qty < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	var result *StockMutationResult
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		result, err = s.addStockTx(ctx, tx, warehouseID, furnitureID, qty)
		return err
	})
	if err != nil {
		return nil, wrapLedgerErr(err, "db: add stock")
	}
	return result, nil
}

func (s *service) RemoveStock(ctx context.Context, warehouseID, furnitureID uuid.UUID, qty int) (*StockMutationResult, error) {
	if qty < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	var result *StockMutationResult
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		result, err = s.removeStockTx(ctx, tx, warehouseID, furnitureID, qty)
		return err
	})
	if err != nil {
		return nil, wrapLedgerErr(err, "db: remove stock")
	}
	return result, nil
}

// TransferStock moves qty of one furniture item between warehouses. Both
// sides execute inside one transaction, so observers never see a partial
// transfer: either both warehouses change or neither does.
func (s *service) TransferStock(ctx context.Context, fromID, toID, furnitureID uuid.UUID, qty int) (*TransferResult, error) {
	if qty < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	if fromID == toID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "source and destination warehouses must differ")
	}

	var result *TransferResult
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		from, err := s.removeStockTx(ctx, tx, fromID, furnitureID, qty)
		if err != nil {
			return err
		}
		to, err := s.addStockTx(ctx, tx, toID, furnitureID, qty)
		if err != nil {
			return err
		}
		result = &TransferResult{
			FurnitureID: furnitureID,
			Quantity:    qty,
			From:        *from,
			To:          *to,
		}
		return nil
	})
	if err != nil {
		return nil, wrapLedgerErr(err, "db: transfer stock")
	}
	return result, nil
}

func (s *service) Availability(ctx context.Context, furnitureID uuid.UUID) ([]AvailabilityEntry, error) {
	exists, err := s.repo.FurnitureExists(ctx, furnitureID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup furniture")
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "furniture not found")
	}

	lines, warehouses, err := s.repo.LinesHolding(ctx, furnitureID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load availability")
	}

	byWarehouse := make(map[uuid.UUID]models.Warehouse, len(warehouses))
	for _, w := range warehouses {
		byWarehouse[w.ID] = w
	}

	entries := make([]AvailabilityEntry, 0, len(lines))
	for _, line := range lines {
		w, ok := byWarehouse[line.WarehouseID]
		if !ok {
			// Line belongs to a deactivated warehouse.
			continue
		}
		entries = append(entries, AvailabilityEntry{
			WarehouseID: w.ID,
			Name:        w.Name,
			Address:     w.Address,
			City:        w.City,
			Country:     w.Country,
			Quantity:    line.Quantity,
			LastUpdated: line.LastUpdated,
		})
	}
	return entries, nil
}

func (s *service) StockReport(ctx context.Context, warehouseID uuid.UUID) (*StockReport, error) {
	w, err := s.loadWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, err
	}

	lines, err := s.repo.LinesFor(ctx, warehouseID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load stock lines")
	}

	dtoLines := make([]StockLineDTO, 0, len(lines))
	for i := range lines {
		dtoLines = append(dtoLines, lineFromModel(&lines[i]))
	}

	return &StockReport{
		Warehouse:      warehouseFromModel(w),
		Capacity:       w.Capacity,
		CurrentStock:   w.CurrentStock,
		UtilizationPct: utilization(w.CurrentStock, w.Capacity),
		Lines:          dtoLines,
	}, nil
}

// utilization guards against legacy rows with non-positive capacity.
func utilization(stock, capacity int) float64 {
	if capacity <= 0 {
		return 0
	}
	return float64(stock) / float64(capacity) * 100
}

func (s *service) loadWarehouse(ctx context.Context, id uuid.UUID) (*models.Warehouse, error) {
	w, err := s.repo.FindWarehouseByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "warehouse not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load warehouse")
	}
	return w, nil
}

// addStockTx upserts the line and recomputes current_stock. Must run inside
// a transaction.
func (s *service) addStockTx(ctx context.Context, tx *gorm.DB, warehouseID, furnitureID uuid.UUID, qty int) (*StockMutationResult, error) {
	repo := s.repo.WithTx(tx)

	if _, err := repo.FindWarehouseByID(ctx, warehouseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "warehouse not found")
		}
		return nil, err
	}
	exists, err := repo.FurnitureExists(ctx, furnitureID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "furniture not found")
	}

	now := time.Now().UTC()
	line, err := repo.FindLine(ctx, warehouseID, furnitureID)
	switch {
	case err == nil:
		line.Quantity += qty
		line.LastUpdated = now
		if err := repo.UpdateLineQuantity(ctx, line); err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		line = &models.StockLine{
			WarehouseID: warehouseID,
			FurnitureID: furnitureID,
			Quantity:    qty,
			LastUpdated: now,
		}
		if err := repo.CreateLine(ctx, line); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := repo.RecomputeStock(ctx, warehouseID); err != nil {
		return nil, err
	}
	updated, err := repo.FindWarehouseByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}

	return &StockMutationResult{
		WarehouseID:  warehouseID,
		FurnitureID:  furnitureID,
		Quantity:     line.Quantity,
		CurrentStock: updated.CurrentStock,
	}, nil
}

// removeStockTx decrements the line, deleting it when it reaches zero, and
// recomputes current_stock. Must run inside a transaction.
func (s *service) removeStockTx(ctx context.Context, tx *gorm.DB, warehouseID, furnitureID uuid.UUID, qty int) (*StockMutationResult, error) {
	repo := s.repo.WithTx(tx)

	if _, err := repo.FindWarehouseByID(ctx, warehouseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "warehouse not found")
		}
		return nil, err
	}

	line, err := repo.FindLine(ctx, warehouseID, furnitureID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no stock of this furniture in the warehouse")
		}
		return nil, err
	}

	if qty > line.Quantity {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
			WithDetails(map[string]any{
				"available": line.Quantity,
				"requested": qty,
			})
	}

	remaining := line.Quantity - qty
	if remaining == 0 {
		if err := repo.DeleteLine(ctx, warehouseID, furnitureID); err != nil {
			return nil, err
		}
	} else {
		line.Quantity = remaining
		line.LastUpdated = time.Now().UTC()
		if err := repo.UpdateLineQuantity(ctx, line); err != nil {
			return nil, err
		}
	}

	if err := repo.RecomputeStock(ctx, warehouseID); err != nil {
		return nil, err
	}
	updated, err := repo.FindWarehouseByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}

	return &StockMutationResult{
		WarehouseID:  warehouseID,
		FurnitureID:  furnitureID,
		Quantity:     remaining,
		CurrentStock: updated.CurrentStock,
	}, nil
}

// wrapLedgerErr keeps typed ledger errors intact and tags everything else as
// a dependency failure.
func wrapLedgerErr(err error, message string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}
