package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/artemvolkov/furnistock-backend/api/responses"
	"github.com/artemvolkov/furnistock-backend/api/validators"
	"github.com/artemvolkov/furnistock-backend/internal/warehouse"
	pkgerrors "github.com/artemvolkov/furnistock-backend/pkg/errors"
	"github.com/artemvolkov/furnistock-backend/pkg/logger"
)

type createWarehousePayload struct {
	Name      string   `json:"name" validate:"required,min=1,max=200"`
	Address   string   `json:"address" validate:"required,min=1,max=500"`
	City      string   `json:"city" validate:"required,min=1,max=100"`
	Country   string   `json:"country" validate:"required,min=1,max=100"`
	Lat       *float64 `json:"lat,omitempty" validate:"omitempty,latitude"`
	Lng       *float64 `json:"lng,omitempty" validate:"omitempty,longitude"`
	Capacity  int      `json:"capacity" validate:"required,min=1"`
	ManagerID string   `json:"manager_id" validate:"required,uuid"`
}

type updateWarehousePayload struct {
	Name      *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Address   *string  `json:"address,omitempty" validate:"omitempty,min=1,max=500"`
	City      *string  `json:"city,omitempty" validate:"omitempty,min=1,max=100"`
	Country   *string  `json:"country,omitempty" validate:"omitempty,min=1,max=100"`
	Lat       *float64 `json:"lat,omitempty" validate:"omitempty,latitude"`
	Lng       *float64 `json:"lng,omitempty" validate:"omitempty,longitude"`
	Capacity  *int     `json:"capacity,omitempty" validate:"omitempty,min=1"`
	ManagerID *string  `json:"manager_id,omitempty" validate:"omitempty,uuid"`
	IsActive  *bool    `json:"is_active,omitempty"`
}

type warehouseStockPayload struct {
	FurnitureID string `json:"furniture_id" validate:"required,uuid"`
	Quantity    int    `json:"quantity" validate:"required,min=1"`
}

type transferStockPayload struct {
	FromWarehouseID string `json:"from_warehouse_id" validate:"required,uuid"`
	ToWarehouseID   string `json:"to_warehouse_id" validate:"required,uuid"`
	FurnitureID     string `json:"furniture_id" validate:"required,uuid"`
	Quantity        int    `json:"quantity" validate:"required,min=1"`
}

// WarehousesList returns every active warehouse.
func WarehousesList(svc warehouse.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		list, err := svc.ListWarehouses(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// WarehouseCreate registers a new warehouse.
func WarehouseCreate(svc warehouse.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload createWarehousePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		managerID, err := uuid.Parse(payload.ManagerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "manager_id must be a valid uuid"))
			return
		}

		dto, err := svc.CreateWarehouse(ctx, warehouse.CreateWarehouseInput{
			Name:      payload.Name,
			Address:   payload.Address,
			City:      payload.City,
			Country:   payload.Country,
			Lat:       payload.Lat,
			Lng:       payload.Lng,
			Capacity:  payload.Capacity,
			ManagerID: managerID,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// WarehouseGet returns one warehouse.
func WarehouseGet(svc warehouse.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.GetWarehouse(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// WarehouseUpdate applies partial changes to a warehouse.
func WarehouseUpdate(svc warehouse.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateWarehousePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input := warehouse.UpdateWarehouseInput{
			Name:     payload.Name,
			Address:  payload.Address,
			City:     payload.City,
			Country:  payload.Country,
			Lat:      payload.Lat,
			Lng:      payload.Lng,
			Capacity: payload.Capacity,
			IsActive: payload.IsActive,
		}
		if payload.ManagerID != nil {
			managerID, err := uuid.Parse(*payload.ManagerID)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "manager_id must be a valid uuid"))
				return
			}
			input.ManagerID = &managerID
		}

		dto, err := svc.UpdateWarehouse(ctx, id, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// WarehouseDelete deactivates a warehouse. Historical stock movements keep
// referencing it, so the row is never physically removed.
func WarehouseDelete(svc warehouse.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.DeleteWarehouse(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": id, "is_active": false})
	}
}

// WarehouseAddStock adds furniture quantity to a warehouse's ledger.
func WarehouseAddStock(svc warehouse.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		warehouseID, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload warehouseStockPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		furnitureID, err := uuid.Parse(payload.FurnitureID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "furniture_id must be a valid uuid"))
			return
		}

		result, err := svc.AddStock(ctx, warehouseID, furnitureID, payload.Quantity)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// WarehouseRemoveStock removes furniture quantity from a warehouse's ledger.
func WarehouseRemoveStock(svc warehouse.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		warehouseID, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload warehouseStockPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		furnitureID, err := uuid.Parse(payload.FurnitureID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "furniture_id must be a valid uuid"))
			return
		}

		result, err := svc.RemoveStock(ctx, warehouseID, furnitureID, payload.Quantity)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// WarehouseTransfer moves stock between two warehouses atomically.
func WarehouseTransfer(svc warehouse.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload transferStockPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		fromID, err := uuid.Parse(payload.FromWarehouseID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "from_warehouse_id must be a valid uuid"))
			return
		}
		toID, err := uuid.Parse(payload.ToWarehouseID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "to_warehouse_id must be a valid uuid"))
			return
		}
		furnitureID, err := uuid.Parse(payload.FurnitureID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "furniture_id must be a valid uuid"))
			return
		}

		result, err := svc.TransferStock(ctx, fromID, toID, furnitureID, payload.Quantity)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// WarehouseReport returns the warehouse's stock lines and utilization.
func WarehouseReport(svc warehouse.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		report, err := svc.StockReport(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}
