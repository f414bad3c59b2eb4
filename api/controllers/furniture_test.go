package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/artemvolkov/furnistock-backend/internal/warehouse"
	pkgerrors "github.com/artemvolkov/furnistock-backend/pkg/errors"
	"github.com/artemvolkov/furnistock-backend/pkg/logger"
)

func TestFurnitureSell(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
	furnitureID := uuid.New()
	warehouseID := uuid.New()

	makeRequest := func(pathID, body string, stub *stubWarehouseService) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/furniture/"+pathID+"/sell", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		routeCtx := chi.NewRouteContext()
		routeCtx.URLParams.Add("id", pathID)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
		rec := httptest.NewRecorder()
		FurnitureSell(stub, logg).ServeHTTP(rec, req)
		return rec
	}

	t.Run("invalid furniture id", func(t *testing.T) {
		rec := makeRequest("not-a-uuid", `{"warehouse_id":"`+warehouseID.String()+`","quantity":1}`, &stubWarehouseService{})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for invalid id, got %d", rec.Code)
		}
	})

	t.Run("missing quantity", func(t *testing.T) {
		rec := makeRequest(furnitureID.String(), `{"warehouse_id":"`+warehouseID.String()+`"}`, &stubWarehouseService{})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for missing quantity, got %d", rec.Code)
		}
	})

	t.Run("insufficient stock", func(t *testing.T) {
		stub := &stubWarehouseService{
			removeErr: pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock"),
		}
		rec := makeRequest(furnitureID.String(), `{"warehouse_id":"`+warehouseID.String()+`","quantity":5}`, stub)
		if rec.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422 on insufficient stock, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		stub := &stubWarehouseService{
			removeResult: &warehouse.StockMutationResult{
				WarehouseID: warehouseID,
				FurnitureID: furnitureID,
				Quantity:    3,
			},
		}
		rec := makeRequest(furnitureID.String(), `{"warehouse_id":"`+warehouseID.String()+`","quantity":3}`, stub)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 on success, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.removedWarehouse != warehouseID || stub.removedFurniture != furnitureID || stub.removedQty != 3 {
			t.Fatalf("RemoveStock called with wrong args: %v %v %d", stub.removedWarehouse, stub.removedFurniture, stub.removedQty)
		}

		var envelope struct {
			Data warehouse.StockMutationResult `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decoding response: %v", err)
		}
		if envelope.Data.Quantity != 3 {
			t.Fatalf("expected quantity 3 in response, got %d", envelope.Data.Quantity)
		}
	})
}

func TestWarehouseTransferRejectsMalformedIDs(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})

	body := `{"from_warehouse_id":"nope","to_warehouse_id":"` + uuid.NewString() + `","furniture_id":"` + uuid.NewString() + `","quantity":1}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/warehouses/transfer", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	WarehouseTransfer(&stubWarehouseService{}, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed from_warehouse_id, got %d", rec.Code)
	}
}

type stubWarehouseService struct {
	removeResult *warehouse.StockMutationResult
	removeErr    error

	removedWarehouse uuid.UUID
	removedFurniture uuid.UUID
	removedQty       int
}

func (s *stubWarehouseService) CreateWarehouse(ctx context.Context, input warehouse.CreateWarehouseInput) (*warehouse.WarehouseDTO, error) {
	panic("unimplemented")
}

func (s *stubWarehouseService) ListWarehouses(ctx context.Context) ([]*warehouse.WarehouseDTO, error) {
	panic("unimplemented")
}

func (s *stubWarehouseService) GetWarehouse(ctx context.Context, id uuid.UUID) (*warehouse.WarehouseDTO, error) {
	panic("unimplemented")
}

func (s *stubWarehouseService) UpdateWarehouse(ctx context.Context, id uuid.UUID, input warehouse.UpdateWarehouseInput) (*warehouse.WarehouseDTO, error) {
	panic("unimplemented")
}

func (s *stubWarehouseService) DeleteWarehouse(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (s *stubWarehouseService) AddStock(ctx context.Context, warehouseID, furnitureID uuid.UUID, qty int) (*warehouse.StockMutationResult, error) {
	panic("unimplemented")
}

func (s *stubWarehouseService) RemoveStock(ctx context.Context, warehouseID, furnitureID uuid.UUID, qty int) (*warehouse.StockMutationResult, error) {
	s.removedWarehouse = warehouseID
	s.removedFurniture = furnitureID
	s.removedQty = qty
	if s.removeErr != nil {
		return nil, s.removeErr
	}
	return s.removeResult, nil
}

func (s *stubWarehouseService) TransferStock(ctx context.Context, fromID, toID, furnitureID uuid.UUID, qty int) (*warehouse.TransferResult, error) {
	panic("unimplemented")
}

func (s *stubWarehouseService) Availability(ctx context.Context, furnitureID uuid.UUID) ([]warehouse.AvailabilityEntry, error) {
	panic("unimplemented")
}

func (s *stubWarehouseService) StockReport(ctx context.Context, warehouseID uuid.UUID) (*warehouse.StockReport, error) {
	panic("unimplemented")
}
