package furniture

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/artemvolkov/furnistock-backend/pkg/db"
	"github.com/artemvolkov/furnistock-backend/pkg/db/models"
	pkgerrors "github.com/artemvolkov/furnistock-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service defines the catalog operations consumed by the controllers.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*FurnitureDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*FurnitureDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Get(ctx context.Context, id uuid.UUID) (*FurnitureDTO, error)
	List(ctx context.Context) ([]*FurnitureDTO, error)
}

// CreateInput holds the validated creation payload.
type CreateInput struct {
	Name        string
	Description string
	ImageURL    string
	Dimensions  json.RawMessage
	Price       decimal.Decimal
}

// UpdateInput holds optional catalog mutations.
type UpdateInput struct {
	Name        *string
	Description *string
	ImageURL    *string
	Dimensions  json.RawMessage
	Price       *decimal.Decimal
}

type service struct {
	client *db.Client
	repo   *Repository
}

// NewService constructs a furniture service with the provided dependencies.
func NewService(client *db.Client, repo *Repository) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("db client is required")
	}
	if repo == nil {
		return nil, fmt.Errorf("furniture repository is required")
	}
	return &service{client: client, repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*FurnitureDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}

	item := &models.Furniture{
		Name:        name,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		Dimensions:  input.Dimensions,
		Price:       input.Price,
	}
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert furniture")
	}
	return FromModel(created), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*FurnitureDTO, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "furniture not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load furniture")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		item.Name = name
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.ImageURL != nil {
		item.ImageURL = *input.ImageURL
	}
	if input.Dimensions != nil {
		item.Dimensions = input.Dimensions
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
		}
		item.Price = *input.Price
	}

	if err := s.repo.Save(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update furniture")
	}
	return FromModel(item), nil
}

// Delete removes the catalog item along with every stock line referencing it,
// recomputing each affected warehouse's current_stock inside one transaction.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "furniture not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load furniture")
	}

	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		affected, err := txRepo.WarehouseIDsHolding(ctx, id)
		if err != nil {
			return err
		}
		if err := txRepo.DeleteLinesFor(ctx, id); err != nil {
			return err
		}
		for _, warehouseID := range affected {
			if err := txRepo.RecomputeWarehouseStock(ctx, warehouseID); err != nil {
				return err
			}
		}
		if err := txRepo.UnlinkBarcodes(ctx, id); err != nil {
			return err
		}
		return txRepo.Delete(ctx, id)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete furniture")
	}
	return nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*FurnitureDTO, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "furniture not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load furniture")
	}
	return FromModel(item), nil
}

func (s *service) List(ctx context.Context) ([]*FurnitureDTO, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list furniture")
	}
	return FromModels(items), nil
}
