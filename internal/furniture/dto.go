package furniture

import (
	"encoding/json"
	"time"

	"github.com/artemvolkov/furnistock-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FurnitureDTO is the transport shape of a catalog item.
type FurnitureDTO struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
	Dimensions  json.RawMessage `json:"dimensions,omitempty"`
	Price       decimal.Decimal `json:"price"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func FromModel(f *models.Furniture) *FurnitureDTO {
	if f == nil {
		return nil
	}
	return &FurnitureDTO{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		ImageURL:    f.ImageURL,
		Dimensions:  f.Dimensions,
		Price:       f.Price,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

func FromModels(list []models.Furniture) []*FurnitureDTO {
	out := make([]*FurnitureDTO, 0, len(list))
	for i := range list {
		out = append(out, FromModel(&list[i]))
	}
	return out
}
