package barcodes

import (
	"time"

	"github.com/artemvolkov/furnistock-backend/internal/furniture"
	pkgbarcode "github.com/artemvolkov/furnistock-backend/pkg/barcode"
	"github.com/artemvolkov/furnistock-backend/pkg/db/models"
	"github.com/artemvolkov/furnistock-backend/pkg/enums"
	"github.com/google/uuid"
)

// BarcodeDTO is the transport shape of a stored barcode.
type BarcodeDTO struct {
	ID          uuid.UUID                `json:"id"`
	Type        enums.BarcodeType        `json:"type"`
	Data        string                   `json:"data"`
	ImageURL    string                   `json:"image_url"`
	FurnitureID *uuid.UUID               `json:"furniture_id,omitempty"`
	Furniture   *furniture.FurnitureDTO  `json:"furniture,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
}

// ScanMatch pairs one decoded barcode with the stored records carrying the
// same payload.
type ScanMatch struct {
	Scanned pkgbarcode.ScanResult `json:"scanned"`
	Matches []*BarcodeDTO         `json:"matches"`
}

func FromModel(b *models.Barcode) *BarcodeDTO {
	if b == nil {
		return nil
	}
	return &BarcodeDTO{
		ID:          b.ID,
		Type:        b.Type,
		Data:        b.Data,
		ImageURL:    b.ImageURL,
		FurnitureID: b.FurnitureID,
		Furniture:   furniture.FromModel(b.Furniture),
		CreatedAt:   b.CreatedAt,
	}
}

func FromModels(list []models.Barcode) []*BarcodeDTO {
	out := make([]*BarcodeDTO, 0, len(list))
	for i := range list {
		out = append(out, FromModel(&list[i]))
	}
	return out
}
