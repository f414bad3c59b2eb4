package barcodes

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	pkgbarcode "github.com/artemvolkov/furnistock-backend/pkg/barcode"
	"github.com/artemvolkov/furnistock-backend/pkg/config"
	"github.com/artemvolkov/furnistock-backend/pkg/db/models"
	"github.com/artemvolkov/furnistock-backend/pkg/enums"
	pkgerrors "github.com/artemvolkov/furnistock-backend/pkg/errors"
	"github.com/artemvolkov/furnistock-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImageScanner decodes barcode images. Satisfied by pkg/barcode.Scanner.
type ImageScanner interface {
	Scan(ctx context.Context, path string) ([]pkgbarcode.ScanResult, error)
}

// Service defines the barcode operations consumed by the controllers.
type Service interface {
	Generate(ctx context.Context, input GenerateInput) (*BarcodeDTO, error)
	List(ctx context.Context) ([]*BarcodeDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*BarcodeDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Scan(ctx context.Context, imagePath string) ([]ScanMatch, error)
}

// GenerateInput holds the validated generation payload.
type GenerateInput struct {
	Type        enums.BarcodeType
	Data        string
	FurnitureID *uuid.UUID
}

type service struct {
	repo    *Repository
	scanner ImageScanner
	cfg     config.BarcodeConfig
	logg    *logger.Logger
}

// NewService constructs a barcodes service with the provided dependencies.
func NewService(repo *Repository, scanner ImageScanner, cfg config.BarcodeConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("barcodes repository is required")
	}
	if scanner == nil {
		return nil, fmt.Errorf("image scanner is required")
	}
	return &service{repo: repo, scanner: scanner, cfg: cfg, logg: logg}, nil
}

// Generate renders the symbology to a PNG under the configured directory and
// stores the record pointing at its public URL.
func (s *service) Generate(ctx context.Context, input GenerateInput) (*BarcodeDTO, error) {
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid barcode type %q", input.Type))
	}
	data := strings.TrimSpace(input.Data)
	if data == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "barcode data is required")
	}

	if input.FurnitureID != nil {
		exists, err := s.repo.FurnitureExists(ctx, *input.FurnitureID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup furniture")
		}
		if !exists {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "furniture not found")
		}
	}

	image, err := pkgbarcode.Render(input.Type, data)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	filename := id.String() + ".png"
	if err := os.MkdirAll(s.cfg.ImageDir, 0o755); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create image dir")
	}
	path := filepath.Join(s.cfg.ImageDir, filename)
	if err := os.WriteFile(path, image, 0o644); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write barcode image")
	}

	code := &models.Barcode{
		ID:          id,
		Type:        input.Type,
		Data:        data,
		ImageURL:    strings.TrimSuffix(s.cfg.PublicPrefix, "/") + "/" + filename,
		FurnitureID: input.FurnitureID,
	}
	created, err := s.repo.Create(ctx, code)
	if err != nil {
		// The record is the source of truth; an orphaned PNG is removed.
		_ = os.Remove(path)
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert barcode")
	}
	return FromModel(created), nil
}

func (s *service) List(ctx context.Context) ([]*BarcodeDTO, error) {
	codes, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list barcodes")
	}
	return FromModels(codes), nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*BarcodeDTO, error) {
	code, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "barcode not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load barcode")
	}
	return FromModel(code), nil
}

// Delete removes the record and its PNG. The file removal is best-effort:
// a missing file does not fail the call.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	code, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "barcode not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load barcode")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete barcode")
	}

	filename := filepath.Base(code.ImageURL)
	if filename != "." && filename != "/" {
		path := filepath.Join(s.cfg.ImageDir, filename)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) && s.logg != nil {
			s.logg.Warn(ctx, fmt.Sprintf("removing barcode image %s: %v", path, err))
		}
	}
	return nil
}

// Scan decodes the uploaded image and matches each decoded payload against
// stored barcode records and their linked furniture.
func (s *service) Scan(ctx context.Context, imagePath string) ([]ScanMatch, error) {
	results, err := s.scanner.Scan(ctx, imagePath)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "scan barcode image")
	}

	matches := make([]ScanMatch, 0, len(results))
	for _, result := range results {
		stored, err := s.repo.FindByData(ctx, result.Data)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: match barcode data")
		}
		matches = append(matches, ScanMatch{
			Scanned: result,
			Matches: FromModels(stored),
		})
	}
	return matches, nil
}
