package controllers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/artemvolkov/furnistock-backend/api/responses"
	"github.com/artemvolkov/furnistock-backend/api/validators"
	"github.com/artemvolkov/furnistock-backend/internal/barcodes"
	"github.com/artemvolkov/furnistock-backend/pkg/config"
	"github.com/artemvolkov/furnistock-backend/pkg/enums"
	pkgerrors "github.com/artemvolkov/furnistock-backend/pkg/errors"
	"github.com/artemvolkov/furnistock-backend/pkg/logger"
)

type generateBarcodePayload struct {
	Type        string  `json:"type" validate:"required"`
	Data        string  `json:"data" validate:"required,min=1,max=512"`
	FurnitureID *string `json:"furniture_id,omitempty" validate:"omitempty,uuid"`
}

// BarcodesList returns every stored barcode.
func BarcodesList(svc barcodes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		list, err := svc.List(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// BarcodeGenerate renders a new barcode image and stores its record.
func BarcodeGenerate(svc barcodes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload generateBarcodePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		barcodeType, err := enums.ParseBarcodeType(payload.Type)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid barcode type"))
			return
		}

		input := barcodes.GenerateInput{
			Type: barcodeType,
			Data: payload.Data,
		}
		if payload.FurnitureID != nil {
			furnitureID, err := uuid.Parse(*payload.FurnitureID)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "furniture_id must be a valid uuid"))
				return
			}
			input.FurnitureID = &furnitureID
		}

		dto, err := svc.Generate(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// BarcodeGet returns one barcode record.
func BarcodeGet(svc barcodes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// BarcodeDelete removes the record and its rendered image.
func BarcodeDelete(svc barcodes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Delete(ctx, id); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"id": id, "deleted": true})
	}
}

// BarcodeTypes lists the supported symbologies.
func BarcodeTypes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, enums.BarcodeTypes())
	}
}

// BarcodeScan accepts a multipart image upload, decodes every barcode in it
// and matches the decoded payloads against stored records. The upload is
// written to a scratch file that is removed once scanning completes.
func BarcodeScan(svc barcodes.Service, cfg config.BarcodeConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		maxBytes := int64(cfg.MaxUploadMB) << 20
		if maxBytes <= 0 {
			maxBytes = 10 << 20
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

		if err := r.ParseMultipartForm(maxBytes); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "image upload too large or malformed"))
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "image file is required"))
			return
		}
		defer file.Close()

		if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create upload dir"))
			return
		}

		ext := filepath.Ext(header.Filename)
		path := filepath.Join(cfg.UploadDir, fmt.Sprintf("scan-%s%s", uuid.NewString(), ext))
		dst, err := os.Create(path)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store upload"))
			return
		}
		if _, err := io.Copy(dst, file); err != nil {
			dst.Close()
			os.Remove(path)
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store upload"))
			return
		}
		dst.Close()
		defer os.Remove(path)

		matches, err := svc.Scan(ctx, path)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, matches)
	}
}
