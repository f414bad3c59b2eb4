package barcode

import (
	"bytes"
	"fmt"
	"image/png"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/code39"
	"github.com/boombuler/barcode/datamatrix"
	"github.com/boombuler/barcode/ean"
	"github.com/boombuler/barcode/qr"
	"github.com/boombuler/barcode/twooffive"

	"github.com/artemvolkov/furnistock-backend/pkg/enums"
	pkgerrors "github.com/artemvolkov/furnistock-backend/pkg/errors"
)

const (
	linearWidth  = 300
	linearHeight = 120
	matrixSize   = 256
)

// Render encodes data in the requested symbology and returns a PNG image.
func Render(symbology enums.BarcodeType, data string) ([]byte, error) {
	if strings.TrimSpace(data) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "barcode data is required")
	}

	encoded, square, err := encode(symbology, data)
	if err != nil {
		return nil, err
	}

	width, height := linearWidth, linearHeight
	if square {
		width, height = matrixSize, matrixSize
	}

	scaled, err := barcode.Scale(encoded, width, height)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "scale barcode")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

func encode(symbology enums.BarcodeType, data string) (barcode.Barcode, bool, error) {
	switch symbology {
	case enums.BarcodeTypeCode128:
		bc, err := code128.Encode(data)
		return bc, false, wrapEncodeErr(err, symbology)
	case enums.BarcodeTypeCode39:
		bc, err := code39.Encode(data, true, true)
		return bc, false, wrapEncodeErr(err, symbology)
	case enums.BarcodeTypeEAN13, enums.BarcodeTypeEAN8:
		bc, err := ean.Encode(data)
		return bc, false, wrapEncodeErr(err, symbology)
	case enums.BarcodeTypeUPCA:
		// UPC-A is the 12-digit subset of EAN-13 with an implied leading zero.
		if len(data) != 12 {
			return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "upca payload must be 12 digits")
		}
		bc, err := ean.Encode("0" + data)
		return bc, false, wrapEncodeErr(err, symbology)
	case enums.BarcodeTypeITF14:
		bc, err := twooffive.Encode(data, true)
		return bc, false, wrapEncodeErr(err, symbology)
	case enums.BarcodeTypeQRCode:
		bc, err := qr.Encode(data, qr.M, qr.Auto)
		return bc, true, wrapEncodeErr(err, symbology)
	case enums.BarcodeTypeDataMatrix:
		bc, err := datamatrix.Encode(data)
		return bc, true, wrapEncodeErr(err, symbology)
	case enums.BarcodeTypeUPCE:
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, "upce rendering is not supported")
	default:
		return nil, false, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid barcode type %q", symbology))
	}
}

func wrapEncodeErr(err error, symbology enums.BarcodeType) error {
	if err == nil {
		return nil
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("encode %s", symbology))
}
