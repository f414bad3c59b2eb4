package enums

import (
	"fmt"
	"strings"
)

// BarcodeType identifies a supported barcode symbology.
type BarcodeType string

const (
	BarcodeTypeCode128    BarcodeType = "code128"
	BarcodeTypeCode39     BarcodeType = "code39"
	BarcodeTypeEAN13      BarcodeType = "ean13"
	BarcodeTypeEAN8       BarcodeType = "ean8"
	BarcodeTypeUPCA       BarcodeType = "upca"
	BarcodeTypeUPCE       BarcodeType = "upce"
	BarcodeTypeITF14      BarcodeType = "itf14"
	BarcodeTypeQRCode     BarcodeType = "qrcode"
	BarcodeTypeDataMatrix BarcodeType = "datamatrix"
)

var validBarcodeTypes = []BarcodeType{
	BarcodeTypeCode128,
	BarcodeTypeCode39,
	BarcodeTypeEAN13,
	BarcodeTypeEAN8,
	BarcodeTypeUPCA,
	BarcodeTypeUPCE,
	BarcodeTypeITF14,
	BarcodeTypeQRCode,
	BarcodeTypeDataMatrix,
}

// String implements fmt.Stringer.
func (b BarcodeType) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BarcodeType.
func (b BarcodeType) IsValid() bool {
	for _, candidate := range validBarcodeTypes {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBarcodeType converts raw input into a BarcodeType.
func ParseBarcodeType(value string) (BarcodeType, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validBarcodeTypes {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid barcode type %q", value)
}

// BarcodeTypes returns the enumerated symbology set.
func BarcodeTypes() []BarcodeType {
	return append([]BarcodeType(nil), validBarcodeTypes...)
}
