package barcode

import (
	"context"
	"errors"
	"os/exec"
	"strings"
)

// ScanResult is one decoded barcode from an image.
type ScanResult struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// Scanner decodes barcode images by shelling out to zbarimg.
type Scanner struct {
	bin string
}

// NewScanner builds a scanner around the given zbarimg binary.
func NewScanner(bin string) *Scanner {
	if strings.TrimSpace(bin) == "" {
		bin = "zbarimg"
	}
	return &Scanner{bin: bin}
}

// Scan decodes all barcodes found in the image at path. An image with no
// detectable barcode yields an empty slice, not an error.
func (s *Scanner) Scan(ctx context.Context, path string) ([]ScanResult, error) {
	cmd := exec.CommandContext(ctx, s.bin, "--quiet", path)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// zbarimg signals "no barcode detected" through its exit code.
			switch exitErr.ExitCode() {
			case 1, 4:
				return []ScanResult{}, nil
			}
		}
		return nil, err
	}

	return parseOutput(string(out)), nil
}

// parseOutput splits zbarimg's TYPE:data lines into results.
func parseOutput(raw string) []ScanResult {
	results := []ScanResult{}
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		typ, data, found := strings.Cut(line, ":")
		if !found {
			results = append(results, ScanResult{Type: "unknown", Data: line})
			continue
		}
		results = append(results, ScanResult{
			Type: strings.ToLower(typ),
			Data: data,
		})
	}
	return results
}
