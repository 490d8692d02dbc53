//go:build !ocr

package ocr

import (
	"context"
	"errors"
	"testing"
)

func TestStubEngineReportsDisabledOCR(t *testing.T) {
	_, err := New(Config{}, nil).ReadText(context.Background(), "/ws/scan.png")
	if !errors.Is(err, ErrOCRNotEnabled) {
		t.Fatalf("expected ErrOCRNotEnabled, got %v", err)
	}
}
