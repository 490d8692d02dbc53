//go:build !ocr

package ocr

import "context"

type stubEngine struct{}

func newTesseractEngine(string) engine {
	return stubEngine{}
}

func (stubEngine) Recognize(context.Context, string) (string, error) {
	return "", ErrOCRNotEnabled
}
