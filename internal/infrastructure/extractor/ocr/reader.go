// Package ocr recognizes text from images and scanned PDFs with Tesseract.
// Scanned PDFs are rasterized with pdftoppm first.
//
// Tesseract support is compiled in only with the "ocr" build tag:
//
//	go build -tags ocr ./...
//
// Without it every recognition returns ErrOCRNotEnabled, which the
// extraction stage treats as an empty text.
package ocr

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const (
	DefaultLanguages = "por+eng"
	DefaultPdftoppm  = "pdftoppm"
	DefaultDPI       = 300
)

// ErrOCRNotEnabled is returned when the binary was built without the ocr tag.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

type Config struct {
	Languages string
	Pdftoppm  string
	DPI       int
	// MaxPages caps how many rasterized pages are recognized; 0 means all.
	MaxPages int
}

// engine recognizes the text of one image file.
type engine interface {
	Recognize(ctx context.Context, imagePath string) (string, error)
}

type Reader struct {
	cfg    Config
	runner Runner
	engine engine
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Languages == "" {
		cfg.Languages = DefaultLanguages
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = DefaultPdftoppm
	}
	if cfg.DPI <= 0 {
		cfg.DPI = DefaultDPI
	}
	return &Reader{
		cfg:    cfg,
		runner: execRunner{logger: logger},
		engine: newTesseractEngine(cfg.Languages),
		logger: logger,
	}
}

// ReadText recognizes fullPath. PDFs are rendered page by page; pages are
// joined with a blank line.
func (r *Reader) ReadText(ctx context.Context, fullPath string) (string, error) {
	if strings.EqualFold(filepath.Ext(fullPath), ".pdf") {
		return r.readPDF(ctx, fullPath)
	}
	text, err := r.engine.Recognize(ctx, fullPath)
	if err != nil {
		return "", fmt.Errorf("ocr %s: %w", filepath.Base(fullPath), err)
	}
	return text, nil
}

func (r *Reader) readPDF(ctx context.Context, fullPath string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "triage-pp-*")
	if err != nil {
		return "", fmt.Errorf("create raster dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			r.logger.Warn("raster_cleanup_failed", "dir", tmpDir, "error", err.Error())
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	if _, stderr, err := r.runner.Run(ctx, r.cfg.Pdftoppm, "-r", strconv.Itoa(r.cfg.DPI), "-png", fullPath, prefix); err != nil {
		return "", fmt.Errorf("rasterize pdf: %w: %s", err, truncate(strings.TrimSpace(string(stderr)), 512))
	}

	pages, err := filepath.Glob(prefix + "-*.png")
	if err != nil {
		return "", fmt.Errorf("list rasterized pages: %w", err)
	}
	sort.Strings(pages)
	if len(pages) == 0 {
		return "", errors.New("pdftoppm produced no images")
	}
	if r.cfg.MaxPages > 0 && len(pages) > r.cfg.MaxPages {
		pages = pages[:r.cfg.MaxPages]
	}

	var b strings.Builder
	var failures int
	for _, page := range pages {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := r.engine.Recognize(ctx, page)
		if err != nil {
			if errors.Is(err, ErrOCRNotEnabled) {
				return "", err
			}
			failures++
			r.logger.Warn("ocr_page_failed", "page", filepath.Base(page), "error", err.Error())
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(text)
	}
	if failures == len(pages) {
		return "", fmt.Errorf("ocr failed for all %d pages", failures)
	}
	return b.String(), nil
}
