package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/document-triage/internal/core/domain"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	documentsSheet = "Documents"
	summarySheet   = "Summary"
	previewRunes   = 200
)

// XLSXExporter writes one row per classified document plus a per-label
// summary sheet.
type XLSXExporter struct {
	logger *slog.Logger
}

func NewXLSXExporter(logger *slog.Logger) *XLSXExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXExporter{logger: logger}
}

func (e *XLSXExporter) ContentType() string {
	return ContentTypeXLSX
}

func (e *XLSXExporter) Export(ctx context.Context, result *domain.ClassificationBatchResult, w io.Writer) error {
	if result == nil {
		return domain.WrapError(domain.ErrInvalidInput, "export xlsx", errors.New("batch has no classification result"))
	}

	f := excelize.NewFile()
	defer f.Close()

	// The default workbook starts with "Sheet1"; rename it instead of adding a second sheet.
	if err := f.SetSheetName(f.GetSheetName(0), documentsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	if err := writeRow(f, documentsSheet, 1, "File Name", "Document Type", "Full Path", "Text Preview"); err != nil {
		return err
	}
	for i, doc := range result.Files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeRow(f, documentsSheet, i+2, doc.FileName, string(doc.FileType), doc.FullPath, preview(doc.TextContent)); err != nil {
			return err
		}
	}

	counts := result.CountByType()
	if err := writeRow(f, summarySheet, 1, "Document Type", "Count"); err != nil {
		return err
	}
	for i, docType := range domain.DocumentTypes() {
		if err := writeRow(f, summarySheet, i+2, string(docType), counts[docType]); err != nil {
			return err
		}
	}

	_ = f.SetColWidth(documentsSheet, "A", "A", 32)
	_ = f.SetColWidth(documentsSheet, "B", "B", 16)
	_ = f.SetColWidth(documentsSheet, "C", "C", 60)
	_ = f.SetColWidth(documentsSheet, "D", "D", 80)
	_ = f.SetColWidth(summarySheet, "A", "A", 16)

	if idx, err := f.GetSheetIndex(documentsSheet); err == nil {
		f.SetActiveSheet(idx)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx write: %w", err)
	}

	e.logger.Info("export_xlsx_ok",
		"workspace", result.WorkspaceFolderName,
		"rows", len(result.Files),
	)
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

// preview flattens whitespace and cuts the text to previewRunes.
func preview(text string) string {
	flat := strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(flat) <= previewRunes {
		return flat
	}
	runes := []rune(flat)
	return string(runes[:previewRunes-1]) + "…"
}
