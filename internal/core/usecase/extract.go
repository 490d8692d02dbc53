package usecase

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/kirillkom/document-triage/internal/core/domain"
	"github.com/kirillkom/document-triage/internal/core/ports"
)

const mimePDF = "application/pdf"

type ExtractTextUseCase struct {
	pdf    ports.EmbeddedTextExtractor
	ocr    ports.OCRReader
	logger *slog.Logger
}

func NewExtractTextUseCase(pdf ports.EmbeddedTextExtractor, ocr ports.OCRReader, logger *slog.Logger) *ExtractTextUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExtractTextUseCase{pdf: pdf, ocr: ocr, logger: logger}
}

// Extract reads the text of every accepted file. PDFs use their text layer
// first and fall back to OCR when it is blank; everything else goes to OCR.
// Extractor failures leave the file with empty text.
func (uc *ExtractTextUseCase) Extract(ctx context.Context, batch *domain.SanitizedBatch) (*domain.ExtractionBatch, error) {
	if batch == nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "extract text", errors.New("sanitized batch is nil"))
	}

	result := &domain.ExtractionBatch{
		SourceIdentifier:    batch.SourceIdentifier,
		WorkspaceFolderName: batch.WorkspaceFolderName,
		WorkspaceFullPath:   batch.WorkspaceFullPath,
		Files:               make([]domain.ExtractedDocument, 0, len(batch.AcceptedFiles)),
	}

	for _, file := range batch.AcceptedFiles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var text string
		if isPDF(file.MimeType, file.FullPath) {
			text = uc.safeExtract(ctx, "pdf_text", file.FullPath, uc.pdf.ExtractText)
		}
		if strings.TrimSpace(text) == "" {
			text = uc.safeExtract(ctx, "ocr", file.FullPath, uc.ocr.ReadText)
		}

		result.Files = append(result.Files, domain.ExtractedDocument{
			FileName:    file.FileName,
			FullPath:    file.FullPath,
			FileType:    file.MimeType,
			TextContent: text,
		})
	}

	return result, nil
}

func (uc *ExtractTextUseCase) safeExtract(
	ctx context.Context,
	method, path string,
	fn func(context.Context, string) (string, error),
) string {
	text, err := fn(ctx, path)
	if err != nil {
		uc.logger.Warn("text_extraction_failed", "method", method, "path", path, "error", err.Error())
		return ""
	}
	return text
}

func isPDF(mimeType, path string) bool {
	if strings.TrimSpace(mimeType) != "" {
		return strings.EqualFold(mimeType, mimePDF)
	}
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}
