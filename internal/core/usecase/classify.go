package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/document-triage/internal/core/domain"
	"github.com/kirillkom/document-triage/internal/core/ports"
)

type ClassifyUseCase struct {
	classifier ports.BatchClassifier
	recorder   ports.ClassificationRecorder
	logger     *slog.Logger
}

// NewClassifyUseCase wraps a batch classifier with metrics and a per-batch
// summary log. recorder may be nil.
func NewClassifyUseCase(classifier ports.BatchClassifier, recorder ports.ClassificationRecorder, logger *slog.Logger) *ClassifyUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClassifyUseCase{classifier: classifier, recorder: recorder, logger: logger}
}

func (uc *ClassifyUseCase) ClassifyBatch(ctx context.Context, batch *domain.ExtractionBatch) (*domain.ClassificationBatchResult, error) {
	if batch == nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "classify batch", errors.New("batch is nil"))
	}

	started := time.Now()
	result, err := uc.classifier.ClassifyBatch(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("classify batch: %w", err)
	}
	elapsed := time.Since(started)

	if uc.recorder != nil {
		for _, file := range result.Files {
			uc.recorder.RecordClassification(file.FileType)
		}
		uc.recorder.RecordBatch(len(result.Files), elapsed.Seconds())
	}

	counts := result.CountByType()
	uc.logger.Info("batch_classified",
		"source", result.SourceIdentifier,
		"workspace", result.WorkspaceFolderName,
		"files", len(result.Files),
		"boleto", counts[domain.DocumentTypeBoleto],
		"nota_fiscal", counts[domain.DocumentTypeNotaFiscal],
		"fatura_recibo", counts[domain.DocumentTypeFaturaRecibo],
		"outros", counts[domain.DocumentTypeOutros],
		"duration_ms", elapsed.Milliseconds(),
	)
	return result, nil
}
