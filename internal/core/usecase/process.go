package usecase

import (
	"context"
	"fmt"

	"github.com/kirillkom/document-triage/internal/core/domain"
	"github.com/kirillkom/document-triage/internal/core/ports"
)

type workspaceSanitizer interface {
	Sanitize(ctx context.Context, prepared *domain.PreparedWorkspace) (*domain.SanitizedBatch, error)
}

type batchTextExtractor interface {
	Extract(ctx context.Context, batch *domain.SanitizedBatch) (*domain.ExtractionBatch, error)
}

type ProcessBatchUseCase struct {
	repo       ports.BatchRepository
	sanitizer  workspaceSanitizer
	extractor  batchTextExtractor
	classifier ports.BatchClassifier
}

func NewProcessBatchUseCase(
	repo ports.BatchRepository,
	sanitizer workspaceSanitizer,
	extractor batchTextExtractor,
	classifier ports.BatchClassifier,
) *ProcessBatchUseCase {
	return &ProcessBatchUseCase{
		repo:       repo,
		sanitizer:  sanitizer,
		extractor:  extractor,
		classifier: classifier,
	}
}

func (uc *ProcessBatchUseCase) ProcessByID(ctx context.Context, batchID string) error {
	if err := validateBatchID(batchID); err != nil {
		return err
	}

	if err := uc.markStatus(ctx, batchID, domain.BatchStatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	result, discarded, err := uc.processPipeline(ctx, batchID)
	if err != nil {
		if failErr := uc.markFailed(ctx, batchID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.SaveResult(ctx, batchID, result, discarded); err != nil {
		err = fmt.Errorf("save classification result: %w", err)
		if failErr := uc.markFailed(ctx, batchID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.markStatus(ctx, batchID, domain.BatchStatusClassified, ""); err != nil {
		return fmt.Errorf("set status=classified: %w", err)
	}
	return nil
}

func (uc *ProcessBatchUseCase) processPipeline(ctx context.Context, batchID string) (*domain.ClassificationBatchResult, []domain.DiscardedFile, error) {
	record, err := uc.repo.GetByID(ctx, batchID)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch batch by id: %w", err)
	}

	sanitized, err := uc.sanitizer.Sanitize(ctx, record.Workspace())
	if err != nil {
		return nil, nil, fmt.Errorf("sanitize workspace: %w", err)
	}

	extracted, err := uc.extractor.Extract(ctx, sanitized)
	if err != nil {
		return nil, nil, fmt.Errorf("extract text: %w", err)
	}

	result, err := uc.classifier.ClassifyBatch(ctx, extracted)
	if err != nil {
		return nil, nil, fmt.Errorf("classify batch: %w", err)
	}

	return result, sanitized.DiscardedFiles, nil
}

func (uc *ProcessBatchUseCase) markStatus(ctx context.Context, batchID string, status domain.BatchStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, batchID, status, errMessage)
}

func (uc *ProcessBatchUseCase) markFailed(ctx context.Context, batchID string, processErr error) error {
	if processErr == nil {
		return nil
	}
	return uc.markStatus(ctx, batchID, domain.BatchStatusFailed, processErr.Error())
}
