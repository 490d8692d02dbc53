package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/document-triage/internal/core/domain"
	"github.com/kirillkom/document-triage/internal/core/ports"
)

type SubmitBatchUseCase struct {
	preparer *PrepareWorkspaceUseCase
	repo     ports.BatchRepository
	queue    ports.MessageQueue
}

func NewSubmitBatchUseCase(
	preparer *PrepareWorkspaceUseCase,
	repo ports.BatchRepository,
	queue ports.MessageQueue,
) *SubmitBatchUseCase {
	return &SubmitBatchUseCase{
		preparer: preparer,
		repo:     repo,
		queue:    queue,
	}
}

// Submit writes the inline files to a workspace, stores the batch as
// prepared and announces it to the workers.
func (uc *SubmitBatchUseCase) Submit(ctx context.Context, req *domain.BatchRequest) (*domain.BatchRecord, error) {
	if req == nil || len(req.Files) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "submit batch", errors.New("batch has no files"))
	}

	prepared, err := uc.preparer.Prepare(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("prepare workspace: %w", err)
	}

	now := time.Now().UTC()
	record := &domain.BatchRecord{
		ID:                  uuid.NewString(),
		SourceIdentifier:    prepared.SourceIdentifier,
		WorkspaceFolderName: prepared.WorkspaceFolderName,
		WorkspaceFullPath:   prepared.WorkspaceFullPath,
		Status:              domain.BatchStatusPrepared,
		Files:               prepared.Files,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := uc.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("create batch record: %w", err)
	}

	if err := uc.queue.PublishBatchPrepared(ctx, record.ID); err != nil {
		if failErr := uc.repo.UpdateStatus(ctx, record.ID, domain.BatchStatusFailed, err.Error()); failErr != nil {
			return nil, fmt.Errorf("publish batch event: %w; mark failed status: %v", err, failErr)
		}
		return nil, fmt.Errorf("publish batch event: %w", err)
	}

	return record, nil
}

type GetBatchUseCase struct {
	repo ports.BatchRepository
}

func NewGetBatchUseCase(repo ports.BatchRepository) *GetBatchUseCase {
	return &GetBatchUseCase{repo: repo}
}

func (uc *GetBatchUseCase) GetByID(ctx context.Context, batchID string) (*domain.BatchRecord, error) {
	if err := validateBatchID(batchID); err != nil {
		return nil, err
	}
	return uc.repo.GetByID(ctx, batchID)
}

func validateBatchID(batchID string) error {
	if _, err := uuid.Parse(batchID); err != nil {
		return domain.WrapError(domain.ErrInvalidInput, "parse batch id", err)
	}
	return nil
}
