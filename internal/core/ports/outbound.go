package ports

import (
	"context"
	"io"

	"github.com/kirillkom/document-triage/internal/core/domain"
)

// WorkspaceStorage owns the on-disk batch folders.
type WorkspaceStorage interface {
	// CreateWorkspace creates folderName under the storage root and returns its full path.
	CreateWorkspace(ctx context.Context, folderName string) (string, error)
	Save(ctx context.Context, fullPath string, data io.Reader) error
	// Stat reports the size of fullPath; exists is false when the file is missing.
	Stat(ctx context.Context, fullPath string) (size int64, exists bool, err error)
}

// EmbeddedTextExtractor reads the text layer of a PDF.
type EmbeddedTextExtractor interface {
	ExtractText(ctx context.Context, fullPath string) (string, error)
}

// OCRReader recognizes text from an image or a scanned PDF.
type OCRReader interface {
	ReadText(ctx context.Context, fullPath string) (string, error)
}

// BatchRepository persists and reads batch state.
type BatchRepository interface {
	Create(ctx context.Context, record *domain.BatchRecord) error
	GetByID(ctx context.Context, id string) (*domain.BatchRecord, error)
	UpdateStatus(ctx context.Context, id string, status domain.BatchStatus, errMessage string) error
	SaveResult(ctx context.Context, id string, result *domain.ClassificationBatchResult, discarded []domain.DiscardedFile) error
}

// MessageQueue publishes/consumes batch preparation events.
type MessageQueue interface {
	PublishBatchPrepared(ctx context.Context, batchID string) error
	SubscribeBatchPrepared(ctx context.Context, handler func(context.Context, string) error) error
}

// ClassificationRecorder observes classification outcomes.
type ClassificationRecorder interface {
	RecordClassification(docType domain.DocumentType)
	RecordBatch(size int, seconds float64)
}
