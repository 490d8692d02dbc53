package ports

import (
	"context"
	"io"

	"github.com/kirillkom/document-triage/internal/core/classifier"
	"github.com/kirillkom/document-triage/internal/core/domain"
)

// TextClassifier is the synchronous, per-text contract used by the CLI and
// the explain endpoint.
type TextClassifier interface {
	Classify(text string) classifier.Decision
	Explain(text string) []classifier.Evaluation
}

// BatchClassifier labels an already extracted batch.
type BatchClassifier interface {
	ClassifyBatch(ctx context.Context, batch *domain.ExtractionBatch) (*domain.ClassificationBatchResult, error)
}

// BatchSubmitter accepts a batch of inline files for asynchronous processing.
type BatchSubmitter interface {
	Submit(ctx context.Context, req *domain.BatchRequest) (*domain.BatchRecord, error)
}

// BatchProcessor runs sanitization, extraction and classification for a stored batch.
type BatchProcessor interface {
	ProcessByID(ctx context.Context, batchID string) error
}

// BatchReader is the inbound read model for batch state.
type BatchReader interface {
	GetByID(ctx context.Context, batchID string) (*domain.BatchRecord, error)
}

// ResultExporter renders a classified batch in a downloadable format.
type ResultExporter interface {
	Export(ctx context.Context, result *domain.ClassificationBatchResult, w io.Writer) error
	ContentType() string
}
