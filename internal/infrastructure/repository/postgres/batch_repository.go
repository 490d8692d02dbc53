package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kirillkom/document-triage/internal/core/domain"
	"github.com/kirillkom/document-triage/internal/infrastructure/resilience"
)

// BatchRepository stores batch records in `batches` and the classified
// documents of each batch in `batch_documents`.
type BatchRepository struct {
	db       *sql.DB
	executor *resilience.Executor
}

func NewBatchRepository(db *sql.DB, executor *resilience.Executor) *BatchRepository {
	return &BatchRepository{db: db, executor: executor}
}

func (r *BatchRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2025011501)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS batches (
	id TEXT PRIMARY KEY,
	source_identifier TEXT NOT NULL,
	workspace_folder_name TEXT NOT NULL,
	workspace_full_path TEXT NOT NULL,
	status TEXT NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	files JSONB NOT NULL DEFAULT '[]'::jsonb,
	discarded_files JSONB NOT NULL DEFAULT '[]'::jsonb,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS batch_documents (
	batch_id TEXT NOT NULL REFERENCES batches(id) ON DELETE CASCADE,
	position INTEGER NOT NULL,
	file_name TEXT NOT NULL,
	full_path TEXT NOT NULL,
	document_type TEXT NOT NULL,
	text_content TEXT NOT NULL,
	PRIMARY KEY (batch_id, position)
);

CREATE INDEX IF NOT EXISTS idx_batches_status ON batches(status);
CREATE INDEX IF NOT EXISTS idx_batches_created_at ON batches(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_batch_documents_type ON batch_documents(document_type);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *BatchRepository) Create(ctx context.Context, record *domain.BatchRecord) error {
	filesJSON, err := json.Marshal(nonNil(record.Files))
	if err != nil {
		return fmt.Errorf("marshal files: %w", err)
	}
	discardedJSON, err := json.Marshal(nonNil(record.DiscardedFiles))
	if err != nil {
		return fmt.Errorf("marshal discarded files: %w", err)
	}

	return r.run(ctx, "postgres.create_batch", func(ctx context.Context) error {
		_, err := r.db.ExecContext(ctx, `
INSERT INTO batches (
	id, source_identifier, workspace_folder_name, workspace_full_path, status, error_message, files, discarded_files, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
`,
			record.ID, record.SourceIdentifier, record.WorkspaceFolderName, record.WorkspaceFullPath,
			string(record.Status), record.Error, filesJSON, discardedJSON, record.CreatedAt, record.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert batch: %w", err)
		}
		return nil
	})
}

func (r *BatchRepository) GetByID(ctx context.Context, id string) (*domain.BatchRecord, error) {
	var record *domain.BatchRecord
	err := r.run(ctx, "postgres.get_batch", func(ctx context.Context) error {
		loaded, err := r.loadBatch(ctx, id)
		if err != nil {
			return err
		}
		if loaded.Status == domain.BatchStatusClassified {
			docs, err := r.loadDocuments(ctx, id)
			if err != nil {
				return err
			}
			loaded.Result = &domain.ClassificationBatchResult{
				SourceIdentifier:    loaded.SourceIdentifier,
				WorkspaceFolderName: loaded.WorkspaceFolderName,
				WorkspaceFullPath:   loaded.WorkspaceFullPath,
				Files:               docs,
			}
		}
		record = loaded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BatchRepository) loadBatch(ctx context.Context, id string) (*domain.BatchRecord, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, source_identifier, workspace_folder_name, workspace_full_path, status, error_message, files, discarded_files, created_at, updated_at
FROM batches
WHERE id = $1
`, id)

	var record domain.BatchRecord
	var status string
	var filesRaw, discardedRaw []byte
	err := row.Scan(
		&record.ID, &record.SourceIdentifier, &record.WorkspaceFolderName, &record.WorkspaceFullPath,
		&status, &record.Error, &filesRaw, &discardedRaw, &record.CreatedAt, &record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrBatchNotFound, "get batch", fmt.Errorf("id=%s", id))
		}
		return nil, fmt.Errorf("scan batch: %w", err)
	}

	if err := json.Unmarshal(filesRaw, &record.Files); err != nil {
		return nil, fmt.Errorf("unmarshal files: %w", err)
	}
	if err := json.Unmarshal(discardedRaw, &record.DiscardedFiles); err != nil {
		return nil, fmt.Errorf("unmarshal discarded files: %w", err)
	}
	record.Status = domain.BatchStatus(status)
	return &record, nil
}

func (r *BatchRepository) loadDocuments(ctx context.Context, batchID string) ([]domain.ClassifiedDocument, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT file_name, full_path, document_type, text_content
FROM batch_documents
WHERE batch_id = $1
ORDER BY position
`, batchID)
	if err != nil {
		return nil, fmt.Errorf("query batch documents: %w", err)
	}
	defer rows.Close()

	docs := make([]domain.ClassifiedDocument, 0)
	for rows.Next() {
		var doc domain.ClassifiedDocument
		var docType string
		if err := rows.Scan(&doc.FileName, &doc.FullPath, &docType, &doc.TextContent); err != nil {
			return nil, fmt.Errorf("scan batch document: %w", err)
		}
		doc.FileType = domain.DocumentType(docType)
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate batch documents: %w", err)
	}
	return docs, nil
}

func (r *BatchRepository) UpdateStatus(ctx context.Context, id string, status domain.BatchStatus, errMessage string) error {
	return r.run(ctx, "postgres.update_status", func(ctx context.Context) error {
		res, err := r.db.ExecContext(ctx, `
UPDATE batches
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), errMessage, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("update batch status: %w", err)
		}
		return ensureAffected(res, "update batch status", id)
	})
}

// SaveResult replaces the classified documents of a batch and stores the
// discarded list in one transaction.
func (r *BatchRepository) SaveResult(
	ctx context.Context,
	id string,
	result *domain.ClassificationBatchResult,
	discarded []domain.DiscardedFile,
) error {
	if result == nil {
		return domain.WrapError(domain.ErrInvalidInput, "save batch result", errors.New("result is nil"))
	}
	discardedJSON, err := json.Marshal(nonNil(discarded))
	if err != nil {
		return fmt.Errorf("marshal discarded files: %w", err)
	}

	return r.run(ctx, "postgres.save_result", func(ctx context.Context) error {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin result tx: %w", err)
		}
		defer func() {
			_ = tx.Rollback()
		}()

		res, err := tx.ExecContext(ctx, `
UPDATE batches
SET discarded_files = $2, updated_at = $3
WHERE id = $1
`, id, discardedJSON, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("update discarded files: %w", err)
		}
		if err := ensureAffected(res, "save batch result", id); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM batch_documents WHERE batch_id = $1`, id); err != nil {
			return fmt.Errorf("clear batch documents: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO batch_documents (batch_id, position, file_name, full_path, document_type, text_content)
VALUES ($1,$2,$3,$4,$5,$6)
`)
		if err != nil {
			return fmt.Errorf("prepare document insert: %w", err)
		}
		defer stmt.Close()

		for i, doc := range result.Files {
			if _, err := stmt.ExecContext(ctx, id, i, doc.FileName, doc.FullPath, string(doc.FileType), doc.TextContent); err != nil {
				return fmt.Errorf("insert batch document %d: %w", i, err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit result tx: %w", err)
		}
		return nil
	})
}

func (r *BatchRepository) run(ctx context.Context, operation string, fn func(context.Context) error) error {
	var err error
	if r.executor != nil {
		err = r.executor.Execute(ctx, operation, fn, classifyPostgresError)
	} else {
		err = fn(ctx)
	}
	return wrapTemporaryIfNeeded(operation, err)
}

func ensureAffected(res sql.Result, operation, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", operation, err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrBatchNotFound, operation, fmt.Errorf("id=%s", id))
	}
	return nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
