package usecase

import (
	"context"
	"errors"
	"io"
	"path"
	"sync"

	"github.com/kirillkom/document-triage/internal/core/domain"
)

type storageFake struct {
	mu        sync.Mutex
	root      string
	files     map[string][]byte
	sizes     map[string]int64
	createErr error
	saveErr   error
	statErr   error
}

func newStorageFake() *storageFake {
	return &storageFake{
		root:  "/ws",
		files: map[string][]byte{},
		sizes: map[string]int64{},
	}
}

func (f *storageFake) CreateWorkspace(_ context.Context, folderName string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	return path.Join(f.root, folderName), nil
}

func (f *storageFake) Save(_ context.Context, fullPath string, data io.Reader) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[fullPath] = raw
	return nil
}

func (f *storageFake) Stat(_ context.Context, fullPath string) (int64, bool, error) {
	if f.statErr != nil {
		return 0, false, f.statErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if size, ok := f.sizes[fullPath]; ok {
		return size, true, nil
	}
	raw, ok := f.files[fullPath]
	return int64(len(raw)), ok, nil
}

type statusCall struct {
	status domain.BatchStatus
	errMsg string
}

type repoFake struct {
	record        *domain.BatchRecord
	created       *domain.BatchRecord
	getErr        error
	createErr     error
	saveErr       error
	statusErr     error
	failStatusErr error
	statusCalls   []statusCall
	savedResult   *domain.ClassificationBatchResult
	savedDiscard  []domain.DiscardedFile
}

func (f *repoFake) Create(_ context.Context, record *domain.BatchRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	copyRecord := *record
	f.created = &copyRecord
	return nil
}

func (f *repoFake) GetByID(context.Context, string) (*domain.BatchRecord, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.record == nil {
		return nil, domain.ErrBatchNotFound
	}
	copyRecord := *f.record
	return &copyRecord, nil
}

func (f *repoFake) UpdateStatus(_ context.Context, _ string, status domain.BatchStatus, errMessage string) error {
	f.statusCalls = append(f.statusCalls, statusCall{status: status, errMsg: errMessage})
	if status == domain.BatchStatusFailed && f.failStatusErr != nil {
		return f.failStatusErr
	}
	if f.statusErr != nil {
		return f.statusErr
	}
	return nil
}

func (f *repoFake) SaveResult(_ context.Context, _ string, result *domain.ClassificationBatchResult, discarded []domain.DiscardedFile) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.savedResult = result
	f.savedDiscard = discarded
	return nil
}

type queueFake struct {
	batchID string
	err     error
}

func (f *queueFake) PublishBatchPrepared(_ context.Context, batchID string) error {
	if f.err != nil {
		return f.err
	}
	f.batchID = batchID
	return nil
}

func (f *queueFake) SubscribeBatchPrepared(context.Context, func(context.Context, string) error) error {
	return errors.New("not implemented")
}

// textSourceFake serves both the PDF text layer and OCR lookups.
type textSourceFake struct {
	texts map[string]string
	errs  map[string]error
	calls []string
}

func (f *textSourceFake) read(_ context.Context, fullPath string) (string, error) {
	f.calls = append(f.calls, fullPath)
	if err := f.errs[fullPath]; err != nil {
		return "", err
	}
	return f.texts[fullPath], nil
}

func (f *textSourceFake) ExtractText(ctx context.Context, fullPath string) (string, error) {
	return f.read(ctx, fullPath)
}

func (f *textSourceFake) ReadText(ctx context.Context, fullPath string) (string, error) {
	return f.read(ctx, fullPath)
}

type recorderFake struct {
	mu      sync.Mutex
	byType  map[domain.DocumentType]int
	batches []int
}

func (f *recorderFake) RecordClassification(docType domain.DocumentType) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.byType == nil {
		f.byType = map[domain.DocumentType]int{}
	}
	f.byType[docType]++
}

func (f *recorderFake) RecordBatch(size int, _ float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, size)
}
