package usecase

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/kirillkom/document-triage/internal/core/domain"
	"github.com/kirillkom/document-triage/internal/core/ports"
)

const unknownSource = "unknown"

type PrepareWorkspaceUseCase struct {
	storage ports.WorkspaceStorage
	logger  *slog.Logger
	now     func() time.Time
}

func NewPrepareWorkspaceUseCase(storage ports.WorkspaceStorage, logger *slog.Logger) *PrepareWorkspaceUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &PrepareWorkspaceUseCase{
		storage: storage,
		logger:  logger,
		now:     time.Now,
	}
}

// Prepare decodes every inline file of req into a fresh workspace folder.
// Files with invalid base64 are skipped.
func (uc *PrepareWorkspaceUseCase) Prepare(ctx context.Context, req *domain.BatchRequest) (*domain.PreparedWorkspace, error) {
	if req == nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "prepare workspace", errors.New("request is nil"))
	}

	folderName := workspaceFolderName(uc.now().UTC(), req.SourceIdentifier)
	fullPath, err := uc.storage.CreateWorkspace(ctx, folderName)
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	prepared := &domain.PreparedWorkspace{
		SourceIdentifier:    req.SourceIdentifier,
		WorkspaceFolderName: folderName,
		WorkspaceFullPath:   fullPath,
		Files:               []domain.WorkspaceFile{},
	}

	for _, file := range req.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name, err := uc.uniqueName(ctx, fullPath, sanitizeFileName(file.FileName))
		if err != nil {
			return nil, err
		}

		data, err := decodeBase64(file.ContentBase64)
		if err != nil {
			uc.logger.Warn("workspace_file_skipped",
				"workspace", folderName,
				"file_name", file.FileName,
				"error", err.Error(),
			)
			continue
		}

		path := filepath.Join(fullPath, name)
		if err := uc.storage.Save(ctx, path, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("save workspace file %s: %w", name, err)
		}
		prepared.Files = append(prepared.Files, domain.WorkspaceFile{FileName: name, FullPath: path})
	}

	return prepared, nil
}

func (uc *PrepareWorkspaceUseCase) uniqueName(ctx context.Context, dir, fileName string) (string, error) {
	ext := filepath.Ext(fileName)
	stem := strings.TrimSuffix(fileName, ext)
	candidate := fileName
	for counter := 1; ; counter++ {
		_, exists, err := uc.storage.Stat(ctx, filepath.Join(dir, candidate))
		if err != nil {
			return "", fmt.Errorf("stat workspace file: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s(%d)%s", stem, counter, ext)
	}
}

// workspaceFolderName renders <yyyyMMddHHmmssfff>_<source>.
func workspaceFolderName(now time.Time, sourceIdentifier string) string {
	id := unknownSource
	if strings.TrimSpace(sourceIdentifier) != "" {
		id = sanitizeFileName(sourceIdentifier)
	}
	stamp := now.Format("20060102150405") + fmt.Sprintf("%03d", now.Nanosecond()/int(time.Millisecond))
	return stamp + "_" + id
}

// sanitizeFileName keeps the base name only and replaces characters that are
// not portable in file names.
func sanitizeFileName(name string) string {
	if strings.TrimSpace(name) == "" {
		return "file"
	}
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if name == "" || name == "." || name == ".." {
		return "file"
	}
	return strings.Map(func(r rune) rune {
		if r < 0x20 || strings.ContainsRune(`<>:"/\|?*`, r) {
			return '_'
		}
		return r
	}, name)
}

func decodeBase64(content string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		default:
			return r
		}
	}, content)
	data, err := base64.StdEncoding.DecodeString(cleaned)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	return data, nil
}
