package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kirillkom/document-triage/internal/core/domain"
	"github.com/kirillkom/document-triage/internal/core/ports"
)

const (
	ReasonInvalidPath     = "Invalid file path"
	ReasonUnsupportedType = "Unsupported file type"
	ReasonFileNotFound    = "File not found"
	ReasonLikelyThumbnail = "Likely email signature/thumbnail"
	ReasonImageTooSmall   = "Image too small (likely non-text)"
)

var mimeByExtension = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".bmp":  "image/bmp",
	".webp": "image/webp",
}

type SanitizeUseCase struct {
	storage ports.WorkspaceStorage
	rules   domain.SanitizationRules
}

func NewSanitizeUseCase(storage ports.WorkspaceStorage, rules domain.SanitizationRules) *SanitizeUseCase {
	return &SanitizeUseCase{storage: storage, rules: rules}
}

// Sanitize splits the workspace files into the ones worth extracting and the
// discarded ones, each with its reason.
func (uc *SanitizeUseCase) Sanitize(ctx context.Context, prepared *domain.PreparedWorkspace) (*domain.SanitizedBatch, error) {
	if prepared == nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "sanitize workspace", errors.New("workspace is nil"))
	}

	result := &domain.SanitizedBatch{
		SourceIdentifier:    prepared.SourceIdentifier,
		WorkspaceFolderName: prepared.WorkspaceFolderName,
		WorkspaceFullPath:   prepared.WorkspaceFullPath,
		AcceptedFiles:       []domain.SanitizedFile{},
		DiscardedFiles:      []domain.DiscardedFile{},
	}

	for _, file := range prepared.Files {
		reason, err := uc.discardReason(ctx, file)
		if err != nil {
			return nil, err
		}
		name := displayName(file)
		if reason != "" {
			result.DiscardedFiles = append(result.DiscardedFiles, domain.DiscardedFile{
				FileName: name,
				FullPath: file.FullPath,
				Reason:   reason,
			})
			continue
		}
		result.AcceptedFiles = append(result.AcceptedFiles, domain.SanitizedFile{
			FileName: name,
			FullPath: file.FullPath,
			MimeType: mimeByExtension[strings.ToLower(filepath.Ext(file.FullPath))],
		})
	}

	return result, nil
}

func (uc *SanitizeUseCase) discardReason(ctx context.Context, file domain.WorkspaceFile) (string, error) {
	if strings.TrimSpace(file.FullPath) == "" {
		return ReasonInvalidPath, nil
	}

	ext := strings.ToLower(filepath.Ext(file.FullPath))
	if !containsFold(uc.rules.AllowedExtensions, ext) {
		return ReasonUnsupportedType, nil
	}
	if !containsFold(uc.rules.ImageExtensions, ext) {
		return "", nil
	}

	size, exists, err := uc.storage.Stat(ctx, file.FullPath)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", file.FullPath, err)
	}
	switch {
	case !exists:
		return ReasonFileNotFound, nil
	case uc.isThumbnailName(displayName(file)):
		return ReasonLikelyThumbnail, nil
	case size < uc.rules.MinImageSizeBytes:
		return ReasonImageTooSmall, nil
	}
	return "", nil
}

func (uc *SanitizeUseCase) isThumbnailName(name string) bool {
	lower := strings.ToLower(name)
	for _, keyword := range uc.rules.ThumbnailKeywords {
		if keyword != "" && strings.Contains(lower, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

func displayName(file domain.WorkspaceFile) string {
	if strings.TrimSpace(file.FileName) != "" {
		return file.FileName
	}
	return filepath.Base(file.FullPath)
}

func containsFold(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}
