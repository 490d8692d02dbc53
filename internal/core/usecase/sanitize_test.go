package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/kirillkom/document-triage/internal/core/domain"
)

func TestSanitizeAcceptsAndDiscards(t *testing.T) {
	storage := newStorageFake()
	storage.sizes["/ws/b/scan.PNG"] = 64 * 1024
	storage.sizes["/ws/b/logo_empresa.png"] = 64 * 1024
	storage.sizes["/ws/b/tiny.jpg"] = 1024
	storage.sizes["/ws/b/nota.pdf"] = 10

	prepared := &domain.PreparedWorkspace{
		SourceIdentifier:    "mailbox-1",
		WorkspaceFolderName: "b",
		WorkspaceFullPath:   "/ws/b",
		Files: []domain.WorkspaceFile{
			{FileName: "nota.pdf", FullPath: "/ws/b/nota.pdf"},
			{FileName: "scan.PNG", FullPath: "/ws/b/scan.PNG"},
			{FileName: "planilha.xlsx", FullPath: "/ws/b/planilha.xlsx"},
			{FileName: "missing.png", FullPath: "/ws/b/missing.png"},
			{FileName: "logo_empresa.png", FullPath: "/ws/b/logo_empresa.png"},
			{FileName: "tiny.jpg", FullPath: "/ws/b/tiny.jpg"},
			{FileName: "ghost.pdf", FullPath: ""},
		},
	}

	got, err := NewSanitizeUseCase(storage, domain.DefaultSanitizationRules()).Sanitize(context.Background(), prepared)
	if err != nil {
		t.Fatalf("Sanitize() error = %v", err)
	}
	if got.SourceIdentifier != "mailbox-1" || got.WorkspaceFullPath != "/ws/b" {
		t.Fatalf("workspace metadata not carried: %+v", got)
	}

	if len(got.AcceptedFiles) != 2 {
		t.Fatalf("expected 2 accepted files, got %+v", got.AcceptedFiles)
	}
	if got.AcceptedFiles[0].MimeType != "application/pdf" || got.AcceptedFiles[1].MimeType != "image/png" {
		t.Fatalf("unexpected mime types: %+v", got.AcceptedFiles)
	}

	wantReasons := map[string]string{
		"planilha.xlsx":    ReasonUnsupportedType,
		"missing.png":      ReasonFileNotFound,
		"logo_empresa.png": ReasonLikelyThumbnail,
		"tiny.jpg":         ReasonImageTooSmall,
		"ghost.pdf":        ReasonInvalidPath,
	}
	if len(got.DiscardedFiles) != len(wantReasons) {
		t.Fatalf("expected %d discarded files, got %+v", len(wantReasons), got.DiscardedFiles)
	}
	for _, d := range got.DiscardedFiles {
		if wantReasons[d.FileName] != d.Reason {
			t.Fatalf("%s discarded with %q, want %q", d.FileName, d.Reason, wantReasons[d.FileName])
		}
	}
}

func TestSanitizeUsesCustomRules(t *testing.T) {
	storage := newStorageFake()
	storage.sizes["/ws/sm_scan.png"] = 100

	rules := domain.SanitizationRules{
		AllowedExtensions: []string{".png"},
		ImageExtensions:   []string{".png"},
		MinImageSizeBytes: 10,
	}
	got, err := NewSanitizeUseCase(storage, rules).Sanitize(context.Background(), &domain.PreparedWorkspace{
		Files: []domain.WorkspaceFile{
			{FullPath: "/ws/sm_scan.png"},
			{FullPath: "/ws/doc.pdf"},
		},
	})
	if err != nil {
		t.Fatalf("Sanitize() error = %v", err)
	}
	if len(got.AcceptedFiles) != 1 || got.AcceptedFiles[0].FileName != "sm_scan.png" {
		t.Fatalf("expected sm_scan.png accepted under custom rules, got %+v", got.AcceptedFiles)
	}
	if len(got.DiscardedFiles) != 1 || got.DiscardedFiles[0].Reason != ReasonUnsupportedType {
		t.Fatalf("expected pdf rejected under custom rules, got %+v", got.DiscardedFiles)
	}
}

func TestSanitizeRejectsNilWorkspace(t *testing.T) {
	_, err := NewSanitizeUseCase(newStorageFake(), domain.DefaultSanitizationRules()).Sanitize(context.Background(), nil)
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSanitizePropagatesStatErrors(t *testing.T) {
	storage := newStorageFake()
	storage.statErr = errors.New("permission denied")

	_, err := NewSanitizeUseCase(storage, domain.DefaultSanitizationRules()).Sanitize(context.Background(), &domain.PreparedWorkspace{
		Files: []domain.WorkspaceFile{{FileName: "scan.png", FullPath: "/ws/scan.png"}},
	})
	if err == nil {
		t.Fatalf("expected stat error")
	}
}
