package domain

import "time"

// InputFile is a file submitted inline with a batch request.
type InputFile struct {
	FileName      string `json:"fileName"`
	ContentBase64 string `json:"fileContentBase64"`
}

type BatchRequest struct {
	SourceIdentifier string      `json:"sourceIdentifier"`
	Files            []InputFile `json:"files"`
}

type WorkspaceFile struct {
	FileName string `json:"fileName"`
	FullPath string `json:"fullPath"`
}

// PreparedWorkspace is the on-disk folder holding the decoded files of a batch.
type PreparedWorkspace struct {
	SourceIdentifier    string          `json:"sourceIdentifier"`
	WorkspaceFolderName string          `json:"workspaceFolderName"`
	WorkspaceFullPath   string          `json:"workspaceFullPath"`
	Files               []WorkspaceFile `json:"files"`
}

type SanitizedFile struct {
	FileName string `json:"fileName"`
	FullPath string `json:"fullPath"`
	MimeType string `json:"mimeType"`
}

type DiscardedFile struct {
	FileName string `json:"fileName"`
	FullPath string `json:"fullPath"`
	Reason   string `json:"reason"`
}

type SanitizedBatch struct {
	SourceIdentifier    string          `json:"sourceIdentifier"`
	WorkspaceFolderName string          `json:"workspaceFolderName"`
	WorkspaceFullPath   string          `json:"workspaceFullPath"`
	AcceptedFiles       []SanitizedFile `json:"acceptedFiles"`
	DiscardedFiles      []DiscardedFile `json:"discardedFiles"`
}

type BatchStatus string

const (
	BatchStatusPrepared   BatchStatus = "prepared"
	BatchStatusProcessing BatchStatus = "processing"
	BatchStatusClassified BatchStatus = "classified"
	BatchStatusFailed     BatchStatus = "failed"
)

// BatchRecord is the persisted state of a submitted batch.
type BatchRecord struct {
	ID                  string                     `json:"id"`
	SourceIdentifier    string                     `json:"sourceIdentifier"`
	WorkspaceFolderName string                     `json:"workspaceFolderName"`
	WorkspaceFullPath   string                     `json:"workspaceFullPath"`
	Status              BatchStatus                `json:"status"`
	Error               string                     `json:"error,omitempty"`
	Files               []WorkspaceFile            `json:"files"`
	DiscardedFiles      []DiscardedFile            `json:"discardedFiles,omitempty"`
	Result              *ClassificationBatchResult `json:"result,omitempty"`
	CreatedAt           time.Time                  `json:"createdAt"`
	UpdatedAt           time.Time                  `json:"updatedAt"`
}

// Workspace rebuilds the prepared workspace view of a stored record.
func (r *BatchRecord) Workspace() *PreparedWorkspace {
	return &PreparedWorkspace{
		SourceIdentifier:    r.SourceIdentifier,
		WorkspaceFolderName: r.WorkspaceFolderName,
		WorkspaceFullPath:   r.WorkspaceFullPath,
		Files:               r.Files,
	}
}

// SanitizationRules drives which workspace files reach extraction.
type SanitizationRules struct {
	AllowedExtensions []string `json:"allowedExtensions" yaml:"allowed_extensions"`
	ImageExtensions   []string `json:"imageExtensions" yaml:"image_extensions"`
	ThumbnailKeywords []string `json:"thumbnailKeywords" yaml:"thumbnail_keywords"`
	MinImageSizeBytes int64    `json:"minImageSizeBytes" yaml:"min_image_size_bytes"`
}

func DefaultSanitizationRules() SanitizationRules {
	return SanitizationRules{
		AllowedExtensions: []string{".pdf", ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp", ".webp"},
		ImageExtensions:   []string{".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp", ".webp"},
		ThumbnailKeywords: []string{
			"assinatura", "signature", "ass", "sig", "sign", "logo", "brand",
			"icon", "ico", "avatar", "thumb", "thumbnail", "mini", "small", "sm",
			"whatsapp", "facebook", "linkedin", "instagram", "twitter", "youtube",
		},
		MinImageSizeBytes: 8 * 1024,
	}
}
