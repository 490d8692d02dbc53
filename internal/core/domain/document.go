package domain

// DocumentType is the label assigned to every classified document.
type DocumentType string

const (
	DocumentTypeBoleto       DocumentType = "Boleto"
	DocumentTypeNotaFiscal   DocumentType = "NotaFiscal"
	DocumentTypeFaturaRecibo DocumentType = "FaturaRecibo"
	DocumentTypeOutros       DocumentType = "Outros"
)

// DocumentTypes lists every label in a stable order.
func DocumentTypes() []DocumentType {
	return []DocumentType{
		DocumentTypeBoleto,
		DocumentTypeNotaFiscal,
		DocumentTypeFaturaRecibo,
		DocumentTypeOutros,
	}
}

func (t DocumentType) Valid() bool {
	switch t {
	case DocumentTypeBoleto, DocumentTypeNotaFiscal, DocumentTypeFaturaRecibo, DocumentTypeOutros:
		return true
	default:
		return false
	}
}

// ExtractedDocument is one file produced by the extraction stage.
// TextContent is empty when neither embedded text nor OCR produced anything.
type ExtractedDocument struct {
	FileName    string `json:"fileName"`
	FullPath    string `json:"fullPath"`
	FileType    string `json:"fileType"`
	TextContent string `json:"textContent"`
}

// ExtractionBatch is the input contract of the classification stage.
type ExtractionBatch struct {
	SourceIdentifier    string              `json:"sourceIdentifier"`
	WorkspaceFolderName string              `json:"workspaceFolderName"`
	WorkspaceFullPath   string              `json:"workspaceFullPath"`
	Files               []ExtractedDocument `json:"files"`
}

type ClassifiedDocument struct {
	FileName    string       `json:"fileName"`
	FullPath    string       `json:"fullPath"`
	TextContent string       `json:"textContent"`
	FileType    DocumentType `json:"fileType"`
}

// ClassificationBatchResult carries the batch metadata untouched plus one
// ClassifiedDocument per input file, in input order.
type ClassificationBatchResult struct {
	SourceIdentifier    string               `json:"sourceIdentifier"`
	WorkspaceFolderName string               `json:"workspaceFolderName"`
	WorkspaceFullPath   string               `json:"workspaceFullPath"`
	Files               []ClassifiedDocument `json:"files"`
}

// CountByType returns how many documents received each label.
func (r *ClassificationBatchResult) CountByType() map[DocumentType]int {
	counts := make(map[DocumentType]int, 4)
	if r == nil {
		return counts
	}
	for _, f := range r.Files {
		counts[f.FileType]++
	}
	return counts
}
