package dto

import (
	"time"

	"github.com/spec-kit/insured-person-service/internal/domain"
)

// DocumentSummary is document metadata without the file contents.
type DocumentSummary struct {
	ID        string    `json:"id"`
	FileName  string    `json:"fileName"`
	FileType  string    `json:"fileType"`
	SizeBytes int64     `json:"sizeBytes"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewDocumentSummaries maps documents to their metadata shape.
func NewDocumentSummaries(documents []domain.Document) []DocumentSummary {
	result := make([]DocumentSummary, 0, len(documents))
	for _, doc := range documents {
		result = append(result, DocumentSummary{
			ID:        doc.ID,
			FileName:  doc.FileName,
			FileType:  doc.FileType,
			SizeBytes: doc.SizeBytes,
			CreatedAt: doc.CreatedAt,
		})
	}
	return result
}
