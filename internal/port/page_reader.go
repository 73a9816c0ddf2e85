package port

import (
	"context"

	"billscan/internal/domain"
)

// Document is a fetched document ready for text recognition.
type Document struct {
	Bytes       []byte
	ContentType string
}

// PageReader abstracts the OCR capability: raw document bytes in, ordered
// per-page text with a 0-100 confidence score out.
type PageReader interface {
	ReadPages(ctx context.Context, doc Document) ([]domain.Page, error)
}
