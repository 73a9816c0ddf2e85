package port

import (
	"context"

	"billscan/internal/domain"
)

// ExtractInput carries one page's recognized text into the fallback
// extractor.
type ExtractInput struct {
	Text       string
	PageNumber int
}

// ExtractOutput is the structured result of a fallback extraction call.
// Usage is nil when the provider did not report token consumption.
type ExtractOutput struct {
	Items []domain.BillItem
	Usage *domain.UsageRecord
}

// ItemExtractor abstracts the model-based line-item extraction capability.
// The core depends on it but never implements it; tests substitute doubles.
type ItemExtractor interface {
	Extract(ctx context.Context, input ExtractInput) (*ExtractOutput, error)
}
