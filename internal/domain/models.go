package domain

import (
	"fmt"
	"math"
	"strconv"
)

// Money is a monetary value serialized with exactly 2 decimal places.
type Money float64

// MarshalJSON renders the value with 2 decimal places, no quotes.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(m), 'f', 2, 64)), nil
}

// UnmarshalJSON accepts any JSON number.
func (m *Money) UnmarshalJSON(data []byte) error {
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("parsing money value %q: %w", string(data), err)
	}
	*m = Money(f)
	return nil
}

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// BillItem is a single extracted line item. All numeric fields are rounded
// to 2 decimal places at the boundary of every producing component.
type BillItem struct {
	ItemName     string `json:"item_name"`
	ItemRate     Money  `json:"item_rate"`
	ItemQuantity Money  `json:"item_quantity"`
	ItemAmount   Money  `json:"item_amount"`
}

// Page is the core's input boundary: recognized text for one page, in page
// order, with the recognizer's confidence on a 0-100 scale.
type Page struct {
	PageNumber int     `json:"page_no"`
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// PageResult holds one page's classified type and extracted items.
type PageResult struct {
	PageNumber int
	PageType   PageType
	Items      []BillItem
	Confidence float64
}

// UsageRecord counts LLM token consumption for fallback extraction calls.
type UsageRecord struct {
	TotalTokens  int `json:"total_tokens"`
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// ReconciliationResult is the output of document-level reconciliation,
// recomputed fully on every call.
type ReconciliationResult struct {
	Items     []BillItem
	Total     float64
	ItemCount int
}

// PageLineItems is the wire form of a single page in the response.
type PageLineItems struct {
	PageNo    string     `json:"page_no"`
	PageType  PageType   `json:"page_type"`
	BillItems []BillItem `json:"bill_items"`
}

// DocumentData is the data block of a successful extraction response.
type DocumentData struct {
	PagewiseLineItems []PageLineItems `json:"pagewise_line_items"`
	TotalItemCount    int             `json:"total_item_count"`
	ReconciledAmount  *Money          `json:"reconciled_amount,omitempty"`
	FraudFlags        []string        `json:"fraud_flags,omitempty"`
}

// DocumentResult is the top-level extraction response envelope. It lives for
// one request and is discarded once the response is written.
type DocumentResult struct {
	IsSuccess  bool          `json:"is_success"`
	TokenUsage UsageRecord   `json:"token_usage"`
	Data       *DocumentData `json:"data,omitempty"`
	Error      string        `json:"error,omitempty"`
}

// FailedResult builds the well-formed negative response: unsuccessful, zero
// usage, descriptive message.
func FailedResult(msg string) *DocumentResult {
	return &DocumentResult{
		IsSuccess:  false,
		TokenUsage: UsageRecord{},
		Error:      msg,
	}
}
