// Package usage tracks LLM token consumption across the fallback extraction
// calls of a single document request.
package usage

import (
	"sync"

	"billscan/internal/domain"
)

// Accumulator is a running total of token usage. Multiple page workers may
// report usage concurrently, so additions are serialized; a fresh
// Accumulator is created per document request and never decremented.
type Accumulator struct {
	mu           sync.Mutex
	inputTokens  int
	outputTokens int
	totalTokens  int
}

// NewAccumulator creates an empty Accumulator.
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Add merges one call's usage into the running totals. The total counter
// prefers the record's explicit total when present, else input+output.
func (a *Accumulator) Add(u domain.UsageRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()

	total := u.TotalTokens
	if total == 0 {
		total = u.InputTokens + u.OutputTokens
	}
	a.inputTokens += u.InputTokens
	a.outputTokens += u.OutputTokens
	a.totalTokens += total
}

// Snapshot returns the current totals without mutating state.
func (a *Accumulator) Snapshot() domain.UsageRecord {
	a.mu.Lock()
	defer a.mu.Unlock()

	return domain.UsageRecord{
		TotalTokens:  a.totalTokens,
		InputTokens:  a.inputTokens,
		OutputTokens: a.outputTokens,
	}
}
