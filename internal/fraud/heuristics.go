// Package fraud holds the stateless rule set that flags suspicious patterns
// in an extracted bill. All checks are advisory: flags never fail the
// pipeline.
package fraud

import (
	"math"
	"strings"

	"billscan/internal/domain"
)

const (
	// FlagFontInconsistency marks a page whose OCR confidence is too low
	// to trust, which also fires on tampered or re-typeset regions.
	FlagFontInconsistency = "font_inconsistency"
	// FlagDuplicateItems marks the same item name billed with diverging
	// amounts.
	FlagDuplicateItems = "duplicate_items"
	// FlagTotalMismatch marks a stated document total that disagrees with
	// the reconciled one.
	FlagTotalMismatch = "total_mismatch"
)

const (
	lowConfidenceThreshold = 60.0
	amountDivergence       = 0.01
	totalTolerance         = 1.00
)

// Evaluate runs the three independent checks over the post-validation pages
// and returns the set of raised flags. statedTotal is the document's own
// printed total when one was found; nil means the total-mismatch check is
// skipped entirely.
func Evaluate(pages []domain.PageResult, reconciledTotal float64, statedTotal *float64) []string {
	set := make(map[string]struct{}, 3)
	var flags []string
	raise := func(flag string) {
		if _, ok := set[flag]; ok {
			return
		}
		set[flag] = struct{}{}
		flags = append(flags, flag)
	}

	if lowConfidence(pages) {
		raise(FlagFontInconsistency)
	}
	if duplicateItems(pages) {
		raise(FlagDuplicateItems)
	}
	if statedTotal != nil && math.Abs(reconciledTotal-*statedTotal) > totalTolerance {
		raise(FlagTotalMismatch)
	}

	return flags
}

func lowConfidence(pages []domain.PageResult) bool {
	for i := range pages {
		if pages[i].Confidence < lowConfidenceThreshold {
			return true
		}
	}
	return false
}

// duplicateItems reports whether any item name (case-insensitive, trimmed)
// recurs across the document with amounts differing by more than the
// divergence tolerance. Each name is compared against its first sighting.
func duplicateItems(pages []domain.PageResult) bool {
	firstSeen := make(map[string]float64)

	for i := range pages {
		for j := range pages[i].Items {
			it := &pages[i].Items[j]
			key := strings.ToLower(strings.TrimSpace(it.ItemName))
			amount := float64(it.ItemAmount)
			if prev, ok := firstSeen[key]; ok {
				if math.Abs(prev-amount) > amountDivergence {
					return true
				}
				continue
			}
			firstSeen[key] = amount
		}
	}
	return false
}
