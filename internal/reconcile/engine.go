// Package reconcile validates line-item arithmetic and computes the
// document total. Validation is a shared primitive with two entry points:
// ValidateItems alone for the per-page view, Reconcile for the global
// deduplicated total.
package reconcile

import (
	"fmt"
	"log"
	"math"
	"strings"

	"billscan/internal/domain"
)

// amountTolerance bounds the accepted drift between a stated amount and
// rate × quantity before the amount is corrected.
const amountTolerance = 0.01

// ValidateItems recomputes every item's expected amount and silently
// corrects amounts drifting beyond the tolerance. The mismatch is a
// warning-level observation, not an error. Returns a new slice; the input
// is never aliased or mutated.
func ValidateItems(items []domain.BillItem) []domain.BillItem {
	validated := make([]domain.BillItem, 0, len(items))

	for i := range items {
		item := items[i]
		expected := domain.Round2(float64(item.ItemRate) * float64(item.ItemQuantity))

		amount := domain.Round2(float64(item.ItemAmount))
		if math.Abs(amount-expected) > amountTolerance {
			log.Printf("reconcile: amount mismatch for %q: expected %.2f, got %.2f",
				item.ItemName, expected, amount)
			amount = expected
		}

		validated = append(validated, domain.BillItem{
			ItemName:     item.ItemName,
			ItemRate:     domain.Money(domain.Round2(float64(item.ItemRate))),
			ItemQuantity: domain.Money(domain.Round2(float64(item.ItemQuantity))),
			ItemAmount:   domain.Money(amount),
		})
	}

	return validated
}

// Reconcile validates, deduplicates, and totals a document's combined item
// list. It is a pure function of its input and is recomputed fully on every
// call.
//
// The dedup key is (lowercased trimmed name, corrected amount): a later item
// with an identical key is dropped, first occurrence wins. Items sharing a
// name but differing in amount both survive — that pattern is a fraud
// signal, not a data-quality one, and removing it would mask the flag.
func Reconcile(items []domain.BillItem) domain.ReconciliationResult {
	validated := ValidateItems(items)

	seen := make(map[string]struct{}, len(validated))
	unique := make([]domain.BillItem, 0, len(validated))
	for i := range validated {
		item := validated[i]
		key := fmt.Sprintf("%s_%.2f", strings.ToLower(strings.TrimSpace(item.ItemName)), float64(item.ItemAmount))
		if _, dup := seen[key]; dup {
			log.Printf("reconcile: duplicate item dropped: %s", item.ItemName)
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, item)
	}

	var total float64
	for i := range unique {
		total += float64(unique[i].ItemAmount)
	}

	return domain.ReconciliationResult{
		Items:     unique,
		Total:     domain.Round2(total),
		ItemCount: len(unique),
	}
}
