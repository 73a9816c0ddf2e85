// Package pagetype labels bill pages by purpose from lightweight keyword
// heuristics. Labels drive display grouping only, never arithmetic.
package pagetype

import (
	"regexp"
	"strings"

	"billscan/internal/domain"
)

var pharmacyFormRe = regexp.MustCompile(`(?i)tablet|syrup|capsule|injection`)

// Classify assigns a page type from the page's recognized text.
// Empty text defaults to Bill Detail.
func Classify(text string) domain.PageType {
	if text == "" {
		return domain.PageTypeBillDetail
	}

	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "final bill"),
		strings.Contains(lower, "total amount"),
		strings.Contains(lower, "grand total"),
		strings.Contains(lower, "final total"),
		strings.Contains(lower, "total") && strings.Contains(lower, "payable"):
		return domain.PageTypeFinalBill

	case strings.Contains(lower, "pharmacy"),
		strings.Contains(lower, "medicine"),
		strings.Contains(lower, "prescription"),
		strings.Contains(lower, "drug"),
		pharmacyFormRe.MatchString(text):
		return domain.PageTypePharmacy
	}

	return domain.PageTypeBillDetail
}
