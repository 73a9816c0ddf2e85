package tableparse

import (
	"strings"

	"billscan/internal/domain"
)

var headerKeywords = []string{"description", "qty", "rate", "discount", "net", "amt", "hrs"}

var summaryWords = []string{"total", "subtotal", "category", "charges"}

// headerRowTokens caps how long a line can be and still count as a column
// header rather than a data row.
const headerRowTokens = 8

// ColumnRows recognizes rows shaped like
//
//	Description  Qty  Rate  [Discount]  Net Amt
//
// without a date anchor. Header-looking lines and summary lines are
// skipped; the description is the token span before the first purely
// numeric token, and the numeric tail maps positionally onto quantity,
// rate and amount (the last token when a discount column is present).
func ColumnRows(text string) []domain.BillItem {
	var items []domain.BillItem

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isHeaderRow(line) || isSummaryRow(line) {
			continue
		}

		fields := strings.Fields(line)
		firstNum := -1
		for i, f := range fields {
			if isNumericToken(f) {
				firstNum = i
				break
			}
		}
		if firstNum <= 0 {
			// no description span, or no numeric tail at all
			continue
		}
		desc := strings.Join(fields[:firstNum], " ")

		var nums []float64
		ok := true
		for _, f := range fields[firstNum:] {
			if !isNumericToken(f) {
				continue
			}
			v, parsed := parseNumber(f)
			if !parsed {
				ok = false
				break
			}
			nums = append(nums, v)
		}
		if !ok || len(nums) < 3 {
			continue
		}

		qty := nums[0]
		rate := nums[1]
		amount := nums[2]
		if len(nums) >= 4 {
			// qty, rate, discount (ignored), ..., net amount last
			amount = nums[len(nums)-1]
		}
		if qty <= 0 || rate <= 0 || amount <= 0 {
			continue
		}

		items = append(items, domain.BillItem{
			ItemName:     desc,
			ItemRate:     domain.Money(domain.Round2(rate)),
			ItemQuantity: domain.Money(domain.Round2(qty)),
			ItemAmount:   domain.Money(domain.Round2(amount)),
		})
	}

	return items
}

func isHeaderRow(line string) bool {
	fields := strings.Fields(line)
	if len(fields) > headerRowTokens {
		return false
	}
	lower := strings.ToLower(line)
	hits := 0
	for _, kw := range headerKeywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	return hits >= 2
}

func isSummaryRow(line string) bool {
	lower := strings.ToLower(strings.TrimSpace(line))
	for _, w := range summaryWords {
		if strings.HasSuffix(lower, w) {
			return true
		}
	}
	return false
}
