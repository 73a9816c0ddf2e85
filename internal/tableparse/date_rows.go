package tableparse

import (
	"regexp"
	"strings"

	"billscan/internal/domain"
)

var (
	dateRe       = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)
	serialRe     = regexp.MustCompile(`^\d+`)
	multiSpaceRe = regexp.MustCompile(`\s{2,}`)
)

// DateAnchoredRows recognizes rows shaped like
//
//	Sl#  Description  Date  Qty  Rate  Amount
//
// anchored on a DD/MM/YYYY date token. The text before the date must start
// with a numeric serial index followed by a description; the text after it
// must hold at least 3 numeric tokens read as quantity, rate, amount.
// Rows without a date simply don't match.
func DateAnchoredRows(text string) []domain.BillItem {
	var items []domain.BillItem

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		loc := dateRe.FindStringIndex(line)
		if loc == nil {
			continue
		}
		before := strings.TrimSpace(line[:loc[0]])
		after := strings.TrimSpace(line[loc[1]:])

		serial := serialRe.FindString(before)
		if serial == "" {
			continue
		}
		desc := strings.TrimSpace(before[len(serial):])
		if desc == "" {
			continue
		}

		fields := strings.Fields(after)
		if len(fields) < 3 {
			continue
		}
		qty, okQ := parseNumber(fields[0])
		rate, okR := parseNumber(fields[1])
		amount, okA := parseNumber(fields[2])
		if !okQ || !okR || !okA {
			continue
		}

		items = append(items, domain.BillItem{
			ItemName:     multiSpaceRe.ReplaceAllString(desc, " "),
			ItemRate:     domain.Money(domain.Round2(rate)),
			ItemQuantity: domain.Money(domain.Round2(qty)),
			ItemAmount:   domain.Money(domain.Round2(amount)),
		})
	}

	return items
}
