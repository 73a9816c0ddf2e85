package reconcile

import (
	"regexp"
	"strconv"
	"strings"
)

var totalKeywords = []string{"grand total", "net payable", "total amount", "final total", "amount payable"}

var trailingNumberRe = regexp.MustCompile(`([0-9][0-9,]*(?:\.[0-9]+)?)\s*$`)

// StatedTotal scans page text for the document's own stated grand total: a
// summary-keyword line ending in a number. The last such line wins, since
// bills print the grand total beneath any sub-totals. Returns false when no
// page states one.
func StatedTotal(text string) (float64, bool) {
	var total float64
	found := false

	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(strings.TrimSpace(line))
		if lower == "" {
			continue
		}
		keyworded := false
		for _, kw := range totalKeywords {
			if strings.Contains(lower, kw) {
				keyworded = true
				break
			}
		}
		if !keyworded {
			continue
		}

		m := trailingNumberRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil || v <= 0 {
			continue
		}
		total = v
		found = true
	}

	return total, found
}
