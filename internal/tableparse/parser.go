package tableparse

import (
	"billscan/internal/domain"
)

// Strategy attempts to recover structured rows from one page of recognized
// text. A strategy that matches nothing returns an empty slice.
type Strategy func(text string) []domain.BillItem

// Parser runs an ordered list of independent row-recovery strategies.
// Strategies are never merged: the first one producing at least one item
// wins for the whole page.
type Parser struct {
	strategies []Strategy
}

// New creates a Parser with the standard strategy order: date-anchored rows
// first, then qty/rate/net-amount column rows.
func New() *Parser {
	return &Parser{
		strategies: []Strategy{
			DateAnchoredRows,
			ColumnRows,
		},
	}
}

// Parse extracts bill items deterministically, with zero tokens spent.
// Unparsable input yields an empty slice, never an error.
func (p *Parser) Parse(text string) []domain.BillItem {
	if text == "" {
		return nil
	}
	for _, s := range p.strategies {
		if items := s(text); len(items) > 0 {
			return items
		}
	}
	return nil
}
