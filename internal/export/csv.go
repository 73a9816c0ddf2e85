package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"billscan/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"Page No",
	"Page Type",
	"Item Name",
	"Item Rate",
	"Item Quantity",
	"Item Amount",
}

// CSVWriter wraps csv.Writer for exporting extraction results as CSV.
type CSVWriter struct {
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *CSVWriter) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteResult converts an extraction result to CSV rows and writes them.
// Failed results produce no rows.
func (w *CSVWriter) WriteResult(result *domain.DocumentResult) error {
	if result == nil || !result.IsSuccess || result.Data == nil {
		return nil
	}
	for _, page := range result.Data.PagewiseLineItems {
		for _, item := range page.BillItems {
			row := []string{
				page.PageNo,
				string(page.PageType),
				item.ItemName,
				formatMoney(item.ItemRate),
				formatMoney(item.ItemQuantity),
				formatMoney(item.ItemAmount),
			}
			if err := w.csv.Write(row); err != nil {
				return err
			}
		}
	}
	if result.Data.ReconciledAmount != nil {
		row := []string{"", "", "Reconciled Total", "", strconv.Itoa(result.Data.TotalItemCount), formatMoney(*result.Data.ReconciledAmount)}
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *CSVWriter) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *CSVWriter) Error() error {
	return w.csv.Error()
}

func formatMoney(m domain.Money) string {
	return strconv.FormatFloat(float64(m), 'f', 2, 64)
}
