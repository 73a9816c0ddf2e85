package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"billscan/internal/domain"
)

const sheetName = "Line Items"

// WriteXLSX renders an extraction result into a single-sheet workbook and
// writes it to w. Failed results yield a workbook with only the header.
func WriteXLSX(w io.Writer, result *domain.DocumentResult) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("deleting default sheet: %w", err)
	}

	for col, name := range columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("computing header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	row := 2
	if result != nil && result.IsSuccess && result.Data != nil {
		for _, page := range result.Data.PagewiseLineItems {
			for _, item := range page.BillItems {
				values := []interface{}{
					page.PageNo,
					string(page.PageType),
					item.ItemName,
					float64(item.ItemRate),
					float64(item.ItemQuantity),
					float64(item.ItemAmount),
				}
				if err := writeRow(f, row, values); err != nil {
					return err
				}
				row++
			}
		}
		if result.Data.ReconciledAmount != nil {
			values := []interface{}{
				"", "", "Reconciled Total",
				"", result.Data.TotalItemCount,
				float64(*result.Data.ReconciledAmount),
			}
			if err := writeRow(f, row, values); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, row int, values []interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("computing cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, v); err != nil {
			return fmt.Errorf("writing row %d: %w", row, err)
		}
	}
	return nil
}
