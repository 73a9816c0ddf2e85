package extract

import "fmt"

// BuildBillItemPrompt returns the extraction prompt for a single page of bill text.
func BuildBillItemPrompt(pageNumber int, ocrText string) string {
	return fmt.Sprintf(`You are an expert at extracting medical bill line items from OCR text.

Extract ALL line items from the following bill text. For each item, identify:
- item_name: The name/description of the service or item
- item_rate: The rate/price per unit
- item_quantity: The quantity (default to 1.0 if not specified)
- item_amount: The total amount for this line item (prefer Net Amt/Gross Amount if shown, otherwise rate x quantity)

Important rules:
1. Extract EVERY line item, including consultations, tests, procedures, charges, medicines, etc.
2. If quantity is not mentioned, assume 1.0
3. Prefer the actual "Net Amt" or "Gross Amount" column value for item_amount over calculated values
4. If Net Amt/Gross Amount is not available, calculate item_amount = item_rate x item_quantity
5. Do NOT include totals, subtotals, category headers, or summary lines
6. Do NOT duplicate items
7. Preserve exact item names as they appear in the bill
8. When the text shows tabular columns like "Qty/Hrs | Rate | Discount | Net Amt", extract ALL columns correctly
9. Never default to quantity 1.0 if a numeric quantity column exists in the row
10. All numeric outputs must include decimals (e.g., 14.00, 32.00)
11. Look for patterns like: Description followed by Qty, Rate, and Amount columns
12. Even if OCR text is messy or has errors, try to extract all visible line items

Return ONLY valid JSON with no markdown formatting, no code fences, no explanation.
The JSON object must have a single top-level key "bill_items" holding an array of
objects with keys item_name, item_rate, item_quantity, item_amount.

OCR Text from Page %d:
%s`, pageNumber, ocrText)
}
