package tableparse_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billscan/internal/domain"
	"billscan/internal/tableparse"
)

func TestParse_DateAnchoredRow(t *testing.T) {
	p := tableparse.New()

	items := p.Parse("1 Consultation Fee 01/01/2024 2 500 1000")

	require.Len(t, items, 1)
	assert.Equal(t, "Consultation Fee", items[0].ItemName)
	assert.Equal(t, domain.Money(500), items[0].ItemRate)
	assert.Equal(t, domain.Money(2), items[0].ItemQuantity)
	assert.Equal(t, domain.Money(1000), items[0].ItemAmount)
}

func TestParse_EmptyAndUnparsableText(t *testing.T) {
	p := tableparse.New()

	assert.Empty(t, p.Parse(""))
	assert.Empty(t, p.Parse("PATIENT NAME: JOHN DOE\nADMITTED ON WARD FOUR"))
}

func TestParse_CascadePrefersDateStrategy(t *testing.T) {
	// One date-anchored row plus lines strategy B could also read: only the
	// first matching strategy's items may come back.
	text := "1 Blood Test 02/03/2024 1 350 350\n" +
		"Room Rent 2 1500 3000\n"

	items := tableparse.New().Parse(text)

	require.Len(t, items, 1)
	assert.Equal(t, "Blood Test", items[0].ItemName)
}

func TestDateAnchoredRows(t *testing.T) {
	t.Run("skips rows without serial index", func(t *testing.T) {
		items := tableparse.DateAnchoredRows("Consultation 01/01/2024 1 500 500")
		assert.Empty(t, items)
	})

	t.Run("skips rows without description", func(t *testing.T) {
		items := tableparse.DateAnchoredRows("12 01/01/2024 1 500 500")
		assert.Empty(t, items)
	})

	t.Run("skips rows with fewer than three numeric tokens after date", func(t *testing.T) {
		items := tableparse.DateAnchoredRows("1 X-Ray Chest 01/01/2024 2 250")
		assert.Empty(t, items)
	})

	t.Run("unparsable numeric token disqualifies the row", func(t *testing.T) {
		items := tableparse.DateAnchoredRows("1 X-Ray Chest 01/01/2024 two 250 500")
		assert.Empty(t, items)
	})

	t.Run("strips currency symbols and separators", func(t *testing.T) {
		items := tableparse.DateAnchoredRows("3 MRI Scan 15/06/2024 1 Rs.4,500 4,500.00")
		require.Len(t, items, 1)
		assert.Equal(t, domain.Money(4500), items[0].ItemRate)
		assert.Equal(t, domain.Money(4500), items[0].ItemAmount)
	})

	t.Run("collapses repeated whitespace in the description", func(t *testing.T) {
		items := tableparse.DateAnchoredRows("2 Room   Rent    Deluxe 01/02/2024 3 1500 4500")
		require.Len(t, items, 1)
		assert.Equal(t, "Room Rent Deluxe", items[0].ItemName)
	})

	t.Run("multiple rows keep page order", func(t *testing.T) {
		text := "1 Consultation 01/01/2024 1 500 500\n" +
			"garbage line\n" +
			"2 Dressing 01/01/2024 2 100 200"
		items := tableparse.DateAnchoredRows(text)
		require.Len(t, items, 2)
		assert.Equal(t, "Consultation", items[0].ItemName)
		assert.Equal(t, "Dressing", items[1].ItemName)
	})
}

func TestColumnRows(t *testing.T) {
	t.Run("three numeric tokens map to qty rate amount", func(t *testing.T) {
		items := tableparse.ColumnRows("Room Rent 2 1500 3000")
		require.Len(t, items, 1)
		assert.Equal(t, "Room Rent", items[0].ItemName)
		assert.Equal(t, domain.Money(2), items[0].ItemQuantity)
		assert.Equal(t, domain.Money(1500), items[0].ItemRate)
		assert.Equal(t, domain.Money(3000), items[0].ItemAmount)
	})

	t.Run("four numeric tokens take the last as net amount", func(t *testing.T) {
		items := tableparse.ColumnRows("Physiotherapy Session 4 800 200 3000")
		require.Len(t, items, 1)
		assert.Equal(t, domain.Money(4), items[0].ItemQuantity)
		assert.Equal(t, domain.Money(800), items[0].ItemRate)
		assert.Equal(t, domain.Money(3000), items[0].ItemAmount)
	})

	t.Run("skips header rows", func(t *testing.T) {
		text := "Description Qty Rate Net Amt\nRoom Rent 2 1500 3000"
		items := tableparse.ColumnRows(text)
		require.Len(t, items, 1)
		assert.Equal(t, "Room Rent", items[0].ItemName)
	})

	t.Run("skips summary rows", func(t *testing.T) {
		assert.Empty(t, tableparse.ColumnRows("Pharmacy Charges 1 200 Total"))
		assert.Empty(t, tableparse.ColumnRows("Grand total"))
	})

	t.Run("discards rows with fewer than three numeric tokens", func(t *testing.T) {
		assert.Empty(t, tableparse.ColumnRows("Nursing Care 2 500"))
	})

	t.Run("discards non-positive values", func(t *testing.T) {
		assert.Empty(t, tableparse.ColumnRows("Refund Adjustment 1 500 -500"))
		assert.Empty(t, tableparse.ColumnRows("Free Sample 0 100 100"))
	})

	t.Run("discards rows with no description span", func(t *testing.T) {
		assert.Empty(t, tableparse.ColumnRows("2 1500 3000"))
	})

	t.Run("rounds to two decimals", func(t *testing.T) {
		items := tableparse.ColumnRows("Saline Bottle 1.567 10.012 15.678")
		require.Len(t, items, 1)
		assert.Equal(t, domain.Money(1.57), items[0].ItemQuantity)
		assert.Equal(t, domain.Money(10.01), items[0].ItemRate)
		assert.Equal(t, domain.Money(15.68), items[0].ItemAmount)
	})
}
