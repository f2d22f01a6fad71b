package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mitbach-app/invoice_ocr_backend/internal/invoice"
)

func TestFixSwapsTransposedRow(t *testing.T) {
	items := []invoice.LineItem{
		{Name: "עגבניות", Quantity: 2.5, PricePerUnit: 150, TotalPrice: 375},
	}

	fixed := FixSwaps(items)

	assert.Equal(t, 150.0, fixed[0].Quantity)
	assert.Equal(t, 2.5, fixed[0].PricePerUnit)
	assert.Equal(t, 375.0, fixed[0].TotalPrice)
}

func TestFixSwapsUnbalancedRowUntouched(t *testing.T) {
	// 2.5 × 150 = 375, far from 500: outside the 2% balance precondition.
	items := []invoice.LineItem{
		{Quantity: 2.5, PricePerUnit: 150, TotalPrice: 500},
	}

	fixed := FixSwaps(items)

	assert.Equal(t, items[0], fixed[0])
}

func TestFixSwapsZeroTotalSkipped(t *testing.T) {
	items := []invoice.LineItem{
		{Quantity: 2.5, PricePerUnit: 150, TotalPrice: 0},
		{Quantity: 2.5, PricePerUnit: 150, TotalPrice: -10},
	}

	fixed := FixSwaps(items)

	assert.Equal(t, items, fixed)
}

func TestFixSwapsIntegerQuantityUntouched(t *testing.T) {
	// An integer quantity does not look like a price.
	items := []invoice.LineItem{
		{Quantity: 3, PricePerUnit: 50, TotalPrice: 150},
	}

	fixed := FixSwaps(items)

	assert.Equal(t, items[0], fixed[0])
}

func TestFixSwapsSmallFractionalPriceUntouched(t *testing.T) {
	// Price 4.5 is neither integral nor >= 10, so no swap.
	items := []invoice.LineItem{
		{Quantity: 2.5, PricePerUnit: 4.5, TotalPrice: 11.25},
	}

	fixed := FixSwaps(items)

	assert.Equal(t, items[0], fixed[0])
}

func TestFixSwapsPreservesOrderAndInput(t *testing.T) {
	items := []invoice.LineItem{
		{Name: "א", Quantity: 2.5, PricePerUnit: 150, TotalPrice: 375},
		{Name: "ב", Quantity: 2, PricePerUnit: 10, TotalPrice: 20},
		{Name: "ג", Quantity: 0.5, PricePerUnit: 40, TotalPrice: 20},
	}

	fixed := FixSwaps(items)

	assert.Len(t, fixed, 3)
	assert.Equal(t, "א", fixed[0].Name)
	assert.Equal(t, "ב", fixed[1].Name)
	assert.Equal(t, "ג", fixed[2].Name)
	// Input slice is not mutated.
	assert.Equal(t, 2.5, items[0].Quantity)
}
