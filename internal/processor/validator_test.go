package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mitbach-app/invoice_ocr_backend/internal/invoice"
)

func TestValidateValid(t *testing.T) {
	items := []invoice.LineItem{
		{Quantity: 2, PricePerUnit: 50, TotalPrice: 100},
	}

	result := Validate(items, 100)

	assert.Equal(t, invoice.StatusValid, result.Status)
	assert.Equal(t, 100.0, result.ComputedSubtotal)
	assert.Empty(t, result.FailedItems)
}

func TestValidateTotalMismatch(t *testing.T) {
	items := []invoice.LineItem{
		{Quantity: 2, PricePerUnit: 50, TotalPrice: 100},
	}

	result := Validate(items, 200)

	assert.Equal(t, invoice.StatusTotalMismatch, result.Status)
	assert.Equal(t, 100.0, result.ComputedSubtotal)
}

func TestValidateLineItemErrorShortCircuitsTotalGate(t *testing.T) {
	// Row 1 fails the 5% check AND the header total is 20% off; the row
	// failure wins.
	items := []invoice.LineItem{
		{Quantity: 2, PricePerUnit: 50, TotalPrice: 100},
		{Quantity: 3, PricePerUnit: 10, TotalPrice: 50},
	}

	result := Validate(items, 180)

	assert.Equal(t, invoice.StatusLineItemError, result.Status)
	assert.Equal(t, []int{1}, result.FailedItems)
	// Subtotal still sums every row, the failing one included.
	assert.Equal(t, 150.0, result.ComputedSubtotal)
}

func TestValidateRowWithinToleranceNotFlagged(t *testing.T) {
	// 2 × 50 = 100 against 104: 3.8% off, inside the 5% row tolerance.
	items := []invoice.LineItem{
		{Quantity: 2, PricePerUnit: 50, TotalPrice: 104},
	}

	result := Validate(items, 104)

	assert.Equal(t, invoice.StatusValid, result.Status)
	assert.Empty(t, result.FailedItems)
}

func TestValidateZeroTotalRowNotFlagged(t *testing.T) {
	// Rows with no total are skipped by the row gate but still summed.
	items := []invoice.LineItem{
		{Quantity: 2, PricePerUnit: 50, TotalPrice: 0},
		{Quantity: 1, PricePerUnit: 30, TotalPrice: 30},
	}

	result := Validate(items, 30)

	assert.Equal(t, invoice.StatusValid, result.Status)
	assert.Equal(t, 30.0, result.ComputedSubtotal)
}

func TestValidateZeroExtractedTotalSkipsInvoiceGate(t *testing.T) {
	items := []invoice.LineItem{
		{Quantity: 2, PricePerUnit: 50, TotalPrice: 100},
	}

	result := Validate(items, 0)

	assert.Equal(t, invoice.StatusValid, result.Status)
}

func TestValidateEmptyItems(t *testing.T) {
	result := Validate(nil, 0)

	assert.Equal(t, invoice.StatusValid, result.Status)
	assert.Equal(t, 0.0, result.ComputedSubtotal)
	assert.NotNil(t, result.FailedItems)
	assert.Empty(t, result.FailedItems)
}
