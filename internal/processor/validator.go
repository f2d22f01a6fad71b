// validator.go - Deterministic arithmetic cross-check of extracted numbers.

package processor

import (
	"math"

	"github.com/mitbach-app/invoice_ocr_backend/internal/invoice"
)

// Tolerances are deliberately asymmetric: a row's total is pure arithmetic on
// the same row and should be nearly exact, while the invoice total absorbs
// tax, discounts, and rounding.
const (
	rowTolerance   = 0.05
	totalTolerance = 0.10
)

// Validate cross-checks every line item against quantity×pricePerUnit and the
// summed subtotal against the extracted invoice total. Findings are
// informational flags for the caller, never errors: a failing invoice still
// produces a full response.
//
// The per-row gate short-circuits the invoice gate: when any row fails, the
// status is LINE_ITEM_ERROR regardless of how far off the header total is.
// The subtotal always includes every row, failing ones included.
func Validate(items []invoice.LineItem, extractedTotal float64) invoice.ValidationResult {
	result := invoice.ValidationResult{
		Status:      invoice.StatusValid,
		FailedItems: []int{},
	}

	for i, it := range items {
		expected := it.Quantity * it.PricePerUnit
		actual := it.TotalPrice
		if actual > 0 && math.Abs(expected-actual)/actual > rowTolerance {
			result.FailedItems = append(result.FailedItems, i)
		}
		result.ComputedSubtotal += actual
	}

	if len(result.FailedItems) > 0 {
		result.Status = invoice.StatusLineItemError
		return result
	}

	if extractedTotal > 0 &&
		math.Abs(result.ComputedSubtotal-extractedTotal)/extractedTotal > totalTolerance {
		result.Status = invoice.StatusTotalMismatch
	}
	return result
}
