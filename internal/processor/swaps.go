// swaps.go - Correction for quantity/price columns transposed by the
// extraction model.

package processor

import (
	"math"

	"github.com/mitbach-app/invoice_ocr_backend/internal/invoice"
)

// Swap-heuristic constants. These are empirically chosen and contractual:
// changing them changes which rows get corrected.
const (
	// swapBalanceTolerance: only rows whose math already balances within 2%
	// are candidates. quantity×price is commutative, so a transposed row
	// still balances; an unbalanced row has a different problem entirely.
	swapBalanceTolerance = 0.02
	// swapPriceLookalike: a quantity below this that is non-integer reads
	// like a per-unit price.
	swapPriceLookalike = 10.0
)

// FixSwaps returns a copy of items with likely quantity/price transpositions
// reversed. A row is swapped only when the math balances, the quantity is a
// small non-integer (looks like a price), and the per-unit price is a large
// integer (looks like a quantity). This is a heuristic: a legitimate 2.5 kg
// at a round ₪150 will be flipped. Same cardinality, order preserved.
func FixSwaps(items []invoice.LineItem) []invoice.LineItem {
	fixed := make([]invoice.LineItem, len(items))
	copy(fixed, items)

	for i := range fixed {
		it := &fixed[i]
		if it.TotalPrice <= 0 {
			continue
		}
		if math.Abs(it.Quantity*it.PricePerUnit-it.TotalPrice)/it.TotalPrice > swapBalanceTolerance {
			continue
		}
		qtyLooksLikePrice := !isIntegral(it.Quantity) && it.Quantity < swapPriceLookalike
		priceLooksLikeQty := isIntegral(it.PricePerUnit) && it.PricePerUnit >= swapPriceLookalike
		if qtyLooksLikePrice && priceLooksLikeQty {
			it.Quantity, it.PricePerUnit = it.PricePerUnit, it.Quantity
		}
	}
	return fixed
}

func isIntegral(f float64) bool {
	return f == math.Trunc(f)
}
