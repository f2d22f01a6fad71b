// types.go - Domain types shared across the scanning pipeline.

package invoice

// LineItem is one purchased product row extracted from an invoice.
type LineItem struct {
	Name          string  `json:"name" bson:"name"`
	Quantity      float64 `json:"quantity" bson:"quantity"`
	Unit          string  `json:"unit" bson:"unit"`
	PricePerUnit  float64 `json:"pricePerUnit" bson:"price_per_unit"`
	TotalPrice    float64 `json:"totalPrice" bson:"total_price"`
	MathReasoning string  `json:"mathReasoning,omitempty" bson:"math_reasoning,omitempty"`
}

// Header holds the document-level invoice fields.
// Date is free-form; suppliers print anything from 02/01/2006 to Hebrew month
// names, so no ISO parsing is forced on it.
type Header struct {
	Supplier string   `json:"supplier" bson:"supplier"`
	Total    float64  `json:"total" bson:"total"`
	Date     string   `json:"date" bson:"date"`
	Category Category `json:"category" bson:"category"`
}

// ValidationStatus classifies the arithmetic cross-check outcome.
type ValidationStatus string

const (
	StatusValid         ValidationStatus = "VALID"
	StatusLineItemError ValidationStatus = "LINE_ITEM_ERROR"
	StatusTotalMismatch ValidationStatus = "TOTAL_MISMATCH"
)

// ValidationResult is derived from the extracted numbers, never persisted on
// its own. FailedItems indexes into the line-item slice.
type ValidationResult struct {
	Status           ValidationStatus `json:"status" bson:"status"`
	ComputedSubtotal float64          `json:"computedSubtotal" bson:"computed_subtotal"`
	FailedItems      []int            `json:"failedItems" bson:"failed_items"`
}

// ScanResult is the composed output of one invoice scan. It is transient
// pipeline output; persistence happens after the response is built.
type ScanResult struct {
	Header     Header           `json:"header"`
	LineItems  []LineItem       `json:"lineItems"`
	Validation ValidationResult `json:"validation"`
	RawText    string           `json:"rawText"`
}
