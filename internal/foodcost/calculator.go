// calculator.go - Recipe food-cost calculation from current inventory
// prices, with weight and volume unit conversion.

package foodcost

import (
	"github.com/mitbach-app/invoice_ocr_backend/internal/processor"
	"github.com/mitbach-app/invoice_ocr_backend/internal/storage"
)

// IngredientCost is one priced recipe line. Priced is false when the
// ingredient is missing from inventory or its unit cannot be converted to
// the purchased unit.
type IngredientCost struct {
	Name      string  `json:"name"`
	Quantity  float64 `json:"quantity"`
	Unit      string  `json:"unit"`
	UnitPrice float64 `json:"unitPrice"`
	Cost      float64 `json:"cost"`
	Priced    bool    `json:"priced"`
}

// CostBreakdown is the full costing result for one recipe.
type CostBreakdown struct {
	RecipeName  string           `json:"recipeName"`
	Ingredients []IngredientCost `json:"ingredients"`
	TotalCost   float64          `json:"totalCost"`
	PerServing  float64          `json:"perServing"`
	Unpriced    int              `json:"unpriced"`
}

// conversionFactors maps a (from, to) unit pair to the multiplier that
// expresses one "from" in "to" terms. Only weight and volume convert;
// count-like units (יחידה, ארגז, מארז) never cross over.
var conversionFactors = map[[2]string]float64{
	{processor.UnitGram, processor.UnitKilogram}:   0.001,
	{processor.UnitKilogram, processor.UnitGram}:   1000,
	{processor.UnitMilliliter, processor.UnitLiter}: 0.001,
	{processor.UnitLiter, processor.UnitMilliliter}: 1000,
}

// convert expresses quantity from one canonical unit in another. Returns
// false when the units are incompatible.
func convert(quantity float64, from, to string) (float64, bool) {
	if from == to {
		return quantity, true
	}
	factor, ok := conversionFactors[[2]string{from, to}]
	if !ok {
		return 0, false
	}
	return quantity * factor, true
}

// Calculate prices every ingredient of a recipe against the inventory
// items given (keyed by product name) and returns the full breakdown.
// Missing or unconvertible ingredients are counted, not errored.
func Calculate(recipe *storage.Recipe, inventory map[string]storage.InventoryItem) CostBreakdown {
	breakdown := CostBreakdown{
		RecipeName:  recipe.Name,
		Ingredients: make([]IngredientCost, 0, len(recipe.Ingredients)),
	}

	for _, ing := range recipe.Ingredients {
		line := IngredientCost{
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     processor.NormalizeUnit(ing.Unit),
		}

		if item, ok := inventory[ing.Name]; ok && item.LastPrice > 0 {
			if purchased, convOK := convert(ing.Quantity, line.Unit, processor.NormalizeUnit(item.Unit)); convOK {
				line.UnitPrice = item.LastPrice
				line.Cost = purchased * item.LastPrice
				line.Priced = true
			}
		}

		if !line.Priced {
			breakdown.Unpriced++
		}
		breakdown.TotalCost += line.Cost
		breakdown.Ingredients = append(breakdown.Ingredients, line)
	}

	breakdown.PerServing = breakdown.TotalCost
	if recipe.Servings > 1 {
		breakdown.PerServing = breakdown.TotalCost / float64(recipe.Servings)
	}
	return breakdown
}
