package foodcost

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitbach-app/invoice_ocr_backend/internal/processor"
	"github.com/mitbach-app/invoice_ocr_backend/internal/storage"
)

func TestCalculateSameUnit(t *testing.T) {
	recipe := &storage.Recipe{
		Name:     "סלט ירקות",
		Servings: 4,
		Ingredients: []storage.Ingredient{
			{Name: "עגבניות", Quantity: 2, Unit: processor.UnitKilogram},
		},
	}
	inventory := map[string]storage.InventoryItem{
		"עגבניות": {Name: "עגבניות", Unit: processor.UnitKilogram, LastPrice: 8},
	}

	breakdown := Calculate(recipe, inventory)

	require.Len(t, breakdown.Ingredients, 1)
	assert.True(t, breakdown.Ingredients[0].Priced)
	assert.Equal(t, 16.0, breakdown.TotalCost)
	assert.Equal(t, 4.0, breakdown.PerServing)
	assert.Equal(t, 0, breakdown.Unpriced)
}

func TestCalculateGramToKilogram(t *testing.T) {
	recipe := &storage.Recipe{
		Name: "רוטב",
		Ingredients: []storage.Ingredient{
			{Name: "קמח", Quantity: 500, Unit: processor.UnitGram},
		},
	}
	inventory := map[string]storage.InventoryItem{
		"קמח": {Name: "קמח", Unit: processor.UnitKilogram, LastPrice: 6},
	}

	breakdown := Calculate(recipe, inventory)

	// 500 gram = 0.5 kg at ₪6/kg.
	assert.InDelta(t, 3.0, breakdown.TotalCost, 1e-9)
}

func TestCalculateMilliliterToLiter(t *testing.T) {
	recipe := &storage.Recipe{
		Name: "ויניגרט",
		Ingredients: []storage.Ingredient{
			{Name: "שמן זית", Quantity: 250, Unit: processor.UnitMilliliter},
		},
	}
	inventory := map[string]storage.InventoryItem{
		"שמן זית": {Name: "שמן זית", Unit: processor.UnitLiter, LastPrice: 40},
	}

	breakdown := Calculate(recipe, inventory)

	assert.InDelta(t, 10.0, breakdown.TotalCost, 1e-9)
}

func TestCalculateMissingIngredientUnpriced(t *testing.T) {
	recipe := &storage.Recipe{
		Name: "מרק",
		Ingredients: []storage.Ingredient{
			{Name: "בצל", Quantity: 1, Unit: processor.UnitKilogram},
			{Name: "כמהין", Quantity: 0.1, Unit: processor.UnitKilogram},
		},
	}
	inventory := map[string]storage.InventoryItem{
		"בצל": {Name: "בצל", Unit: processor.UnitKilogram, LastPrice: 4},
	}

	breakdown := Calculate(recipe, inventory)

	assert.Equal(t, 4.0, breakdown.TotalCost)
	assert.Equal(t, 1, breakdown.Unpriced)
	assert.False(t, breakdown.Ingredients[1].Priced)
}

func TestCalculateIncompatibleUnitsUnpriced(t *testing.T) {
	// Weight cannot convert to count.
	recipe := &storage.Recipe{
		Name: "קינוח",
		Ingredients: []storage.Ingredient{
			{Name: "ביצים", Quantity: 200, Unit: processor.UnitGram},
		},
	}
	inventory := map[string]storage.InventoryItem{
		"ביצים": {Name: "ביצים", Unit: processor.UnitCount, LastPrice: 1.2},
	}

	breakdown := Calculate(recipe, inventory)

	assert.Equal(t, 0.0, breakdown.TotalCost)
	assert.Equal(t, 1, breakdown.Unpriced)
}

func TestCalculateZeroServingsNoDivision(t *testing.T) {
	recipe := &storage.Recipe{
		Name: "לחם",
		Ingredients: []storage.Ingredient{
			{Name: "קמח", Quantity: 1, Unit: processor.UnitKilogram},
		},
	}
	inventory := map[string]storage.InventoryItem{
		"קמח": {Name: "קמח", Unit: processor.UnitKilogram, LastPrice: 6},
	}

	breakdown := Calculate(recipe, inventory)

	assert.Equal(t, 6.0, breakdown.PerServing)
}
