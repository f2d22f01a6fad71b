// category.go - Expense category enum and classification rules.

package invoice

import (
	"sort"
	"strings"
)

// Category is the invoice expense category. The zero value is not valid; use
// CatGeneral as the catch-all.
type Category string

const (
	CatProduce   Category = "ירקות ופירות"
	CatMeatFish  Category = "בשר ודגים"
	CatDairy     Category = "מוצרי חלב"
	CatDryGoods  Category = "מצרכים יבשים"
	CatBeverages Category = "משקאות"
	CatPackaging Category = "אריזות"
	CatCleaning  Category = "ניקיון"
	CatRent      Category = "שכירות"
	CatUtilities Category = "חשבונות"
	CatPayroll   Category = "משכורות"
	CatMaint     Category = "תחזוקה"
	CatGeneral   Category = "כללי"
)

// Categories lists every recognized category, in menu order.
var Categories = []Category{
	CatProduce, CatMeatFish, CatDairy, CatDryGoods, CatBeverages,
	CatPackaging, CatCleaning, CatRent, CatUtilities, CatPayroll,
	CatMaint, CatGeneral,
}

// categoryKeywords maps lowercase tokens (Hebrew labels plus the English
// words the model occasionally answers with) to a category.
var categoryKeywords = map[string]Category{
	"ירקות ופירות": CatProduce,
	"ירקות":        CatProduce,
	"פירות":        CatProduce,
	"produce":      CatProduce,
	"vegetables":   CatProduce,
	"בשר ודגים":    CatMeatFish,
	"בשר":          CatMeatFish,
	"דגים":         CatMeatFish,
	"עוף":          CatMeatFish,
	"meat":         CatMeatFish,
	"fish":         CatMeatFish,
	"מוצרי חלב":    CatDairy,
	"חלב":          CatDairy,
	"dairy":        CatDairy,
	"מצרכים יבשים": CatDryGoods,
	"יבשים":        CatDryGoods,
	"dry goods":    CatDryGoods,
	"משקאות":       CatBeverages,
	"שתיה":         CatBeverages,
	"beverages":    CatBeverages,
	"drinks":       CatBeverages,
	"אריזות":       CatPackaging,
	"חד פעמי":      CatPackaging,
	"packaging":    CatPackaging,
	"ניקיון":       CatCleaning,
	"cleaning":     CatCleaning,
	"שכירות":       CatRent,
	"שכר דירה":     CatRent,
	"rent":         CatRent,
	"חשבונות":      CatUtilities,
	"חשמל":         CatUtilities,
	"מים":          CatUtilities,
	"ארנונה":       CatUtilities,
	"גז":           CatUtilities,
	"utilities":    CatUtilities,
	"utility":      CatUtilities,
	"משכורות":      CatPayroll,
	"שכר":          CatPayroll,
	"payroll":      CatPayroll,
	"salaries":     CatPayroll,
	"תחזוקה":       CatMaint,
	"תיקונים":      CatMaint,
	"maintenance":  CatMaint,
	"repairs":      CatMaint,
	"כללי":         CatGeneral,
	"general":      CatGeneral,
}

// keywordsByLength holds the keyword set sorted longest first, so the
// substring pass prefers the most specific match ("שכר דירה" over "שכר").
var keywordsByLength = func() []string {
	kws := make([]string, 0, len(categoryKeywords))
	for kw := range categoryKeywords {
		kws = append(kws, kw)
	}
	sort.Slice(kws, func(i, j int) bool {
		if len(kws[i]) != len(kws[j]) {
			return len(kws[i]) > len(kws[j])
		}
		return kws[i] < kws[j]
	})
	return kws
}()

// ParseCategory maps free-form model output to a Category. Exact token match
// first, then longest-keyword substring match, then the CatGeneral catch-all.
func ParseCategory(s string) Category {
	norm := strings.ToLower(strings.TrimSpace(s))
	if norm == "" {
		return CatGeneral
	}
	if cat, ok := categoryKeywords[norm]; ok {
		return cat
	}
	for _, kw := range keywordsByLength {
		if strings.Contains(norm, kw) {
			return categoryKeywords[kw]
		}
	}
	return CatGeneral
}

// NonItemized reports whether invoices in this category carry no product
// table. Rent, utility, payroll, and maintenance invoices get a single
// synthesized summary row instead of line-item extraction.
func (c Category) NonItemized() bool {
	switch c {
	case CatRent, CatUtilities, CatPayroll, CatMaint:
		return true
	}
	return false
}

// String implements fmt.Stringer.
func (c Category) String() string { return string(c) }
