// prompts.go - Extraction prompts. Invoices are Hebrew documents, so the
// instructions are written in Hebrew to keep the model answering in the
// source language.

package ai

import (
	"fmt"
	"strings"

	"github.com/mitbach-app/invoice_ocr_backend/internal/invoice"
)

// HeaderPrompt asks for the document-level fields as a single JSON object.
func HeaderPrompt(rawText string) string {
	return fmt.Sprintf(`אתה מערכת לעיבוד חשבוניות ספקים של מסעדה.
קרא את הטקסט הבא שחולץ מחשבונית והחזר JSON בלבד, בלי הסברים ובלי markdown:

{"supplier": "שם הספק", "total": 0, "date": "תאריך כפי שמופיע", "category": "אחת מ: %s"}

כללים:
- supplier: שם העסק שהוציא את החשבונית (לא שם המסעדה).
- total: הסכום הסופי לתשלום כולל מע"מ, כמספר.
- date: תאריך החשבונית כפי שכתוב, אל תמיר פורמט.
- category: בחר את הקטגוריה המתאימה ביותר מהרשימה בלבד.

טקסט החשבונית:
%s`, categoryList(), rawText)
}

// CategoryPrompt asks only for a category, used when structured OCR already
// produced the other header fields.
func CategoryPrompt(rawText string) string {
	return fmt.Sprintf(`סווג את החשבונית הבאה לקטגוריית הוצאה אחת מתוך הרשימה:
%s

ענה במילה אחת בלבד - שם הקטגוריה, בלי הסברים.

טקסט החשבונית:
%s`, categoryList(), rawText)
}

// itemsSchema documents the line-item JSON shape shared by both prompts.
const itemsSchema = `[
  {"name": "שם המוצר", "quantity": 0, "unit": "יחידת מידה", "pricePerUnit": 0, "totalPrice": 0, "mathReasoning": "הסבר קצר אם המספרים לא מסתדרים"}
]`

// ItemsVisionPrompt asks a vision model to read the product table straight
// off the invoice image.
func ItemsVisionPrompt() string {
	return fmt.Sprintf(`אתה מערכת לעיבוד חשבוניות ספקים של מסעדה.
קרא את טבלת המוצרים מתמונת החשבונית והחזר JSON בלבד - מערך של שורות מוצר:

%s

כללים:
- כלול רק שורות מוצר אמיתיות, לא סיכומים, מע"מ או הנחות.
- quantity: הכמות שהוזמנה. שים לב לא להתבלבל בין עמודת הכמות לעמודת מחיר היחידה.
- unit: יחידת המידה כפי שכתובה (ק"ג, יחידה, ארגז, ליטר וכו').
- totalPrice: הסכום לשורה.
- אם אין טבלת מוצרים ברורה, החזר מערך ריק [].`, itemsSchema)
}

// ItemsTextPrompt is the fallback: extract the product table from OCR text.
func ItemsTextPrompt(rawText string) string {
	return fmt.Sprintf(`אתה מערכת לעיבוד חשבוניות ספקים של מסעדה.
לפניך טקסט שחולץ מחשבונית. חלץ את שורות המוצרים והחזר JSON בלבד - מערך:

%s

כללים:
- כלול רק שורות מוצר אמיתיות, לא סיכומים, מע"מ או הנחות.
- אם אין טבלת מוצרים ברורה, החזר מערך ריק [].

טקסט החשבונית:
%s`, itemsSchema, rawText)
}

func categoryList() string {
	names := make([]string, len(invoice.Categories))
	for i, c := range invoice.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
