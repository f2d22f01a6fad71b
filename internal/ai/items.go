// items.go - Line-item extraction: vision model over the invoice image,
// text model over the OCR text as fallback. Extraction never errors; the
// worst case is an empty item list.

package ai

import (
	"context"
	"strings"

	"github.com/mitbach-app/invoice_ocr_backend/internal/common"
	"github.com/mitbach-app/invoice_ocr_backend/internal/invoice"
	"github.com/mitbach-app/invoice_ocr_backend/internal/processor"
)

// rawItem is the wire shape a single product row comes back in. Quantities
// and prices show up as strings with currency symbols often enough that all
// numbers are decoded leniently.
type rawItem struct {
	Name          string          `json:"name"`
	Quantity      FlexibleFloat64 `json:"quantity"`
	Unit          string          `json:"unit"`
	PricePerUnit  FlexibleFloat64 `json:"pricePerUnit"`
	TotalPrice    FlexibleFloat64 `json:"totalPrice"`
	MathReasoning string          `json:"mathReasoning"`
}

// itemsWrapper covers models that wrap the array in an object despite the
// prompt asking for a bare array.
type itemsWrapper struct {
	Items     []rawItem `json:"items"`
	LineItems []rawItem `json:"lineItems"`
}

// ItemExtractor pulls product rows out of an invoice. Images go through the
// vision model first; PDFs and vision failures fall back to the text model
// over the OCR text.
type ItemExtractor struct {
	vision       VisionModel
	text         TextModel
	textFallback TextModel
}

// NewItemExtractor builds an extractor. textFallback may be nil.
func NewItemExtractor(vision VisionModel, text, textFallback TextModel) *ItemExtractor {
	return &ItemExtractor{vision: vision, text: text, textFallback: textFallback}
}

// Extract returns the product rows for one invoice. image may be nil when
// only OCR text is available. Failures degrade to an empty slice, never an
// error: a scan with no items is still a usable scan.
func (e *ItemExtractor) Extract(ctx context.Context, image []byte, mimeType, rawText string, reqCtx *common.RequestContext) []invoice.LineItem {
	if len(image) > 0 && mimeType != "application/pdf" {
		items, err := e.extractVision(ctx, image, mimeType, reqCtx)
		if err == nil {
			return items
		}
		reqCtx.LogWarning("Vision extraction failed, falling back to text: %v", err)
	}
	return e.extractText(ctx, rawText, reqCtx)
}

func (e *ItemExtractor) extractVision(ctx context.Context, image []byte, mimeType string, reqCtx *common.RequestContext) ([]invoice.LineItem, error) {
	raw, usage, err := e.vision.GenerateVision(ctx, ItemsVisionPrompt(), mimeType, image, reqCtx)
	if err != nil {
		return nil, err
	}
	recordUsage(reqCtx, usage)
	return decodeItems(raw)
}

func (e *ItemExtractor) extractText(ctx context.Context, rawText string, reqCtx *common.RequestContext) []invoice.LineItem {
	if strings.TrimSpace(rawText) == "" {
		return []invoice.LineItem{}
	}

	raw, err := e.generateText(ctx, ItemsTextPrompt(rawText), reqCtx)
	if err != nil {
		reqCtx.LogWarning("Text extraction failed, returning no items: %v", err)
		return []invoice.LineItem{}
	}
	items, err := decodeItems(raw)
	if err != nil {
		reqCtx.LogWarning("Text extraction response unparseable: %v", err)
		return []invoice.LineItem{}
	}
	return items
}

func (e *ItemExtractor) generateText(ctx context.Context, prompt string, reqCtx *common.RequestContext) (string, error) {
	raw, usage, err := e.text.GenerateText(ctx, prompt, reqCtx)
	if err == nil {
		recordUsage(reqCtx, usage)
		return raw, nil
	}
	if e.textFallback == nil {
		return "", err
	}
	reqCtx.LogWarning("%s text model failed (%v), trying %s", e.text.Name(), err, e.textFallback.Name())
	raw, usage, ferr := e.textFallback.GenerateText(ctx, prompt, reqCtx)
	if ferr != nil {
		return "", err
	}
	recordUsage(reqCtx, usage)
	return raw, nil
}

// decodeItems parses a model response into line items. It accepts a bare
// array or an {items}/{lineItems} wrapper, and normalizes every unit to the
// canonical Hebrew form.
func decodeItems(raw string) ([]invoice.LineItem, error) {
	var rows []rawItem
	if err := UnmarshalLenient(raw, &rows); err != nil {
		var wrapper itemsWrapper
		if werr := UnmarshalLenient(raw, &wrapper); werr != nil {
			return nil, err
		}
		rows = wrapper.Items
		if len(rows) == 0 {
			rows = wrapper.LineItems
		}
	}

	items := make([]invoice.LineItem, 0, len(rows))
	for _, r := range rows {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			continue
		}
		items = append(items, invoice.LineItem{
			Name:          name,
			Quantity:      float64(r.Quantity),
			Unit:          processor.NormalizeUnit(r.Unit),
			PricePerUnit:  float64(r.PricePerUnit),
			TotalPrice:    float64(r.TotalPrice),
			MathReasoning: strings.TrimSpace(r.MathReasoning),
		})
	}
	return items, nil
}
