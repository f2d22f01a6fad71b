// headers.go - Invoice header parsing: supplier, total, date, category from
// OCR text via the text model, tolerant of every failure mode.

package ai

import (
	"context"
	"strings"
	"time"

	"github.com/mitbach-app/invoice_ocr_backend/internal/common"
	"github.com/mitbach-app/invoice_ocr_backend/internal/invoice"
)

// headerResponse is the JSON shape the header prompt asks the model for.
// Numbers come back as strings often enough that total is decoded leniently.
type headerResponse struct {
	Supplier string          `json:"supplier"`
	Total    FlexibleFloat64 `json:"total"`
	Date     string          `json:"date"`
	Category string          `json:"category"`
}

// HeaderParser turns raw invoice text into header fields. A parse never
// fails: every error path degrades to the field defaults so the scan can
// still return a result the user edits by hand.
type HeaderParser struct {
	model    TextModel
	fallback TextModel
}

// NewHeaderParser builds a parser over the primary text model and an
// optional fallback provider. fallback may be nil.
func NewHeaderParser(model, fallback TextModel) *HeaderParser {
	return &HeaderParser{model: model, fallback: fallback}
}

// DefaultHeader is the header used when nothing could be parsed: unknown
// supplier, zero total, today's date, general category.
func DefaultHeader() invoice.Header {
	return invoice.Header{
		Supplier: "לא זוהה",
		Total:    0,
		Date:     time.Now().Format("02/01/2006"),
		Category: invoice.CatGeneral,
	}
}

// ParseHeader extracts the header fields from rawText. Model failures and
// unparseable answers fall back to defaults rather than erroring.
func (p *HeaderParser) ParseHeader(ctx context.Context, rawText string, reqCtx *common.RequestContext) invoice.Header {
	header := DefaultHeader()
	if strings.TrimSpace(rawText) == "" {
		return header
	}

	raw, err := p.generate(ctx, HeaderPrompt(rawText), reqCtx)
	if err != nil {
		reqCtx.LogWarning("Header parse failed, using defaults: %v", err)
		return header
	}

	var resp headerResponse
	if err := UnmarshalLenient(raw, &resp); err != nil {
		reqCtx.LogWarning("Header response was not valid JSON, using defaults: %v", err)
		return header
	}

	if s := strings.TrimSpace(resp.Supplier); s != "" {
		header.Supplier = s
	}
	if resp.Total > 0 {
		header.Total = float64(resp.Total)
	}
	if d := strings.TrimSpace(resp.Date); d != "" {
		header.Date = d
	}
	header.Category = invoice.ParseCategory(resp.Category)
	return header
}

// ClassifyCategory runs the category-only prompt. Used when structured OCR
// already supplied supplier, total, and date.
func (p *HeaderParser) ClassifyCategory(ctx context.Context, rawText string, reqCtx *common.RequestContext) invoice.Category {
	if strings.TrimSpace(rawText) == "" {
		return invoice.CatGeneral
	}
	raw, err := p.generate(ctx, CategoryPrompt(rawText), reqCtx)
	if err != nil {
		reqCtx.LogWarning("Category classification failed: %v", err)
		return invoice.CatGeneral
	}
	return invoice.ParseCategory(StripCodeFence(raw))
}

// generate calls the primary model and retries once on the fallback
// provider when one is configured.
func (p *HeaderParser) generate(ctx context.Context, prompt string, reqCtx *common.RequestContext) (string, error) {
	raw, usage, err := p.model.GenerateText(ctx, prompt, reqCtx)
	if err == nil {
		recordUsage(reqCtx, usage)
		return raw, nil
	}
	if p.fallback == nil {
		return "", err
	}
	reqCtx.LogWarning("%s text model failed (%v), trying %s", p.model.Name(), err, p.fallback.Name())
	raw, usage, ferr := p.fallback.GenerateText(ctx, prompt, reqCtx)
	if ferr != nil {
		return "", err
	}
	recordUsage(reqCtx, usage)
	return raw, nil
}

func recordUsage(reqCtx *common.RequestContext, usage *common.TokenUsage) {
	if reqCtx != nil && usage != nil {
		reqCtx.AddTokenUsage(usage)
	}
}
