// pipeline.go - The invoice scan pipeline: OCR, header parsing, line-item
// extraction, swap correction, and math validation, composed into one
// sequential flow. Every external call is guarded; the pipeline always
// produces a result.

package scan

import (
	"context"

	"github.com/mitbach-app/invoice_ocr_backend/configs"
	"github.com/mitbach-app/invoice_ocr_backend/internal/ai"
	"github.com/mitbach-app/invoice_ocr_backend/internal/common"
	"github.com/mitbach-app/invoice_ocr_backend/internal/invoice"
	"github.com/mitbach-app/invoice_ocr_backend/internal/ocr"
	"github.com/mitbach-app/invoice_ocr_backend/internal/processor"
)

// rawTextLimit caps the raw OCR text echoed back in the response.
const rawTextLimit = 1500

const mimePDF = "application/pdf"

// StructuredOCR is the document processor that returns text plus recognized
// header entities.
type StructuredOCR interface {
	Process(ctx context.Context, data []byte, mimeType string, reqCtx *common.RequestContext) (*ocr.StructuredResult, error)
}

// TextOCR is the plain text-detection fallback. Images only.
type TextOCR interface {
	DetectText(ctx context.Context, data []byte, reqCtx *common.RequestContext) (string, error)
}

// HeaderParser extracts document-level fields from OCR text.
type HeaderParser interface {
	ParseHeader(ctx context.Context, rawText string, reqCtx *common.RequestContext) invoice.Header
	ClassifyCategory(ctx context.Context, rawText string, reqCtx *common.RequestContext) invoice.Category
}

// ItemExtractor pulls product rows out of the invoice image or text.
type ItemExtractor interface {
	Extract(ctx context.Context, image []byte, mimeType, rawText string, reqCtx *common.RequestContext) []invoice.LineItem
}

// Pipeline wires the scan stages together. Construct once at startup and
// share across requests; it holds no per-request state.
type Pipeline struct {
	structuredOCR StructuredOCR
	textOCR       TextOCR
	headers       HeaderParser
	items         ItemExtractor
}

// NewPipeline builds a pipeline over the given collaborators. structuredOCR
// and textOCR may each be nil when the corresponding service is not
// configured; the other stages cover for them.
func NewPipeline(structuredOCR StructuredOCR, textOCR TextOCR, headers HeaderParser, items ItemExtractor) *Pipeline {
	return &Pipeline{
		structuredOCR: structuredOCR,
		textOCR:       textOCR,
		headers:       headers,
		items:         items,
	}
}

// Scan runs the full pipeline over one invoice document. It never returns
// an error: every stage degrades to a documented fallback, and the worst
// case is a default header with no line items.
func (p *Pipeline) Scan(ctx context.Context, image []byte, mimeType string, reqCtx *common.RequestContext) *invoice.ScanResult {
	image, mimeType = p.preprocess(image, mimeType, reqCtx)

	rawText, structured := p.runOCR(ctx, image, mimeType, reqCtx)
	if rawText == "" {
		reqCtx.LogWarning("OCR produced no text, returning empty result")
		return emptyResult()
	}

	header := p.parseHeaders(ctx, rawText, structured, reqCtx)
	items := p.extractItems(ctx, image, mimeType, rawText, header, reqCtx)

	reqCtx.StartStep("Math validation")
	validation := processor.Validate(items, header.Total)
	reqCtx.EndStep("success", nil, nil)
	reqCtx.LogInfo("Validation: %s, subtotal %.2f, %d failed rows",
		validation.Status, validation.ComputedSubtotal, len(validation.FailedItems))

	return &invoice.ScanResult{
		Header:     header,
		LineItems:  items,
		Validation: validation,
		RawText:    truncate(rawText, rawTextLimit),
	}
}

// preprocess sharpens and downscales photographed invoices before OCR.
// PDFs pass through untouched.
func (p *Pipeline) preprocess(image []byte, mimeType string, reqCtx *common.RequestContext) ([]byte, string) {
	if !configs.ENABLE_IMAGE_PREPROCESSING || mimeType == mimePDF {
		return image, mimeType
	}

	reqCtx.StartSubStep("Image preprocessing")
	processed, outMime, err := processor.PreprocessImage(image, mimeType, configs.MAX_IMAGE_DIMENSION)
	if err != nil {
		reqCtx.EndSubStep("skipped")
		reqCtx.LogWarning("Image preprocessing failed, using original: %v", err)
		return image, mimeType
	}
	reqCtx.EndSubStep("")
	return processed, outMime
}

// runOCR tries structured OCR first and falls back to plain text detection.
// The structured result is returned alongside the text when available so
// header parsing can take the cheap path.
func (p *Pipeline) runOCR(ctx context.Context, image []byte, mimeType string, reqCtx *common.RequestContext) (string, *ocr.StructuredResult) {
	if p.structuredOCR != nil {
		reqCtx.StartStep("Structured OCR")
		structured, err := p.structuredOCR.Process(ctx, image, mimeType, reqCtx)
		if err == nil && structured.Text != "" {
			reqCtx.EndStep("success", nil, nil)
			return structured.Text, structured
		}
		reqCtx.EndStep("failed", nil, err)
	}

	// The text detector cannot read PDFs, so a PDF that failed structured
	// OCR has no second chance.
	if p.textOCR == nil || mimeType == mimePDF {
		return "", nil
	}

	reqCtx.StartStep("Text OCR fallback")
	text, err := p.textOCR.DetectText(ctx, image, reqCtx)
	if err != nil {
		reqCtx.EndStep("failed", nil, err)
		return "", nil
	}
	reqCtx.EndStep("success", nil, nil)
	return text, nil
}

// parseHeaders picks the cheap category-only path when structured OCR
// already recognized supplier, total, and date; otherwise runs the full
// model-backed header parse.
func (p *Pipeline) parseHeaders(ctx context.Context, rawText string, structured *ocr.StructuredResult, reqCtx *common.RequestContext) invoice.Header {
	reqCtx.StartStep("Header parsing")
	defer reqCtx.EndStep("success", nil, nil)

	if structured != nil && structured.Supplier != "" && structured.Total > 0 && structured.Date != "" {
		reqCtx.LogInfo("Structured entities complete, classifying category only")
		return invoice.Header{
			Supplier: structured.Supplier,
			Total:    structured.Total,
			Date:     structured.Date,
			Category: p.headers.ClassifyCategory(ctx, rawText, reqCtx),
		}
	}
	return p.headers.ParseHeader(ctx, rawText, reqCtx)
}

// extractItems is category gated: non-itemized invoices (rent, utilities,
// payroll, maintenance) get a single synthesized summary row instead of a
// model call. Everything else goes through extraction and swap correction.
func (p *Pipeline) extractItems(ctx context.Context, image []byte, mimeType, rawText string, header invoice.Header, reqCtx *common.RequestContext) []invoice.LineItem {
	if header.Category.NonItemized() {
		reqCtx.LogInfo("Category %q is non-itemized, synthesizing summary row", header.Category)
		return []invoice.LineItem{{
			Name:         string(header.Category),
			Quantity:     1,
			Unit:         processor.UnitCount,
			PricePerUnit: header.Total,
			TotalPrice:   header.Total,
		}}
	}

	reqCtx.StartStep("Line-item extraction")
	items := p.items.Extract(ctx, image, mimeType, rawText, reqCtx)
	reqCtx.EndStep("success", nil, nil)
	reqCtx.LogInfo("Extracted %d line items", len(items))

	return processor.FixSwaps(items)
}

// emptyResult is the payload for a document OCR could not read at all.
func emptyResult() *invoice.ScanResult {
	return &invoice.ScanResult{
		Header:     ai.DefaultHeader(),
		LineItems:  []invoice.LineItem{},
		Validation: processor.Validate(nil, 0),
		RawText:    "",
	}
}

// truncate cuts s to at most limit runes.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
