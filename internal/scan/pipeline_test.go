package scan

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitbach-app/invoice_ocr_backend/internal/common"
	"github.com/mitbach-app/invoice_ocr_backend/internal/invoice"
	"github.com/mitbach-app/invoice_ocr_backend/internal/ocr"
	"github.com/mitbach-app/invoice_ocr_backend/internal/processor"
)

type fakeStructuredOCR struct {
	result *ocr.StructuredResult
	err    error
	calls  int
}

func (f *fakeStructuredOCR) Process(ctx context.Context, data []byte, mimeType string, reqCtx *common.RequestContext) (*ocr.StructuredResult, error) {
	f.calls++
	return f.result, f.err
}

type fakeTextOCR struct {
	text  string
	err   error
	calls int
}

func (f *fakeTextOCR) DetectText(ctx context.Context, data []byte, reqCtx *common.RequestContext) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeHeaderParser struct {
	header        invoice.Header
	category      invoice.Category
	parseCalls    int
	classifyCalls int
}

func (f *fakeHeaderParser) ParseHeader(ctx context.Context, rawText string, reqCtx *common.RequestContext) invoice.Header {
	f.parseCalls++
	return f.header
}

func (f *fakeHeaderParser) ClassifyCategory(ctx context.Context, rawText string, reqCtx *common.RequestContext) invoice.Category {
	f.classifyCalls++
	return f.category
}

type fakeItemExtractor struct {
	items []invoice.LineItem
	calls int
}

func (f *fakeItemExtractor) Extract(ctx context.Context, image []byte, mimeType, rawText string, reqCtx *common.RequestContext) []invoice.LineItem {
	f.calls++
	return f.items
}

func testHeader(category invoice.Category, total float64) invoice.Header {
	return invoice.Header{Supplier: "ספק", Total: total, Date: "01/01/2025", Category: category}
}

func TestScanHappyPath(t *testing.T) {
	structured := &fakeStructuredOCR{result: &ocr.StructuredResult{Text: "invoice text"}}
	headers := &fakeHeaderParser{header: testHeader(invoice.CatProduce, 30)}
	extractor := &fakeItemExtractor{items: []invoice.LineItem{
		{Name: "עגבניות", Quantity: 2.5, Unit: processor.UnitKilogram, PricePerUnit: 12, TotalPrice: 30},
	}}
	p := NewPipeline(structured, &fakeTextOCR{}, headers, extractor)

	result := p.Scan(context.Background(), []byte("img"), "image/jpeg", common.NewRequestContext("test"))

	require.Len(t, result.LineItems, 1)
	assert.Equal(t, invoice.StatusValid, result.Validation.Status)
	assert.Equal(t, "invoice text", result.RawText)
	assert.Equal(t, 1, headers.parseCalls)
	assert.Equal(t, 1, extractor.calls)
}

func TestScanNoTextEarlyExit(t *testing.T) {
	structured := &fakeStructuredOCR{err: errors.New("ocr down")}
	textOCR := &fakeTextOCR{text: ""}
	headers := &fakeHeaderParser{}
	extractor := &fakeItemExtractor{}
	p := NewPipeline(structured, textOCR, headers, extractor)

	result := p.Scan(context.Background(), []byte("img"), "image/jpeg", common.NewRequestContext("test"))

	assert.Equal(t, "לא זוהה", result.Header.Supplier)
	assert.Empty(t, result.LineItems)
	assert.Equal(t, invoice.StatusValid, result.Validation.Status)
	assert.Empty(t, result.RawText)
	// Downstream stages never run.
	assert.Equal(t, 0, headers.parseCalls)
	assert.Equal(t, 0, extractor.calls)
}

func TestScanTextOCRFallback(t *testing.T) {
	structured := &fakeStructuredOCR{err: errors.New("ocr down")}
	textOCR := &fakeTextOCR{text: "fallback text"}
	headers := &fakeHeaderParser{header: testHeader(invoice.CatGeneral, 0)}
	extractor := &fakeItemExtractor{items: []invoice.LineItem{}}
	p := NewPipeline(structured, textOCR, headers, extractor)

	result := p.Scan(context.Background(), []byte("img"), "image/jpeg", common.NewRequestContext("test"))

	assert.Equal(t, 1, structured.calls)
	assert.Equal(t, 1, textOCR.calls)
	assert.Equal(t, "fallback text", result.RawText)
}

func TestScanPDFSkipsTextOCRFallback(t *testing.T) {
	structured := &fakeStructuredOCR{err: errors.New("ocr down")}
	textOCR := &fakeTextOCR{text: "should not be used"}
	p := NewPipeline(structured, textOCR, &fakeHeaderParser{}, &fakeItemExtractor{})

	result := p.Scan(context.Background(), []byte("pdf"), "application/pdf", common.NewRequestContext("test"))

	assert.Equal(t, 0, textOCR.calls)
	assert.Empty(t, result.RawText)
}

func TestScanStructuredEntitiesSkipFullHeaderParse(t *testing.T) {
	structured := &fakeStructuredOCR{result: &ocr.StructuredResult{
		Text:     "invoice text",
		Supplier: "תנובה",
		Total:    840,
		Date:     "12/01/2025",
	}}
	headers := &fakeHeaderParser{category: invoice.CatDairy}
	extractor := &fakeItemExtractor{items: []invoice.LineItem{}}
	p := NewPipeline(structured, &fakeTextOCR{}, headers, extractor)

	result := p.Scan(context.Background(), []byte("img"), "image/jpeg", common.NewRequestContext("test"))

	assert.Equal(t, 0, headers.parseCalls)
	assert.Equal(t, 1, headers.classifyCalls)
	assert.Equal(t, "תנובה", result.Header.Supplier)
	assert.Equal(t, 840.0, result.Header.Total)
	assert.Equal(t, invoice.CatDairy, result.Header.Category)
}

func TestScanNonItemizedCategorySynthesizesRow(t *testing.T) {
	for _, category := range []invoice.Category{
		invoice.CatRent, invoice.CatUtilities, invoice.CatPayroll, invoice.CatMaint,
	} {
		structured := &fakeStructuredOCR{result: &ocr.StructuredResult{Text: "invoice text"}}
		headers := &fakeHeaderParser{header: testHeader(category, 4200)}
		extractor := &fakeItemExtractor{items: []invoice.LineItem{{Name: "should not appear"}}}
		p := NewPipeline(structured, &fakeTextOCR{}, headers, extractor)

		result := p.Scan(context.Background(), []byte("img"), "image/jpeg", common.NewRequestContext("test"))

		assert.Equal(t, 0, extractor.calls, "category %s", category)
		require.Len(t, result.LineItems, 1, "category %s", category)
		row := result.LineItems[0]
		assert.Equal(t, 1.0, row.Quantity)
		assert.Equal(t, 4200.0, row.PricePerUnit)
		assert.Equal(t, 4200.0, row.TotalPrice)
		assert.Equal(t, invoice.StatusValid, result.Validation.Status)
	}
}

func TestScanRunsSwapCorrection(t *testing.T) {
	structured := &fakeStructuredOCR{result: &ocr.StructuredResult{Text: "invoice text"}}
	headers := &fakeHeaderParser{header: testHeader(invoice.CatProduce, 375)}
	extractor := &fakeItemExtractor{items: []invoice.LineItem{
		{Name: "עגבניות", Quantity: 2.5, Unit: processor.UnitKilogram, PricePerUnit: 150, TotalPrice: 375},
	}}
	p := NewPipeline(structured, &fakeTextOCR{}, headers, extractor)

	result := p.Scan(context.Background(), []byte("img"), "image/jpeg", common.NewRequestContext("test"))

	require.Len(t, result.LineItems, 1)
	assert.Equal(t, 150.0, result.LineItems[0].Quantity)
	assert.Equal(t, 2.5, result.LineItems[0].PricePerUnit)
}

func TestScanTruncatesRawText(t *testing.T) {
	longText := strings.Repeat("א", 2000)
	structured := &fakeStructuredOCR{result: &ocr.StructuredResult{Text: longText}}
	headers := &fakeHeaderParser{header: testHeader(invoice.CatGeneral, 0)}
	p := NewPipeline(structured, &fakeTextOCR{}, headers, &fakeItemExtractor{items: []invoice.LineItem{}})

	result := p.Scan(context.Background(), []byte("img"), "image/jpeg", common.NewRequestContext("test"))

	assert.Equal(t, 1500, len([]rune(result.RawText)))
}
