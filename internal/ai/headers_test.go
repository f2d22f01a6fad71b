package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mitbach-app/invoice_ocr_backend/internal/common"
	"github.com/mitbach-app/invoice_ocr_backend/internal/invoice"
)

type fakeTextModel struct {
	reply string
	err   error
	calls int
}

func (f *fakeTextModel) GenerateText(ctx context.Context, prompt string, reqCtx *common.RequestContext) (string, *common.TokenUsage, error) {
	f.calls++
	return f.reply, &common.TokenUsage{}, f.err
}

func (f *fakeTextModel) Name() string { return "fake" }

func TestParseHeaderSuccess(t *testing.T) {
	model := &fakeTextModel{reply: `{"supplier": "ירקות השדה בע״מ", "total": 1250.50, "date": "15/03/2025", "category": "ירקות ופירות"}`}
	parser := NewHeaderParser(model, nil)

	header := parser.ParseHeader(context.Background(), "some invoice text", common.NewRequestContext("test"))

	assert.Equal(t, "ירקות השדה בע״מ", header.Supplier)
	assert.Equal(t, 1250.50, header.Total)
	assert.Equal(t, "15/03/2025", header.Date)
	assert.Equal(t, invoice.CatProduce, header.Category)
}

func TestParseHeaderFencedResponse(t *testing.T) {
	model := &fakeTextModel{reply: "```json\n{\"supplier\": \"תנובה\", \"total\": 500, \"date\": \"01/02/2025\", \"category\": \"מוצרי חלב\"}\n```"}
	parser := NewHeaderParser(model, nil)

	header := parser.ParseHeader(context.Background(), "text", common.NewRequestContext("test"))

	assert.Equal(t, "תנובה", header.Supplier)
	assert.Equal(t, invoice.CatDairy, header.Category)
}

func TestParseHeaderModelErrorReturnsDefaults(t *testing.T) {
	model := &fakeTextModel{err: errors.New("quota exceeded")}
	parser := NewHeaderParser(model, nil)

	header := parser.ParseHeader(context.Background(), "text", common.NewRequestContext("test"))

	assert.Equal(t, "לא זוהה", header.Supplier)
	assert.Equal(t, 0.0, header.Total)
	assert.NotEmpty(t, header.Date)
	assert.Equal(t, invoice.CatGeneral, header.Category)
}

func TestParseHeaderGarbageResponseReturnsDefaults(t *testing.T) {
	model := &fakeTextModel{reply: "I could not read this invoice, sorry."}
	parser := NewHeaderParser(model, nil)

	header := parser.ParseHeader(context.Background(), "text", common.NewRequestContext("test"))

	assert.Equal(t, "לא זוהה", header.Supplier)
	assert.Equal(t, invoice.CatGeneral, header.Category)
}

func TestParseHeaderUsesFallbackModel(t *testing.T) {
	primary := &fakeTextModel{err: errors.New("unavailable")}
	fallback := &fakeTextModel{reply: `{"supplier": "שטראוס", "total": 300, "date": "02/02/2025", "category": "משקאות"}`}
	parser := NewHeaderParser(primary, fallback)

	header := parser.ParseHeader(context.Background(), "text", common.NewRequestContext("test"))

	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
	assert.Equal(t, "שטראוס", header.Supplier)
	assert.Equal(t, invoice.CatBeverages, header.Category)
}

func TestParseHeaderEmptyTextSkipsModel(t *testing.T) {
	model := &fakeTextModel{reply: `{}`}
	parser := NewHeaderParser(model, nil)

	header := parser.ParseHeader(context.Background(), "   ", common.NewRequestContext("test"))

	assert.Equal(t, 0, model.calls)
	assert.Equal(t, "לא זוהה", header.Supplier)
}

func TestClassifyCategory(t *testing.T) {
	model := &fakeTextModel{reply: "בשר ודגים"}
	parser := NewHeaderParser(model, nil)

	cat := parser.ClassifyCategory(context.Background(), "text", common.NewRequestContext("test"))

	assert.Equal(t, invoice.CatMeatFish, cat)
}

func TestClassifyCategoryModelError(t *testing.T) {
	model := &fakeTextModel{err: errors.New("boom")}
	parser := NewHeaderParser(model, nil)

	cat := parser.ClassifyCategory(context.Background(), "text", common.NewRequestContext("test"))

	assert.Equal(t, invoice.CatGeneral, cat)
}
