// documentai.go - Structured OCR via Google Document AI invoice processor.
// Returns full text plus the header entities the processor recognized.

package ocr

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"

	"github.com/mitbach-app/invoice_ocr_backend/configs"
	"github.com/mitbach-app/invoice_ocr_backend/internal/common"
)

// StructuredResult is what structured OCR yields for one document. Supplier,
// Total, and Date are zero-valued when the processor did not recognize them.
type StructuredResult struct {
	Text     string
	Supplier string
	Total    float64
	Date     string
}

// DocAIClient wraps a Document AI processor configured for invoices.
type DocAIClient struct {
	client        *documentai.DocumentProcessorClient
	processorName string
}

// NewDocAIClient connects to the regional Document AI endpoint from config.
func NewDocAIClient(ctx context.Context) (*DocAIClient, error) {
	endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", configs.DOCAI_LOCATION)
	client, err := documentai.NewDocumentProcessorClient(ctx, option.WithEndpoint(endpoint))
	if err != nil {
		return nil, fmt.Errorf("documentai client: %w", err)
	}
	return &DocAIClient{
		client: client,
		processorName: fmt.Sprintf("projects/%s/locations/%s/processors/%s",
			configs.GCP_PROJECT_ID, configs.DOCAI_LOCATION, configs.DOCAI_PROCESSOR_ID),
	}, nil
}

// Process runs the invoice processor over raw document bytes. Works for
// both images and PDFs.
func (c *DocAIClient) Process(ctx context.Context, data []byte, mimeType string, reqCtx *common.RequestContext) (*StructuredResult, error) {
	resp, err := c.client.ProcessDocument(ctx, &documentaipb.ProcessRequest{
		Name: c.processorName,
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  data,
				MimeType: mimeType,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("documentai process: %w", err)
	}

	doc := resp.GetDocument()
	result := &StructuredResult{Text: doc.GetText()}

	for _, entity := range doc.GetEntities() {
		switch entity.GetType() {
		case "supplier_name":
			if result.Supplier == "" {
				result.Supplier = strings.TrimSpace(entity.GetMentionText())
			}
		case "total_amount":
			if result.Total == 0 {
				result.Total = entityAmount(entity)
			}
		case "invoice_date":
			if result.Date == "" {
				result.Date = strings.TrimSpace(entity.GetNormalizedValue().GetText())
				if result.Date == "" {
					result.Date = strings.TrimSpace(entity.GetMentionText())
				}
			}
		}
	}

	if reqCtx != nil {
		reqCtx.LogInfo("Document AI: %d chars, supplier=%q total=%.2f date=%q",
			len(result.Text), result.Supplier, result.Total, result.Date)
	}
	return result, nil
}

// Close releases the underlying gRPC connection.
func (c *DocAIClient) Close() error {
	return c.client.Close()
}

// entityAmount reads a monetary entity, preferring the normalized money
// value over the raw mention text.
func entityAmount(entity *documentaipb.Document_Entity) float64 {
	if money := entity.GetNormalizedValue().GetMoneyValue(); money != nil {
		return float64(money.GetUnits()) + float64(money.GetNanos())/1e9
	}
	cleaned := strings.NewReplacer(",", "", "₪", "", " ", "").Replace(entity.GetMentionText())
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return amount
}
