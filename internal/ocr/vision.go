// vision.go - Plain text OCR via the Cloud Vision document text detector.
// Used when Document AI is unavailable or returns nothing useful.

package ocr

import (
	"context"
	"fmt"

	vision "cloud.google.com/go/vision/apiv1"
	"cloud.google.com/go/vision/v2/apiv1/visionpb"

	"github.com/mitbach-app/invoice_ocr_backend/internal/common"
)

// VisionClient wraps the Cloud Vision image annotator for text detection.
type VisionClient struct {
	client *vision.ImageAnnotatorClient
}

// NewVisionClient connects with application default credentials.
func NewVisionClient(ctx context.Context) (*VisionClient, error) {
	client, err := vision.NewImageAnnotatorClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}
	return &VisionClient{client: client}, nil
}

// DetectText runs document text detection over an image and returns the
// full recognized text. Images only, PDFs are not supported here.
func (c *VisionClient) DetectText(ctx context.Context, data []byte, reqCtx *common.RequestContext) (string, error) {
	annotation, err := c.client.DetectDocumentText(ctx, &visionpb.Image{Content: data}, nil)
	if err != nil {
		return "", fmt.Errorf("vision detect: %w", err)
	}
	if annotation == nil {
		return "", nil
	}
	text := annotation.GetText()
	if reqCtx != nil {
		reqCtx.LogInfo("Vision OCR: %d chars", len(text))
	}
	return text, nil
}

// Close releases the underlying gRPC connection.
func (c *VisionClient) Close() error {
	return c.client.Close()
}
