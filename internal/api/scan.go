// scan.go - The invoice scan endpoint: accepts one base64 document, runs
// the extraction pipeline, persists the result, and returns the structured
// record.

package api

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mitbach-app/invoice_ocr_backend/internal/auth"
	"github.com/mitbach-app/invoice_ocr_backend/internal/common"
	"github.com/mitbach-app/invoice_ocr_backend/internal/storage"
)

// scanRequest is the upload body. mimeType is optional; the content is
// sniffed when it is absent.
type scanRequest struct {
	ImageBase64 string `json:"imageBase64"`
	MimeType    string `json:"mimeType"`
}

type scanResponseData struct {
	ID         string      `json:"id,omitempty"`
	Supplier   string      `json:"supplier"`
	Total      float64     `json:"total"`
	Date       string      `json:"date"`
	Category   string      `json:"category"`
	LineItems  interface{} `json:"lineItems"`
	Validation interface{} `json:"validation"`
	RawText    string      `json:"rawText"`
}

func (s *Server) handleScanInvoice(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.ImageBase64) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "imageBase64 is required"})
		return
	}

	image, err := decodeImage(req.ImageBase64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "imageBase64 is not valid base64"})
		return
	}

	mimeType := req.MimeType
	if mimeType == "" {
		mimeType = http.DetectContentType(image)
	}

	reqCtx := common.NewRequestContext(auth.UserID(c))
	result := s.pipeline.Scan(c.Request.Context(), image, mimeType, reqCtx)
	reqCtx.GetSummary()

	data := scanResponseData{
		Supplier:   result.Header.Supplier,
		Total:      result.Header.Total,
		Date:       result.Header.Date,
		Category:   string(result.Header.Category),
		LineItems:  result.LineItems,
		Validation: result.Validation,
		RawText:    result.RawText,
	}

	// Persistence is best effort. A scan the user can review beats a 500
	// because the database hiccuped.
	if storage.Ready() {
		id, err := storage.SaveInvoice(&storage.InvoiceRecord{
			UserID:     auth.UserID(c),
			Supplier:   result.Header.Supplier,
			Total:      result.Header.Total,
			Date:       result.Header.Date,
			Category:   result.Header.Category,
			LineItems:  result.LineItems,
			Validation: result.Validation,
			RawText:    result.RawText,
		})
		if err != nil {
			reqCtx.LogWarning("Failed to persist invoice: %v", err)
		} else {
			data.ID = id
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// decodeImage accepts plain base64 or a data URI.
func decodeImage(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if idx := strings.Index(encoded, ";base64,"); strings.HasPrefix(encoded, "data:") && idx >= 0 {
		encoded = encoded[idx+len(";base64,"):]
	}
	return base64.StdEncoding.DecodeString(encoded)
}
