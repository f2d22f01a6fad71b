// invoices.go - Stored invoice listing and the apply-to-inventory action.

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mitbach-app/invoice_ocr_backend/internal/auth"
	"github.com/mitbach-app/invoice_ocr_backend/internal/invoice"
	"github.com/mitbach-app/invoice_ocr_backend/internal/storage"
)

func (s *Server) handleListInvoices(c *gin.Context) {
	if !requireStorage(c) {
		return
	}
	userID := auth.UserID(c)

	if month := c.Query("month"); month != "" {
		from, err := time.ParseInLocation("2006-01", month, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month, expected YYYY-MM"})
			return
		}
		records, err := storage.InvoicesInRange(userID, from, from.AddDate(0, 1, 0))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list invoices"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": records})
		return
	}

	category := invoice.Category("")
	if raw := c.Query("category"); raw != "" {
		category = invoice.ParseCategory(raw)
	}

	records, err := storage.ListInvoices(userID, category)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list invoices"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": records})
}

func (s *Server) handleGetInvoice(c *gin.Context) {
	if !requireStorage(c) {
		return
	}

	record, err := storage.GetInvoice(auth.UserID(c), c.Param("id"))
	if err != nil {
		status, msg := invoiceLookupError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": record})
}

// handleApplyInvoice merges an invoice's line items into inventory: each
// row increments the stock quantity and refreshes the last purchase price.
func (s *Server) handleApplyInvoice(c *gin.Context) {
	if !requireStorage(c) {
		return
	}
	userID := auth.UserID(c)

	record, err := storage.GetInvoice(userID, c.Param("id"))
	if err != nil {
		status, msg := invoiceLookupError(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	if record.Applied {
		c.JSON(http.StatusConflict, gin.H{"error": "invoice already applied to inventory"})
		return
	}
	if record.Category.NonItemized() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "non-itemized invoices cannot be applied to inventory"})
		return
	}

	applied := 0
	for _, item := range record.LineItems {
		if item.Name == "" || item.Quantity <= 0 {
			continue
		}
		if err := storage.UpsertInventoryItem(userID, item.Name, item.Unit, item.Quantity, item.PricePerUnit); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update inventory"})
			return
		}
		applied++
	}

	if err := storage.MarkInvoiceApplied(userID, c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark invoice applied"})
		return
	}
	storage.InvalidateCache(userID)

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"appliedItems": applied}})
}

func invoiceLookupError(err error) (int, string) {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return http.StatusNotFound, "invoice not found"
	}
	return http.StatusBadRequest, err.Error()
}

// requireStorage rejects data endpoints when no database is configured.
func requireStorage(c *gin.Context) bool {
	if storage.Ready() {
		return true
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{"error": "persistence is not configured"})
	return false
}
