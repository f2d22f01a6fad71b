// inventory.go - Stock listing and manual adjustment. The invoice apply
// action is the usual write path; the POST handler covers stock takes and
// items bought off-invoice.

package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mitbach-app/invoice_ocr_backend/internal/auth"
	"github.com/mitbach-app/invoice_ocr_backend/internal/processor"
	"github.com/mitbach-app/invoice_ocr_backend/internal/storage"
)

func (s *Server) handleListInventory(c *gin.Context) {
	if !requireStorage(c) {
		return
	}

	data, err := storage.GetOrLoadKitchenData(auth.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load inventory"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data.Inventory})
}

type inventoryUpsertRequest struct {
	Name      string  `json:"name"`
	Unit      string  `json:"unit"`
	Quantity  float64 `json:"quantity"`
	LastPrice float64 `json:"lastPrice"`
}

func (s *Server) handleUpsertInventory(c *gin.Context) {
	if !requireStorage(c) {
		return
	}

	var req inventoryUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	userID := auth.UserID(c)
	err := storage.UpsertInventoryItem(userID,
		strings.TrimSpace(req.Name), processor.NormalizeUnit(req.Unit),
		req.Quantity, req.LastPrice)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update inventory"})
		return
	}
	storage.InvalidateCache(userID)

	c.JSON(http.StatusOK, gin.H{"success": true})
}
