// reports.go - Monthly expense reports and accountant mail-out.

package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mitbach-app/invoice_ocr_backend/internal/auth"
	"github.com/mitbach-app/invoice_ocr_backend/internal/reports"
)

func (s *Server) handleExpenseReport(c *gin.Context) {
	if !requireStorage(c) {
		return
	}

	report, err := reports.BuildMonthly(auth.UserID(c), c.Query("month"))
	if err != nil {
		if strings.Contains(err.Error(), "invalid month") {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": report})
}

func (s *Server) handleSendExpenseReport(c *gin.Context) {
	if !requireStorage(c) {
		return
	}

	report, err := reports.BuildMonthly(auth.UserID(c), c.Query("month"))
	if err != nil {
		if strings.Contains(err.Error(), "invalid month") {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build report"})
		return
	}

	messageID, err := reports.SendToAccountant(report)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"messageId": messageID, "month": report.Month}})
}
