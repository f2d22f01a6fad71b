// server.go - Handler wiring. The Server owns the scan pipeline and
// registers every route group under /api/v1.

package api

import (
	"github.com/gin-gonic/gin"

	"github.com/mitbach-app/invoice_ocr_backend/internal/scan"
)

// Server holds the long-lived collaborators shared by all handlers.
type Server struct {
	pipeline *scan.Pipeline
}

// NewServer builds the handler set over a constructed pipeline.
func NewServer(pipeline *scan.Pipeline) *Server {
	return &Server{pipeline: pipeline}
}

// RegisterRoutes mounts all endpoints. authMiddleware guards everything
// under /api/v1; nothing in a handler runs before it passes.
func (s *Server) RegisterRoutes(router *gin.Engine, authMiddleware gin.HandlerFunc) {
	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware)

	v1.POST("/scan-invoice", s.handleScanInvoice)

	v1.GET("/invoices", s.handleListInvoices)
	v1.GET("/invoices/:id", s.handleGetInvoice)
	v1.POST("/invoices/:id/apply", s.handleApplyInvoice)

	v1.GET("/inventory", s.handleListInventory)
	v1.POST("/inventory", s.handleUpsertInventory)

	v1.GET("/recipes", s.handleListRecipes)
	v1.POST("/recipes", s.handleCreateRecipe)
	v1.GET("/recipes/:id/cost", s.handleRecipeCost)

	v1.GET("/reports/expenses", s.handleExpenseReport)
	v1.POST("/reports/expenses/send", s.handleSendExpenseReport)
}
