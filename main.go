// main.go - The entry point and router setup.

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mitbach-app/invoice_ocr_backend/configs"
	"github.com/mitbach-app/invoice_ocr_backend/internal/ai"
	"github.com/mitbach-app/invoice_ocr_backend/internal/api"
	"github.com/mitbach-app/invoice_ocr_backend/internal/auth"
	"github.com/mitbach-app/invoice_ocr_backend/internal/ocr"
	"github.com/mitbach-app/invoice_ocr_backend/internal/scan"
	"github.com/mitbach-app/invoice_ocr_backend/internal/storage"
)

func main() {
	// Step 0: Load configuration from environment variables
	configs.LoadConfig()

	if ginMode := os.Getenv("GIN_MODE"); ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Step 1: Initialize MongoDB. Persistence is optional: the scan
	// endpoint still works without it, the data endpoints return 503.
	if err := storage.InitMongoDB(); err != nil {
		log.Printf("⚠️  MongoDB unavailable, running without persistence: %v", err)
	} else {
		defer storage.CloseMongoDB()
	}

	// Step 2: Build the scan pipeline collaborators.
	ctx := context.Background()

	var structuredOCR scan.StructuredOCR
	if configs.GCP_PROJECT_ID != "" && configs.DOCAI_PROCESSOR_ID != "" {
		docai, err := ocr.NewDocAIClient(ctx)
		if err != nil {
			log.Printf("⚠️  Document AI unavailable: %v", err)
		} else {
			defer docai.Close()
			structuredOCR = docai
		}
	} else {
		log.Println("⚠️  Document AI not configured (GCP_PROJECT_ID / DOCAI_PROCESSOR_ID)")
	}

	var textOCR scan.TextOCR
	visionClient, err := ocr.NewVisionClient(ctx)
	if err != nil {
		log.Printf("⚠️  Cloud Vision unavailable: %v", err)
	} else {
		defer visionClient.Close()
		textOCR = visionClient
	}

	gemini, textFallback := ai.NewProvidersFromConfig()
	pipeline := scan.NewPipeline(
		structuredOCR,
		textOCR,
		ai.NewHeaderParser(gemini, textFallback),
		ai.NewItemExtractor(gemini, gemini, textFallback),
	)

	// Step 3: Initialize the Gin router
	router := gin.Default()
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	// CORS middleware - configure allowed origins for production
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", configs.ALLOWED_ORIGINS)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "invoice-ocr-backend",
			"version": "1.0.0",
		})
	})

	// Step 4: Mount the API behind token auth
	verifier := auth.NewVerifier(configs.AUTH_AUDIENCE)
	api.NewServer(pipeline).RegisterRoutes(router, verifier.Middleware())

	// Step 5: Setup HTTP server with timeouts
	srv := &http.Server{
		Addr:           ":" + configs.PORT,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   3 * time.Minute, // Allow up to 3 minutes for long-running requests
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("Starting server on :%s", configs.PORT)
		log.Println("API Endpoint: POST /api/v1/scan-invoice")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
