// config.go - Configuration loaded from environment variables

package configs

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

var (
	// Gemini AI Configuration
	GEMINI_API_KEY    string
	TEXT_MODEL_NAME   string
	VISION_MODEL_NAME string

	// Gemini Pricing Configuration (per 1M tokens in USD)
	GEMINI_INPUT_PRICE_PER_MILLION  float64
	GEMINI_OUTPUT_PRICE_PER_MILLION float64
	USD_TO_ILS                      float64

	// Optional Mistral fallback for text-only extraction
	MISTRAL_API_KEY    string
	MISTRAL_MODEL_NAME string

	// Document AI (structured invoice OCR)
	GCP_PROJECT_ID     string
	DOCAI_LOCATION     string
	DOCAI_PROCESSOR_ID string

	// Auth
	AUTH_AUDIENCE string

	// Server Configuration
	PORT            string
	ALLOWED_ORIGINS string

	// MongoDB Configuration
	MONGO_URI     string
	MONGO_DB_NAME string

	// Image preprocessing settings
	ENABLE_IMAGE_PREPROCESSING bool
	MAX_IMAGE_DIMENSION        int

	// Accountant reporting (Resend)
	RESEND_API_KEY    string
	REPORT_FROM_EMAIL string
	ACCOUNTANT_EMAIL  string
)

// LoadConfig loads configuration from environment variables
func LoadConfig() {
	// Load .env file if exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Required: Gemini API Key
	GEMINI_API_KEY = getEnv("GEMINI_API_KEY", "")
	if GEMINI_API_KEY == "" {
		log.Fatal("GEMINI_API_KEY environment variable is required")
	}

	// Optional with defaults
	TEXT_MODEL_NAME = getEnv("TEXT_MODEL_NAME", "gemini-2.5-flash-lite")
	VISION_MODEL_NAME = getEnv("VISION_MODEL_NAME", "gemini-2.5-flash")

	// Gemini Pricing (default to Flash pricing)
	GEMINI_INPUT_PRICE_PER_MILLION = getEnvFloat("GEMINI_INPUT_PRICE_PER_MILLION", 0.30)
	GEMINI_OUTPUT_PRICE_PER_MILLION = getEnvFloat("GEMINI_OUTPUT_PRICE_PER_MILLION", 2.50)
	USD_TO_ILS = getEnvFloat("USD_TO_ILS", 3.7)

	MISTRAL_API_KEY = getEnv("MISTRAL_API_KEY", "")
	MISTRAL_MODEL_NAME = getEnv("MISTRAL_MODEL_NAME", "mistral-small-latest")

	GCP_PROJECT_ID = getEnv("GCP_PROJECT_ID", "")
	DOCAI_LOCATION = getEnv("DOCAI_LOCATION", "eu")
	DOCAI_PROCESSOR_ID = getEnv("DOCAI_PROCESSOR_ID", "")

	AUTH_AUDIENCE = getEnv("AUTH_AUDIENCE", "")

	PORT = getEnv("PORT", "8080")
	ALLOWED_ORIGINS = getEnv("ALLOWED_ORIGINS", "*")

	// MongoDB Configuration
	MONGO_URI = getEnv("MONGO_URI", "mongodb://localhost:27017")
	MONGO_DB_NAME = getEnv("MONGO_DB_NAME", "mitbach")

	// Image Processing
	ENABLE_IMAGE_PREPROCESSING = getEnvBool("ENABLE_IMAGE_PREPROCESSING", true)
	MAX_IMAGE_DIMENSION = getEnvInt("MAX_IMAGE_DIMENSION", 2000)

	// Reporting
	RESEND_API_KEY = getEnv("RESEND_API_KEY", "")
	REPORT_FROM_EMAIL = getEnv("REPORT_FROM_EMAIL", "reports@mitbach.app")
	ACCOUNTANT_EMAIL = getEnv("ACCOUNTANT_EMAIL", "")

	log.Println("✓ Configuration loaded successfully")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
