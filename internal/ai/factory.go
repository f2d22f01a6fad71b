// factory.go - Provider construction from configuration

package ai

import (
	"log"

	"github.com/mitbach-app/invoice_ocr_backend/configs"
)

// NewProvidersFromConfig builds the Gemini provider plus an optional Mistral
// text fallback (used by the header/item parsers when a Gemini text call
// fails). The fallback is nil when no Mistral key is configured.
func NewProvidersFromConfig() (gemini *GeminiProvider, textFallback TextModel) {
	gemini = NewGeminiProvider(
		configs.GEMINI_API_KEY,
		configs.TEXT_MODEL_NAME,
		configs.VISION_MODEL_NAME,
	)
	log.Printf("🔵 Gemini provider ready (text: %s, vision: %s)",
		configs.TEXT_MODEL_NAME, configs.VISION_MODEL_NAME)

	if configs.MISTRAL_API_KEY != "" {
		textFallback = NewMistralProvider(configs.MISTRAL_API_KEY, configs.MISTRAL_MODEL_NAME)
		log.Printf("✅ Fallback text provider configured: Mistral (%s)", configs.MISTRAL_MODEL_NAME)
	}
	return gemini, textFallback
}
