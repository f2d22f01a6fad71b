// interface.go - Model provider interfaces for supporting multiple AI backends

package ai

import (
	"context"

	"github.com/mitbach-app/invoice_ocr_backend/internal/common"
)

// TextModel produces a completion for a text prompt. Implemented by Gemini
// and by the optional Mistral fallback.
type TextModel interface {
	GenerateText(ctx context.Context, prompt string, reqCtx *common.RequestContext) (string, *common.TokenUsage, error)

	// Name returns the provider name (e.g. "gemini", "mistral") for logs.
	Name() string
}

// VisionModel produces a completion for a prompt plus an image payload.
type VisionModel interface {
	GenerateVision(ctx context.Context, prompt, mimeType string, image []byte, reqCtx *common.RequestContext) (string, *common.TokenUsage, error)

	Name() string
}
