// gemini.go - Gemini provider for text and vision extraction calls

package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/mitbach-app/invoice_ocr_backend/internal/common"
	"github.com/mitbach-app/invoice_ocr_backend/internal/ratelimit"
)

// GeminiProvider holds API credentials and model names. One instance is built
// at startup and shared across requests; the genai client itself is created
// per call and closed with it.
type GeminiProvider struct {
	apiKey          string
	textModelName   string
	visionModelName string
}

// NewGeminiProvider creates a Gemini provider.
func NewGeminiProvider(apiKey, textModel, visionModel string) *GeminiProvider {
	return &GeminiProvider{
		apiKey:          apiKey,
		textModelName:   textModel,
		visionModelName: visionModel,
	}
}

// Name returns "gemini"
func (g *GeminiProvider) Name() string { return "gemini" }

// GenerateText sends a text-only prompt and returns the raw completion.
func (g *GeminiProvider) GenerateText(ctx context.Context, prompt string, reqCtx *common.RequestContext) (string, *common.TokenUsage, error) {
	return g.generate(ctx, g.textModelName, reqCtx, genai.Text(prompt))
}

// GenerateVision sends a prompt plus an inline image and returns the raw
// completion.
func (g *GeminiProvider) GenerateVision(ctx context.Context, prompt, mimeType string, image []byte, reqCtx *common.RequestContext) (string, *common.TokenUsage, error) {
	return g.generate(ctx, g.visionModelName, reqCtx,
		genai.Text(prompt),
		genai.Blob{MIMEType: mimeType, Data: image},
	)
}

func (g *GeminiProvider) generate(ctx context.Context, modelName string, reqCtx *common.RequestContext, parts ...genai.Part) (string, *common.TokenUsage, error) {
	reqCtx.StartSubStep("init_gemini_client")
	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		reqCtx.EndSubStep("❌ FAILED")
		return "", nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.2)
	model.GenerationConfig.MaxOutputTokens = ptr(int32(8192))
	reqCtx.EndSubStep("")

	reqCtx.StartSubStep("call_gemini_api")
	ratelimit.WaitForRateLimit()
	resp, err := callGeminiWithRetry(ctx, model, reqCtx, DefaultRetryConfig, parts...)
	if err != nil {
		reqCtx.EndSubStep("❌ FAILED")
		return "", nil, err
	}
	reqCtx.EndSubStep("")

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", nil, fmt.Errorf("empty response from Gemini (model %s)", modelName)
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out.WriteString(string(text))
		}
	}
	if out.Len() == 0 {
		return "", nil, fmt.Errorf("no text part in Gemini response (FinishReason: %v)", resp.Candidates[0].FinishReason)
	}

	if resp.Candidates[0].FinishReason == genai.FinishReasonMaxTokens {
		reqCtx.LogWarning("response was truncated (FinishReason: MAX_TOKENS)")
	}

	var tokenUsage *common.TokenUsage
	if resp.UsageMetadata != nil {
		tokens := common.CalculateTokenCost(
			int(resp.UsageMetadata.PromptTokenCount),
			int(resp.UsageMetadata.CandidatesTokenCount),
		)
		tokenUsage = &tokens
	}

	return out.String(), tokenUsage, nil
}

// ptr is a helper to get a pointer to an int32 value
func ptr(i int32) *int32 { return &i }
