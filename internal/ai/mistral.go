// mistral.go - Mistral fallback provider for text-only extraction

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mitbach-app/invoice_ocr_backend/internal/common"
)

const mistralChatURL = "https://api.mistral.ai/v1/chat/completions"

// MistralProvider implements TextModel against the Mistral chat-completions
// REST API. It is used only as a fallback when Gemini text calls fail.
type MistralProvider struct {
	apiKey    string
	modelName string
	client    *http.Client
}

// NewMistralProvider creates a new Mistral provider.
func NewMistralProvider(apiKey, modelName string) *MistralProvider {
	return &MistralProvider{
		apiKey:    apiKey,
		modelName: modelName,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Name returns "mistral"
func (m *MistralProvider) Name() string { return "mistral" }

type mistralMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type mistralChatRequest struct {
	Model       string           `json:"model"`
	Messages    []mistralMessage `json:"messages"`
	Temperature float64          `json:"temperature"`
}

type mistralChatResponse struct {
	Choices []struct {
		Message mistralMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// GenerateText sends the prompt to Mistral and returns the completion.
func (m *MistralProvider) GenerateText(ctx context.Context, prompt string, reqCtx *common.RequestContext) (string, *common.TokenUsage, error) {
	reqCtx.LogInfo("🔷 using Mistral fallback provider (model: %s)", m.modelName)
	reqCtx.StartSubStep("mistral_chat_api_call")
	defer reqCtx.EndSubStep("")

	body, err := json.Marshal(mistralChatRequest{
		Model:       m.modelName,
		Messages:    []mistralMessage{{Role: "user", Content: prompt}},
		Temperature: 0.2,
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to marshal Mistral request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, mistralChatURL, bytes.NewReader(body))
	if err != nil {
		return "", nil, fmt.Errorf("failed to build Mistral request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("mistral API call failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read Mistral response: %w", err)
	}

	var chatResp mistralChatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", nil, fmt.Errorf("failed to parse Mistral response (HTTP %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		if chatResp.Error != nil {
			return "", nil, fmt.Errorf("mistral API error (HTTP %d): %s", resp.StatusCode, chatResp.Error.Message)
		}
		return "", nil, fmt.Errorf("mistral API error: HTTP %d", resp.StatusCode)
	}
	if len(chatResp.Choices) == 0 {
		return "", nil, fmt.Errorf("no choices in Mistral response")
	}

	// Mistral pricing differs from the configured Gemini rates; report token
	// counts only and leave the cost fields zero.
	usage := &common.TokenUsage{
		InputTokens:  chatResp.Usage.PromptTokens,
		OutputTokens: chatResp.Usage.CompletionTokens,
		TotalTokens:  chatResp.Usage.TotalTokens,
	}
	return chatResp.Choices[0].Message.Content, usage, nil
}
