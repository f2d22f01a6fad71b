// retry.go - Retry logic and error handling for Gemini API calls

package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"

	"github.com/mitbach-app/invoice_ocr_backend/internal/common"
)

// RetryConfig defines retry behavior for Gemini API calls
type RetryConfig struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffMultiple float64
}

// DefaultRetryConfig provides sensible defaults for retry behavior
var DefaultRetryConfig = RetryConfig{
	MaxAttempts:     3,
	InitialDelay:    1 * time.Second,
	MaxDelay:        8 * time.Second,
	BackoffMultiple: 2.0,
}

// GeminiError represents a categorized Gemini API error
type GeminiError struct {
	OriginalError error
	Category      string
	StatusCode    int
	Message       string
	Retryable     bool
}

func (e *GeminiError) Error() string {
	return fmt.Sprintf("[%s] %s (status: %d, retryable: %v)", e.Category, e.Message, e.StatusCode, e.Retryable)
}

func (e *GeminiError) Unwrap() error { return e.OriginalError }

// categorizeGeminiError analyzes an error and determines the retry strategy
func categorizeGeminiError(err error) *GeminiError {
	if err == nil {
		return nil
	}

	geminiErr := &GeminiError{
		OriginalError: err,
		Category:      "unknown",
		Message:       err.Error(),
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		geminiErr.StatusCode = apiErr.Code

		switch apiErr.Code {
		case 400:
			geminiErr.Category = "bad_request"
			geminiErr.Message = "invalid request format or parameters"
		case 401, 403:
			geminiErr.Category = "unauthorized"
			geminiErr.Message = "API key invalid or missing permissions"
		case 404:
			geminiErr.Category = "not_found"
			geminiErr.Message = "model not found or invalid endpoint"
		case 413:
			geminiErr.Category = "payload_too_large"
			geminiErr.Message = "request size exceeds limit (reduce image size)"
		case 429:
			geminiErr.Category = "rate_limit"
			geminiErr.Message = "rate limit exceeded"
			geminiErr.Retryable = true
		case 500, 502, 503, 504:
			geminiErr.Category = "server_error"
			geminiErr.Message = fmt.Sprintf("Gemini server error (%d)", apiErr.Code)
			geminiErr.Retryable = true
		default:
			geminiErr.Category = "unknown_api_error"
			geminiErr.Message = apiErr.Message
			geminiErr.Retryable = apiErr.Code >= 500
		}
		return geminiErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		geminiErr.Category = "timeout"
		geminiErr.Retryable = true
		return geminiErr
	}
	if errors.Is(err, context.Canceled) {
		geminiErr.Category = "canceled"
		return geminiErr
	}

	errMsg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errMsg, "429") || strings.Contains(errMsg, "resource exhausted"):
		geminiErr.Category = "rate_limit"
		geminiErr.Retryable = true
	case strings.Contains(errMsg, "quota"):
		geminiErr.Category = "quota_exceeded"
	case strings.Contains(errMsg, "timeout") || strings.Contains(errMsg, "deadline"):
		geminiErr.Category = "timeout"
		geminiErr.Retryable = true
	case strings.Contains(errMsg, "connection") || strings.Contains(errMsg, "network"):
		geminiErr.Category = "network_error"
		geminiErr.Retryable = true
	}
	return geminiErr
}

// callGeminiWithRetry executes a Gemini API call with bounded exponential
// backoff. Non-retryable errors are returned immediately. Retries here cover
// transport-level failures only; pipeline stages still make a single logical
// attempt each.
func callGeminiWithRetry(
	ctx context.Context,
	model *genai.GenerativeModel,
	reqCtx *common.RequestContext,
	config RetryConfig,
	parts ...genai.Part,
) (*genai.GenerateContentResponse, error) {

	var lastGeminiErr *GeminiError

	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		if attempt > 1 {
			reqCtx.LogInfo("retry attempt %d/%d", attempt, config.MaxAttempts)
		}

		resp, err := model.GenerateContent(ctx, parts...)
		if err == nil {
			return resp, nil
		}

		lastGeminiErr = categorizeGeminiError(err)
		reqCtx.LogError("model call failed (attempt %d/%d): %s", attempt, config.MaxAttempts, lastGeminiErr.Error())

		if !lastGeminiErr.Retryable {
			return nil, lastGeminiErr
		}
		if attempt >= config.MaxAttempts {
			break
		}

		delay := calculateBackoff(attempt, config)
		if lastGeminiErr.Category == "rate_limit" {
			delay *= 2
			reqCtx.LogWarning("rate limit hit, waiting %v before retry", delay)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context canceled during retry wait: %w", ctx.Err())
		case <-time.After(delay):
		}
	}

	return nil, fmt.Errorf("gemini API call failed after %d attempts: %w", config.MaxAttempts, lastGeminiErr)
}

// calculateBackoff computes the exponential backoff delay for an attempt
func calculateBackoff(attempt int, config RetryConfig) time.Duration {
	delay := float64(config.InitialDelay)
	for i := 1; i < attempt; i++ {
		delay *= config.BackoffMultiple
	}
	if delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}
	return time.Duration(delay)
}
