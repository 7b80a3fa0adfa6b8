package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tftnerd/internal/logging"
)

// maxPromptChars bounds what we send; beyond this the context JSON is
// truncated rather than rejected.
const maxPromptChars = 30000

// GeminiConfig holds configuration for the Gemini client.
type GeminiConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// DefaultGeminiConfig returns sensible defaults.
func DefaultGeminiConfig(apiKey string) GeminiConfig {
	return GeminiConfig{
		APIKey:     apiKey,
		BaseURL:    "https://generativelanguage.googleapis.com/v1beta",
		Model:      "gemini-2.0-flash",
		Timeout:    30 * time.Second,
		MaxRetries: 3,
		RetryDelay: time.Second,
	}
}

// GeminiClient implements LLMClient for the Google Gemini API.
type GeminiClient struct {
	apiKey     string
	baseURL    string
	model      string
	maxRetries int
	retryDelay time.Duration
	httpClient *http.Client

	mu          sync.Mutex
	lastRequest time.Time
}

// NewGeminiClient creates a new Gemini client with default config.
func NewGeminiClient(apiKey string) *GeminiClient {
	return NewGeminiClientWithConfig(DefaultGeminiConfig(apiKey))
}

// NewGeminiClientWithConfig creates a new Gemini client with custom config.
func NewGeminiClientWithConfig(config GeminiConfig) *GeminiClient {
	model := strings.TrimSpace(config.Model)
	if model == "" {
		model = "gemini-2.0-flash"
	}
	maxRetries := config.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	retryDelay := config.RetryDelay
	if retryDelay <= 0 {
		retryDelay = time.Second
	}
	return &GeminiClient{
		apiKey:     config.APIKey,
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		model:      model,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
			Text  string       `json:"text"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// Complete sends a prompt and returns the completion.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.CompleteWithSystem(ctx, "", prompt)
}

// CompleteWithSystem sends a prompt with a system instruction.
func (c *GeminiClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}
	if strings.TrimSpace(userPrompt) == "" {
		return "", fmt.Errorf("prompt must be a non-empty string")
	}
	if len(userPrompt) > maxPromptChars {
		logging.LLMWarn("prompt is very long (%d chars), truncating", len(userPrompt))
		userPrompt = userPrompt[:maxPromptChars] + "..."
	}

	// Space out calls; the shop monitor can fire queries back to back.
	c.mu.Lock()
	if elapsed := time.Since(c.lastRequest); elapsed < 500*time.Millisecond {
		time.Sleep(500*time.Millisecond - elapsed)
	}
	c.lastRequest = time.Now()
	c.mu.Unlock()

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: userPrompt}}},
		},
	}
	if systemPrompt != "" {
		reqBody.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: systemPrompt}}}
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	requestID := uuid.NewString()[:8]
	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	logging.LLM("[req:%s] sending prompt (%d chars) to %s", requestID, len(userPrompt), c.model)
	timer := logging.StartTimer(logging.CategoryLLM, fmt.Sprintf("[req:%s] generateContent", requestID))
	defer timer.StopWithThreshold(10 * time.Second)

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			// Linear backoff scaled by attempt; rate limits wait double.
			delay := c.retryDelay * time.Duration(attempt)
			if errors429(lastErr) {
				delay *= 2
			}
			logging.LLMWarn("[req:%s] retry %d after error: %v", requestID, attempt, lastErr)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Goog-Api-Key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			continue
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to read response: %w", err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			lastErr = errRateLimited
			continue
		case resp.StatusCode >= 500:
			lastErr = fmt.Errorf("server error %d: %s", resp.StatusCode, truncateBody(body))
			continue
		case resp.StatusCode != http.StatusOK:
			return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, truncateBody(body))
		}

		text, err := extractContent(body)
		if err != nil {
			return "", err
		}
		logging.LLM("[req:%s] received %d chars", requestID, len(text))
		return text, nil
	}

	return "", fmt.Errorf("max retries exceeded: %w", lastErr)
}

// SetModel changes the model used for completions.
func (c *GeminiClient) SetModel(model string) { c.model = model }

// GetModel returns the current model.
func (c *GeminiClient) GetModel() string { return c.model }

var errRateLimited = fmt.Errorf("rate limit exceeded (429)")

func errors429(err error) bool {
	return err == errRateLimited
}

// extractContent tolerates both the parts array and the flat text shape the
// API has returned across versions.
func extractContent(body []byte) (string, error) {
	var gr geminiResponse
	if err := json.Unmarshal(body, &gr); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if gr.Error != nil {
		return "", fmt.Errorf("API error: %s", gr.Error.Message)
	}
	if len(gr.Candidates) == 0 {
		return "", fmt.Errorf("no completion returned")
	}
	content := gr.Candidates[0].Content
	if content.Text != "" {
		return strings.TrimSpace(content.Text), nil
	}
	var b strings.Builder
	for _, part := range content.Parts {
		b.WriteString(part.Text)
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("invalid response format: %s", truncateBody(body))
	}
	return text, nil
}

func truncateBody(body []byte) string {
	const max = 300
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
