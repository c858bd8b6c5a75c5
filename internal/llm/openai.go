package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const providerOpenAI = "openai"

// OpenAIConfig configures the chat/completions client.
type OpenAIConfig struct {
	// Endpoint defaults to OpenAI's production API when empty.
	Endpoint string

	APIKey string

	// Model is the default model for requests that don't set one.
	Model string

	// Timeout bounds each HTTP call. Zero means 120s; evaluation prompts
	// are long and slow models are common.
	Timeout time.Duration

	// Headers are extra headers added to every request, for proxies and
	// org routing.
	Headers map[string]string
}

// OpenAIClient implements Client against OpenAI's chat/completions API.
type OpenAIClient struct {
	config OpenAIConfig
	http   *http.Client
}

// NewOpenAIClient creates a chat/completions client with defaults applied.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://api.openai.com/v1"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &OpenAIClient{
		config: cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
	}
}

// Complete sends one chat/completions request and returns the normalized
// response. No retries are performed here.
func (c *OpenAIClient) Complete(ctx context.Context, req *Request) (*Response, error) {
	httpReq, err := c.build(ctx, req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("completion request failed: %w", err)
	}
	defer httpResp.Body.Close()

	resp, err := c.parse(httpResp)
	if err != nil {
		return nil, err
	}
	resp.Latency = time.Since(start)
	return resp, nil
}

func (c *OpenAIClient) build(ctx context.Context, req *Request) (*http.Request, error) {
	model := req.Model
	if model == "" {
		model = c.config.Model
	}

	messages := []map[string]any{}
	if req.SystemPrompt != "" {
		messages = append(messages, map[string]any{
			"role":    "system",
			"content": req.SystemPrompt,
		})
	}
	messages = append(messages, map[string]any{
		"role":    "user",
		"content": req.UserPrompt,
	})

	body := map[string]any{
		"model":       model,
		"messages":    messages,
		"temperature": req.Temperature,
	}
	if req.MaxTokens > 0 {
		body["max_tokens"] = req.MaxTokens
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/chat/completions", c.config.Endpoint)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.config.APIKey))
	if req.IdempotencyKey != "" {
		httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)
	}
	for k, v := range c.config.Headers {
		httpReq.Header.Set(k, v)
	}

	return httpReq, nil
}

func (c *OpenAIClient) parse(httpResp *http.Response) (*Response, error) {
	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, parseOpenAIError(httpResp.StatusCode, body)
	}

	var resp struct {
		ID      string `json:"id"`
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		} `json:"choices"`
		Usage struct {
			PromptTokens     int `json:"prompt_tokens"`
			CompletionTokens int `json:"completion_tokens"`
			TotalTokens      int `json:"total_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, ErrEmptyCompletion
	}

	requestID := httpResp.Header.Get("x-request-id")

	return &Response{
		Content:           resp.Choices[0].Message.Content,
		FinishReason:      resp.Choices[0].FinishReason,
		ProviderRequestID: requestID,
		Usage: Usage{
			PromptTokens:     int64(resp.Usage.PromptTokens),
			CompletionTokens: int64(resp.Usage.CompletionTokens),
			TotalTokens:      int64(resp.Usage.TotalTokens),
		},
	}, nil
}

// parseOpenAIError converts an OpenAI error body to a ProviderError,
// falling back to the raw body when the payload isn't the documented shape.
func parseOpenAIError(statusCode int, body []byte) error {
	var errResp struct {
		Error struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		return &ProviderError{
			Provider:   providerOpenAI,
			StatusCode: statusCode,
			Code:       errResp.Error.Code,
			Message:    errResp.Error.Message,
		}
	}
	return &ProviderError{
		Provider:   providerOpenAI,
		StatusCode: statusCode,
		Message:    string(body),
	}
}
