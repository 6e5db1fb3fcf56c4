package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"resume-builder/internal/llm"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Client implements llm.Client using OpenAI Chat Completions.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a new OpenAI client. A zero timeout disables the client-side deadline;
// the request context still applies.
func NewClient(apiKey, baseURL string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *chatUsage `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Complete sends one chat completion and returns the first choice's content unmodified.
func (c *Client) Complete(ctx context.Context, in llm.Request) (string, error) {
	start := time.Now()
	content, err := c.complete(ctx, in)
	metrics.ObserveGatewayDurationMs(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.IncGatewayFailure()
		return "", err
	}
	return content, nil
}

func (c *Client) complete(ctx context.Context, in llm.Request) (string, error) {
	if strings.TrimSpace(in.Model) == "" {
		return "", fmt.Errorf("%w: model is required", llm.ErrGateway)
	}
	reqBody := chatRequest{
		Model:    in.Model,
		Messages: make([]chatMessage, 0, len(in.Messages)),
	}
	for _, m := range in.Messages {
		reqBody.Messages = append(reqBody.Messages, chatMessage{Role: string(m.Role), Content: m.Content})
	}
	if in.JSONMode {
		reqBody.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", llm.ErrGateway, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %v", llm.ErrGateway, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", fmt.Errorf("%w: openai request timeout: %w", llm.ErrGateway, err)
		}
		return "", fmt.Errorf("%w: %w", llm.ErrGateway, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", llm.ErrGateway, err)
	}

	var parsed chatResponse
	decodeErr := json.Unmarshal(body, &parsed)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil && parsed.Error != nil && parsed.Error.Message != "" {
			return "", fmt.Errorf("%w: openai status %d: %s", llm.ErrGateway, resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("%w: openai status %d", llm.ErrGateway, resp.StatusCode)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("%w: openai response parse: %v", llm.ErrGateway, decodeErr)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("%w: openai error: %s (%s)", llm.ErrGateway, parsed.Error.Message, parsed.Error.Type)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: openai response missing choices", llm.ErrGateway)
	}

	content := parsed.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: openai response empty content", llm.ErrGateway)
	}
	logUsage(parsed.Model, in.JSONMode, parsed.Usage)
	return content, nil
}

func logUsage(model string, jsonMode bool, usage *chatUsage) {
	fields := map[string]any{
		"model":     model,
		"json_mode": jsonMode,
	}
	if usage != nil {
		fields["prompt_tokens"] = usage.PromptTokens
		fields["completion_tokens"] = usage.CompletionTokens
		fields["total_tokens"] = usage.TotalTokens
	}
	telemetry.Debug("llm.response", fields)
}

var _ llm.Client = (*Client)(nil)
