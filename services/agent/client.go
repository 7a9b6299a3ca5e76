package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is an OpenAI-compatible inference endpoint
	DefaultBaseURL = "https://inference.do-ai.run"
	// DefaultTimeout is longer for LLM inference requests
	DefaultTimeout = 120 * time.Second
	// DefaultModel is the default model for inference
	DefaultModel = "openai-gpt-oss-120b"
)

// InferenceClient calls an OpenAI-compatible chat-completion API. It is the
// generative-AI collaborator behind the review planner.
type InferenceClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	model      string
}

// InferenceConfig holds configuration for the inference client
type InferenceConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
	Model   string
}

// NewInferenceClient creates a new inference client
func NewInferenceClient(config InferenceConfig) *InferenceClient {
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}

	return &InferenceClient{
		apiKey:  config.APIKey,
		baseURL: config.BaseURL,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		model: config.Model,
	}
}

// InferenceMessage represents a message in the chat completion request
type InferenceMessage struct {
	Role    string `json:"role"`    // "system", "user", "assistant"
	Content string `json:"content"` // The message content
}

type inferenceRequest struct {
	Model       string             `json:"model"`
	Messages    []InferenceMessage `json:"messages"`
	Temperature float64            `json:"temperature,omitempty"`
	MaxTokens   int                `json:"max_tokens,omitempty"`
}

type inferenceResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends a single-turn chat completion and returns the model's text.
func (c *InferenceClient) Complete(ctx context.Context, system, prompt string) (string, error) {
	messages := []InferenceMessage{}
	if system != "" {
		messages = append(messages, InferenceMessage{Role: "system", Content: system})
	}
	messages = append(messages, InferenceMessage{Role: "user", Content: prompt})

	body, err := json.Marshal(inferenceRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.3,
		MaxTokens:   1024,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("inference API returned %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed inferenceResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("inference API returned no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}
