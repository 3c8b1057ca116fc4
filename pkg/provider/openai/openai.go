// Package openai provides a Provider backed by an OpenAI-compatible chat
// completions endpoint.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/switchboardco/switchboard/pkg/chat"
	"github.com/switchboardco/switchboard/pkg/provider"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Config holds client settings for the OpenAI-compatible endpoint.
type Config struct {
	// BaseURL is the API root. Defaults to the public OpenAI endpoint; point
	// it at any compatible server (vLLM, Ollama's OpenAI shim, etc.).
	BaseURL string

	// APIKey is sent as a bearer token when set.
	APIKey string

	// Model is the model name used for completions.
	Model string

	// Temperature and MaxTokens tune generation.
	Temperature float64
	MaxTokens   int

	// SystemPrompt is prepended as the system message when set.
	SystemPrompt string
}

// Client implements provider.Provider over resty.
type Client struct {
	config Config
	http   *resty.Client
}

// New creates an OpenAI-compatible provider client.
func New(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}

	httpClient := resty.New().
		SetBaseURL(config.BaseURL).
		SetHeader("Content-Type", "application/json")
	if config.APIKey != "" {
		httpClient.SetAuthToken(config.APIKey)
	}

	return &Client{
		config: config,
		http:   httpClient,
	}
}

// Name returns the canonical provider name.
func (c *Client) Name() string {
	return "openai"
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete issues one chat completion call. The caller owns the deadline;
// context cancellation and timeouts map to provider.ErrTimeout.
func (c *Client) Complete(ctx context.Context, req provider.Request) (string, error) {
	messages := make([]chatMessage, 0, len(req.Context)+2)

	if c.config.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: c.config.SystemPrompt})
	}

	for _, turn := range req.Context {
		role := "user"
		if turn.Role == chat.RoleBot {
			role = "assistant"
		}
		messages = append(messages, chatMessage{Role: role, Content: turn.Content})
	}

	messages = append(messages, chatMessage{Role: "user", Content: req.Query})

	var parsed chatCompletionResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(chatCompletionRequest{
			Model:       c.config.Model,
			Messages:    messages,
			Temperature: c.config.Temperature,
			MaxTokens:   c.config.MaxTokens,
		}).
		SetResult(&parsed).
		SetError(&parsed).
		Post("/chat/completions")

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", provider.ErrTimeout
		}
		return "", &provider.Error{Provider: c.Name(), Message: err.Error()}
	}

	if resp.StatusCode() == http.StatusTooManyRequests {
		return "", provider.ErrRateLimited
	}

	if resp.IsError() {
		message := resp.Status()
		if parsed.Error != nil {
			message = parsed.Error.Message
		}
		return "", &provider.Error{Provider: c.Name(), Status: resp.StatusCode(), Message: message}
	}

	if len(parsed.Choices) == 0 {
		return "", &provider.Error{Provider: c.Name(), Message: "empty completion response"}
	}

	return parsed.Choices[0].Message.Content, nil
}

var _ provider.Provider = (*Client)(nil)

// String describes the client target for logs.
func (c *Client) String() string {
	return fmt.Sprintf("openai(%s model=%s)", c.config.BaseURL, c.config.Model)
}
