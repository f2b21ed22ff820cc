package openrouter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/eduardolat/openroutergo"
)

const systemMessage = "You are an expert career consultant and professional CV writer. " +
	"You turn raw candidate details into clear, well-structured CVs in markdown."

// ErrNoAPIKey is returned when a request is attempted without a key.
var ErrNoAPIKey = errors.New("openrouter: no API key")

// Client generates text through OpenRouter
type Client struct {
	apiKey string
	model  string
}

// NewClient creates a new OpenRouter client
func NewClient(apiKey, model string) *Client {
	return &Client{
		apiKey: apiKey,
		model:  model,
	}
}

// WithAPIKey returns a copy of the client using apiKey
func (c *Client) WithAPIKey(apiKey string) *Client {
	return &Client{apiKey: apiKey, model: c.model}
}

// Model returns the model name requests are sent to
func (c *Client) Model() string {
	return c.model
}

// Generate sends prompt as a single user message and returns the reply
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client, err := openroutergo.
		NewClient().
		WithAPIKey(c.apiKey).
		Create()
	if err != nil {
		return "", fmt.Errorf("creating openrouter client: %w", err)
	}

	_, resp, err := client.
		NewChatCompletion().
		WithModel(c.model).
		WithSystemMessage(systemMessage).
		WithUserMessage(prompt).
		Execute()
	if err != nil {
		return "", fmt.Errorf("executing completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices received from API")
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("empty completion from model %s", c.model)
	}
	return content, nil
}
