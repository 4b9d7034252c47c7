// Package gemini implements the LLM scoring pipeline on top of the Gemini
// API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	scorererrors "resume-scorer/internal/errors"
)

const defaultModel = "gemini-2.0-flash-lite"

// Client wraps the Google GenAI client for prompt-in, JSON-out interactions.
type Client struct {
	client    *genai.Client
	modelName string
}

func New(ctx context.Context, apiKey, model string) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Client{client: client, modelName: model}, nil
}

// GenerateContent sends the prompt and returns the model's textual response.
// The model is asked for JSON output; parsing is the caller's concern.
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(prompt), cfg)
	if err != nil {
		return "", triageError(err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: gemini returned an empty response", scorererrors.ErrProviderResponse)
	}

	return text, nil
}

func (c *Client) Model() string {
	return c.modelName
}

// triageError sorts remote failures into retryable provider outages and
// permanent configuration problems.
func triageError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: gemini request timed out", scorererrors.ErrProviderUnavailable)
	}

	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.Unauthenticated, codes.PermissionDenied:
			return fmt.Errorf("gemini authentication failed: %w", scorererrors.ErrPermanentFailure)
		case codes.InvalidArgument:
			return fmt.Errorf("gemini rejected the request: %w", scorererrors.ErrPermanentFailure)
		case codes.ResourceExhausted, codes.Unavailable, codes.DeadlineExceeded, codes.Aborted:
			return fmt.Errorf("%w: %v", scorererrors.ErrProviderUnavailable, err)
		}
	}

	return fmt.Errorf("%w: %v", scorererrors.ErrProviderUnavailable, err)
}
