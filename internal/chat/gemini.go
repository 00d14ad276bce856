package chat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// GeminiClient calls the Gemini API through the genai SDK.
type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient creates a Gemini API client.
func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	return newGeminiClient(ctx, apiKey, "")
}

// newGeminiClient allows tests to point the SDK at a local server.
func newGeminiClient(ctx context.Context, apiKey, baseURL string) (*GeminiClient, error) {
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client}, nil
}

// Analyze sends the image inline, followed by the prompt, and returns the
// text parts of the first candidate concatenated in order.
func (c *GeminiClient) Analyze(ctx context.Context, req *Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{MIMEType: req.MediaType, Data: req.Image}},
			{Text: req.Prompt},
		},
	}}
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(MaxOutputTokens),
	}

	log.Debug().
		Str("model", req.Model).
		Str("media_type", req.MediaType).
		Int("image_bytes", len(req.Image)).
		Msg("Sending image to Gemini API")

	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, req.Model, contents, config)
	elapsed := time.Since(start)
	if err != nil {
		return "", classifyGeminiError(err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		log.Warn().Msg("Received empty response from Gemini")
		return "", &VisionError{Type: ErrTypeResponseFormat, Message: "invalid response format: no content parts"}
	}

	var result strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && !part.Thought {
			result.WriteString(part.Text)
		}
	}

	text := result.String()
	if text == "" {
		log.Warn().Str("model", req.Model).Msg("Gemini response had no text parts")
		return "", &VisionError{Type: ErrTypeResponseFormat, Message: "invalid response format: no text parts"}
	}
	log.Info().
		Str("model", req.Model).
		Int("response_length", len(text)).
		Dur("duration", elapsed).
		Msg("Received response from Gemini API")

	return text, nil
}

// classifyGeminiError maps SDK errors onto VisionError.
func classifyGeminiError(err error) *VisionError {
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return classifyStatus(apiErrPtr.Code, apiErrPtr.Message)
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.Code, apiErr.Message)
	}
	return classifyTransportError(err)
}
