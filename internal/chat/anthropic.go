package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// defaultAnthropicBaseURL is the Anthropic API base URL.
	defaultAnthropicBaseURL = "https://api.anthropic.com"

	messagesPath     = "/v1/messages"
	anthropicVersion = "2023-06-01"

	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes = 8 << 20
)

// AnthropicClient calls the Anthropic Messages API.
type AnthropicClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// AnthropicOption configures an AnthropicClient.
type AnthropicOption func(*AnthropicClient)

// WithBaseURL points the client at a different API host, such as a proxy.
func WithBaseURL(baseURL string) AnthropicOption {
	return func(c *AnthropicClient) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// NewAnthropicClient creates a Messages API client.
func NewAnthropicClient(apiKey string, opts ...AnthropicOption) *AnthropicClient {
	c := &AnthropicClient{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		apiKey:  apiKey,
		baseURL: defaultAnthropicBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// --- Wire types ---

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string         `json:"role"`
	Content []requestBlock `json:"content"`
}

type requestBlock struct {
	Type   string       `json:"type"`
	Source *imageSource `json:"source,omitempty"`
	Text   *string      `json:"text,omitempty"`
}

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// errorResponse is the body the API sends with a non-success status.
type errorResponse struct {
	Type  string `json:"type"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// newMessagesRequest builds a single user message: the image, then the prompt.
func newMessagesRequest(req *Request) *messagesRequest {
	prompt := req.Prompt
	return &messagesRequest{
		Model:     req.Model,
		MaxTokens: MaxOutputTokens,
		Messages: []message{{
			Role: "user",
			Content: []requestBlock{
				{
					Type: "image",
					Source: &imageSource{
						Type:      "base64",
						MediaType: req.MediaType,
						Data:      req.ImageBase64(),
					},
				},
				{Type: "text", Text: &prompt},
			},
		}},
	}
}

// Analyze sends the image and prompt and returns the concatenated text
// content of the response.
func (c *AnthropicClient) Analyze(ctx context.Context, req *Request) (string, error) {
	payload, err := json.Marshal(newMessagesRequest(req))
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+messagesPath, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)
	httpReq.Header.Set("content-type", "application/json")

	log.Debug().
		Str("model", req.Model).
		Str("media_type", req.MediaType).
		Int("image_bytes", len(req.Image)).
		Int("prompt_length", len(req.Prompt)).
		Msg("Sending image to Anthropic API")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", classifyTransportError(err)
	}
	elapsed := time.Since(start)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", classifyStatus(resp.StatusCode, parseErrorDetail(body))
	}

	text, err := extractText(body)
	if err != nil {
		return "", err
	}

	log.Info().
		Str("model", req.Model).
		Int("response_length", len(text)).
		Dur("duration", elapsed).
		Msg("Received response from Anthropic API")

	return text, nil
}

// extractText appends the text of every content element that has a string
// "text" field, in order. Elements without one (tool use, images) are
// skipped. A body without a content array, or one whose array yields no
// text, is a format error.
func extractText(body []byte) (string, error) {
	var envelope struct {
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", &VisionError{Type: ErrTypeResponseFormat, Message: "invalid response format", Err: err}
	}

	var items []json.RawMessage
	if len(envelope.Content) == 0 || json.Unmarshal(envelope.Content, &items) != nil || items == nil {
		return "", &VisionError{Type: ErrTypeResponseFormat, Message: "invalid response format: no content array"}
	}

	var result strings.Builder
	for _, item := range items {
		var block struct {
			Text *string `json:"text"`
		}
		if err := json.Unmarshal(item, &block); err != nil || block.Text == nil {
			continue
		}
		result.WriteString(*block.Text)
	}

	if result.Len() == 0 {
		return "", &VisionError{Type: ErrTypeResponseFormat, Message: "invalid response format: no text content"}
	}
	return result.String(), nil
}

// parseErrorDetail pulls "type: message" out of an API error body.
func parseErrorDetail(body []byte) string {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err != nil || er.Error == nil {
		return ""
	}
	if er.Error.Type == "" {
		return er.Error.Message
	}
	return er.Error.Type + ": " + er.Error.Message
}
