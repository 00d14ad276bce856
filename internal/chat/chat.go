// Package chat sends an image and a prompt to a vision-capable model and
// returns the text it produces.
//
// Two backends implement Analyzer:
//   - AnthropicClient talks to the Messages API directly over HTTP.
//   - GeminiClient uses the google.golang.org/genai SDK.
//
// Both make exactly one request per call, bounded by a 30 second timeout,
// and report failures as *VisionError.
package chat

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/fpang/latex-ocr/internal/config"
)

// defaultTimeout bounds a single API call, including reading the response.
const defaultTimeout = 30 * time.Second

// Request is one image plus prompt addressed to a model.
type Request struct {
	Model     string
	Prompt    string
	MediaType string
	Image     []byte
}

// ImageBase64 returns the image bytes in standard base64.
func (r *Request) ImageBase64() string {
	return base64.StdEncoding.EncodeToString(r.Image)
}

// Analyzer turns an image and a prompt into text.
type Analyzer interface {
	Analyze(ctx context.Context, req *Request) (string, error)
}

// NewAnalyzer returns the backend for provider (one of the config.Provider
// constants), authenticated with apiKey.
func NewAnalyzer(ctx context.Context, provider, apiKey string) (Analyzer, error) {
	switch provider {
	case config.ProviderAnthropic, "":
		return NewAnthropicClient(apiKey), nil
	case config.ProviderGemini:
		return NewGeminiClient(ctx, apiKey)
	default:
		return nil, fmt.Errorf("unknown provider %q", provider)
	}
}
