// Package textutil cleans up model output before it reaches the clipboard.
package textutil

import (
	"strings"
)

const fence = "```"

// StripMarkdownFences removes ```lang ... ``` or ``` ... ``` wrapping from text.
// Returns the content between the fences, or the original text if it is not
// wrapped in a fence. Text that merely contains a fenced block in the middle
// of prose is left alone.
func StripMarkdownFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, fence) || !strings.HasSuffix(trimmed, fence) || len(trimmed) < 2*len(fence) {
		return text
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) == 1 {
		// ```x^2``` on a single line
		return strings.TrimSpace(trimmed[len(fence) : len(trimmed)-len(fence)])
	}
	if len(lines) < 3 || strings.TrimSpace(lines[len(lines)-1]) != fence {
		return text
	}

	// Only unwrap a single fenced block.
	inner := lines[1 : len(lines)-1]
	for _, line := range inner {
		if strings.HasPrefix(strings.TrimSpace(line), fence) {
			return text
		}
	}

	return strings.Join(inner, "\n")
}
