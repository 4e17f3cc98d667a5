package llm

import (
	"context"
	"strings"
)

// TextGenerator is an interface for generating text from a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}

// StripMarkdownFences removes a leading ```json (or bare ```) fence and the
// trailing ``` that models tend to wrap JSON payloads in.
func StripMarkdownFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
