package diagnosis

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ProviderError is a hard provider failure: transport worked but the
// provider answered with a non-success status.
type ProviderError struct {
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("API Error %d: %s", e.StatusCode, e.Body)
}

// chatShape mirrors the chat-completion response structure far enough to
// reach choices[0].message.content.
type chatShape struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Interpret extracts a single textual answer from a provider response.
// Non-2xx statuses are the only hard failure. On success the shape probes run
// in fixed priority order and the first hit wins; an unrecognized shape
// degrades to a re-serialized dump of the whole body rather than failing.
func Interpret(statusCode int, body []byte) (string, error) {
	if statusCode < 200 || statusCode >= 300 {
		return "", &ProviderError{StatusCode: statusCode, Body: string(body)}
	}

	// (a) chat-completion shape
	var chat chatShape
	if err := json.Unmarshal(body, &chat); err == nil && len(chat.Choices) > 0 && chat.Choices[0].Message.Content != "" {
		return chat.Choices[0].Message.Content, nil
	}

	var generic any
	if err := json.Unmarshal(body, &generic); err != nil {
		// Not JSON at all; the raw text is the best available answer.
		return strings.TrimSpace(string(body)), nil
	}

	// (b) whole body is a bare string
	if s, ok := generic.(string); ok {
		return s, nil
	}

	// (c) well-known single-field shapes, in priority order
	if obj, ok := generic.(map[string]any); ok {
		for _, key := range []string{"output", "text", "response", "message"} {
			if v, ok := obj[key].(string); ok && v != "" {
				return v, nil
			}
		}
	}

	// Last resort: dump the body back as readable JSON.
	dump, err := json.MarshalIndent(generic, "", "  ")
	if err != nil {
		return strings.TrimSpace(string(body)), nil
	}
	return string(dump), nil
}
