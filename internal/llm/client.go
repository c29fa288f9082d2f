package llm

import (
	"context"
	"fmt"
)

type Message struct {
	Role    string
	Content string
}

type Response struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

type Client interface {
	Generate(ctx context.Context, messages []Message) (Response, error)
}

// APIError captures a completion-endpoint failure (rate limit, auth,
// malformed response). Callers distinguish it from transport or storage
// errors with errors.As.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("completion endpoint error: %s", e.Body)
	}
	return fmt.Sprintf("completion endpoint returned status %d: %s", e.StatusCode, e.Body)
}
