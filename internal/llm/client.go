package llm

import (
	"context"
	"errors"
	"fmt"
)

// Role tags a conversation message with its author kind.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of conversation history handed to the generation
// service.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Client is the single capability the orchestrator requires of a text
// generation service: one synchronous prompt-in, text-out round trip with a
// bounded output length. Implementations carry no retry logic; retry policy
// belongs to callers.
type Client interface {
	Generate(ctx context.Context, systemPrompt string, history []Message, maxTokens int) (string, error)
}

// ErrEmptyResponse marks a generation call that succeeded at the transport
// level but returned no usable text.
var ErrEmptyResponse = errors.New("llm: empty response")

// GenerationError wraps any failure of a generation call: transport, auth,
// rate limiting, timeout, or malformed/empty content.
type GenerationError struct {
	// Op describes the failed operation, e.g. "chat completion".
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("llm: %s: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// IsGenerationError reports whether err is (or wraps) a GenerationError.
func IsGenerationError(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge)
}
