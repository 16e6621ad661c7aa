package orchestrator

import (
	"context"
	"strings"

	"github.com/nferro/medaudit/internal/llm"
)

// generateWithRetry performs one generation call and, on failure, exactly one
// retry with identical inputs. Blank output counts as a failure. A canceled
// context is never retried. The transient-failure budget is deliberately this
// small: anything beyond one retry is the caller's degradation policy, not
// the transport's.
func generateWithRetry(ctx context.Context, client llm.Client, systemPrompt string, history []llm.Message, maxTokens int) (string, error) {
	text, err := generateOnce(ctx, client, systemPrompt, history, maxTokens)
	if err == nil {
		return text, nil
	}
	if ctx.Err() != nil {
		return "", err
	}
	return generateOnce(ctx, client, systemPrompt, history, maxTokens)
}

// generateOnce wraps a single call, normalizing blank output into a
// GenerationError so every caller sees one failure shape.
func generateOnce(ctx context.Context, client llm.Client, systemPrompt string, history []llm.Message, maxTokens int) (string, error) {
	text, err := client.Generate(ctx, systemPrompt, history, maxTokens)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", &llm.GenerationError{Op: "generate", Err: llm.ErrEmptyResponse}
	}
	return text, nil
}
