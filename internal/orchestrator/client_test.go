package orchestrator

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/nferro/medaudit/internal/llm"
)

// generateCall records the inputs of one fake Generate invocation.
type generateCall struct {
	SystemPrompt string
	History      []llm.Message
	MaxTokens    int
}

// fakeClient is an in-process llm.Client whose behavior is a function of the
// call inputs and the call count. It records every call for assertions.
type fakeClient struct {
	mu      sync.Mutex
	calls   []generateCall
	respond func(call generateCall, n int) (string, error)
}

func (f *fakeClient) Generate(_ context.Context, systemPrompt string, history []llm.Message, maxTokens int) (string, error) {
	f.mu.Lock()
	call := generateCall{SystemPrompt: systemPrompt, History: history, MaxTokens: maxTokens}
	f.calls = append(f.calls, call)
	n := len(f.calls)
	f.mu.Unlock()
	return f.respond(call, n)
}

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// errAlways is the failure injected by always-failing fakes.
var errAlways = &llm.GenerationError{Op: "chat completion", Err: errors.New("connection refused")}

// failingClient always fails.
func failingClient() *fakeClient {
	return &fakeClient{respond: func(generateCall, int) (string, error) {
		return "", errAlways
	}}
}

// routingClient answers based on which persona the system prompt belongs to,
// approximating a cooperative generation service for end-to-end tests.
// moderatorReply is returned for every moderator check.
func routingClient(plannerReply, moderatorReply string) *fakeClient {
	return &fakeClient{respond: func(call generateCall, _ int) (string, error) {
		sys := strings.ToLower(call.SystemPrompt)
		switch {
		case strings.Contains(sys, "regulatory affairs"):
			return plannerReply, nil
		case strings.Contains(sys, "technical writer"):
			return "SRS: functional, performance, security, interface and safety requirements.", nil
		case strings.Contains(sys, "risk management specialist"):
			return "RMF: hazard table with ID, Hazard, Cause, Current Control, Risk Level.", nil
		case strings.Contains(sys, "compliance manager"):
			return moderatorReply, nil
		case strings.Contains(sys, "iec 62304"):
			return "NON-COMPLIANT: unit verification records are missing.", nil
		case strings.Contains(sys, "iso 14971"):
			return "NON-COMPLIANT: no documented risk process for the encryption change.", nil
		case strings.Contains(sys, "iso 13485"):
			return "COMPLIANT: QMS procedures cover the change.", nil
		default:
			return "", errors.New("unexpected system prompt: " + call.SystemPrompt)
		}
	}}
}
