package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/nferro/medaudit/internal/audit"
	"github.com/nferro/medaudit/internal/llm"
)

const requirementsSystemPrompt = `You are a technical writer for medical device software.
Generate a Software Requirements Specification (SRS) document for the
submitted change. Include sections: Functional Requirements, Performance
Requirements, Security Requirements, Interface Requirements, and Safety
Requirements with IEC 62304 traceability.`

const riskSystemPrompt = `You are a risk management specialist for medical device software.
Generate a Risk Management File (RMF) document for the submitted change
following ISO 14971. Include a table with columns: ID, Hazard, Cause,
Current Control, Risk Level. Identify potential hazards related to the
proposed change.`

// Synthesizer produces the two working documents the reviewers audit.
type Synthesizer struct {
	client    llm.Client
	maxTokens int
}

// NewSynthesizer creates a Synthesizer backed by client.
func NewSynthesizer(client llm.Client, maxTokens int) *Synthesizer {
	return &Synthesizer{client: client, maxTokens: maxTokens}
}

// Synthesize generates the requirements and risk documents concurrently; the
// two calls have no data dependency. Each call gets one retry with identical
// inputs; an exhausted retry fails the synthesis, and with it the run, since
// no meaningful audit is possible without the artifacts.
func (s *Synthesizer) Synthesize(ctx context.Context, combinedInput string, standards []audit.Standard) (requirementsDoc, riskDoc string, err error) {
	prompt := synthesisPrompt(combinedInput, standards)
	history := []llm.Message{{Role: llm.RoleUser, Content: prompt}}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		text, err := generateWithRetry(gctx, s.client, requirementsSystemPrompt, history, s.maxTokens)
		if err != nil {
			return fmt.Errorf("synthesize requirements document: %w", err)
		}
		requirementsDoc = text
		return nil
	})

	g.Go(func() error {
		text, err := generateWithRetry(gctx, s.client, riskSystemPrompt, history, s.maxTokens)
		if err != nil {
			return fmt.Errorf("synthesize risk document: %w", err)
		}
		riskDoc = text
		return nil
	})

	if err := g.Wait(); err != nil {
		return "", "", err
	}
	return requirementsDoc, riskDoc, nil
}

// synthesisPrompt names the planned standards so the generated documents
// self-reference the applicable clauses.
func synthesisPrompt(combinedInput string, standards []audit.Standard) string {
	names := make([]string, len(standards))
	for i, std := range standards {
		names[i] = string(std)
	}
	return fmt.Sprintf("Standards in scope: %s.\n\n%s", strings.Join(names, ", "), combinedInput)
}
