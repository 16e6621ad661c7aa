package orchestrator

import (
	"log"

	"context"

	"github.com/nferro/medaudit/internal/audit"
	"github.com/nferro/medaudit/internal/llm"
)

const plannerSystemPrompt = `You are a regulatory affairs expert for medical device software.
Analyze the submitted change and list which of these standards are impacted
and need re-auditing: IEC 62304 (software lifecycle), ISO 14971 (risk
management), ISO 13485 (quality management).
Return ONLY a comma-separated list of standards, e.g. "IEC 62304, ISO 14971".`

// Planner decides the subset of supported standards an input impacts.
type Planner struct {
	client    llm.Client
	maxTokens int
}

// NewPlanner creates a Planner backed by client.
func NewPlanner(client llm.Client, maxTokens int) *Planner {
	return &Planner{client: client, maxTokens: maxTokens}
}

// Plan asks the generation service which standards apply to combinedInput.
// The policy is fail-open: a failed call or an unparseable answer yields the
// full default set, so over-auditing replaces silently auditing nothing.
// Plan is idempotent for identical input and never returns an empty set.
func (p *Planner) Plan(ctx context.Context, combinedInput string) []audit.Standard {
	history := []llm.Message{{Role: llm.RoleUser, Content: combinedInput}}

	text, err := generateWithRetry(ctx, p.client, plannerSystemPrompt, history, p.maxTokens)
	if err != nil {
		log.Printf("[planner] generation failed, falling back to full standards set: %v", err)
		return audit.AllStandards()
	}

	standards := audit.ParseStandards(text)
	if len(standards) == 0 {
		log.Printf("[planner] no standards recognized in %q, falling back to full standards set", text)
		return audit.AllStandards()
	}
	return standards
}
