// Package roles defines the fixed table of audit personas: one reviewer per
// supported standard plus the moderator that decides when deliberation has
// converged. The table is static so the set of roles stays exhaustively
// testable; extending the audit to a new standard means adding an
// audit.Standard constant and a reviewer entry here.
package roles

import (
	"fmt"

	"github.com/nferro/medaudit/internal/audit"
)

// Reviewer is an agent persona bound 1:1 to a standard. Reviewers are
// stateless across invocations; conversation history lives in the transcript.
type Reviewer struct {
	Standard     audit.Standard
	Name         string
	SystemPrompt string
}

// Moderator is the singleton persona that reads the transcript and decides
// whether the audit is complete. It is not bound to any standard.
type Moderator struct {
	Name         string
	SystemPrompt string
}

const iec62304Prompt = `You are an expert IEC 62304 medical device software auditor.
Review the provided documentation against standard clauses 5-9.
Identify gaps where the documents do not meet the standard and verify that
traceability exists between requirements and risks.
State exactly one verdict token: COMPLIANT, NON-COMPLIANT, or NEEDS-INFO,
followed by your rationale. Be concise.`

const iso14971Prompt = `You are an expert ISO 14971 risk management auditor.
Review the provided risk management file and verify that features identified
in the documentation have corresponding risk assessments and that mitigations
are verified.
State exactly one verdict token: COMPLIANT, NON-COMPLIANT, or NEEDS-INFO,
followed by your rationale. Be concise.`

const iso13485Prompt = `You are an expert ISO 13485 quality management system auditor.
Review the documentation for compliance with QMS requirements in clauses 4-8
and verify that proper procedures are followed for medical device development.
State exactly one verdict token: COMPLIANT, NON-COMPLIANT, or NEEDS-INFO,
followed by your rationale. Be concise.`

// moderatorPromptFmt takes the completion sentinel as its argument.
const moderatorPromptFmt = `You are a compliance manager overseeing a multi-standard audit.
Read the reviewers' findings so far. If every standard in scope has been
reviewed with a clear verdict and rationale, summarize the findings and end
your message with the exact token %s. Otherwise, name what is still missing
and direct the reviewers to address it in the next round.`

// reviewerTable is the closed Standard → Reviewer mapping.
var reviewerTable = map[audit.Standard]Reviewer{
	audit.StandardIEC62304: {
		Standard:     audit.StandardIEC62304,
		Name:         "IEC62304-Auditor",
		SystemPrompt: iec62304Prompt,
	},
	audit.StandardISO14971: {
		Standard:     audit.StandardISO14971,
		Name:         "ISO14971-Auditor",
		SystemPrompt: iso14971Prompt,
	},
	audit.StandardISO13485: {
		Standard:     audit.StandardISO13485,
		Name:         "ISO13485-Auditor",
		SystemPrompt: iso13485Prompt,
	},
}

// ReviewerFor returns the reviewer persona bound to the given standard.
func ReviewerFor(standard audit.Standard) (Reviewer, error) {
	r, ok := reviewerTable[standard]
	if !ok {
		return Reviewer{}, fmt.Errorf("roles: no reviewer registered for standard %q", standard)
	}
	return r, nil
}

// ReviewersFor returns one reviewer per standard, preserving the input order.
// The order is the deliberation turn order within a round.
func ReviewersFor(standards []audit.Standard) ([]Reviewer, error) {
	reviewers := make([]Reviewer, 0, len(standards))
	for _, s := range standards {
		r, err := ReviewerFor(s)
		if err != nil {
			return nil, err
		}
		reviewers = append(reviewers, r)
	}
	return reviewers, nil
}

// NewModerator returns the moderator persona instructed to emit sentinel when
// the audit has converged.
func NewModerator(sentinel string) Moderator {
	return Moderator{
		Name:         "Compliance-Manager",
		SystemPrompt: fmt.Sprintf(moderatorPromptFmt, sentinel),
	}
}
