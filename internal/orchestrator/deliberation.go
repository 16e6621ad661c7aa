package orchestrator

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/nferro/medaudit/internal/audit"
	"github.com/nferro/medaudit/internal/llm"
	"github.com/nferro/medaudit/internal/roles"
)

// Deliberation runs the bounded multi-role review conversation. Each round
// every reviewer speaks once in stable standards order, then the moderator
// reads the transcript and either signals completion or directs another
// round. Turns are strictly sequential: each turn's output is part of the
// next turn's input, so there is no parallelism here.
type Deliberation struct {
	client     llm.Client
	reviewers  []roles.Reviewer
	moderator  roles.Moderator
	maxRounds  int
	maxTokens  int
	sentinel   string
	onProgress func(ProgressEvent) // may be nil
}

// NewDeliberation creates a Deliberation over the given reviewers. The
// reviewer slice order is the turn order within each round. maxRounds is a
// hard ceiling that holds regardless of moderator behavior.
func NewDeliberation(client llm.Client, reviewers []roles.Reviewer, moderator roles.Moderator,
	maxRounds, maxTokens int, sentinel string, onProgress func(ProgressEvent)) *Deliberation {
	return &Deliberation{
		client:     client,
		reviewers:  reviewers,
		moderator:  moderator,
		maxRounds:  maxRounds,
		maxTokens:  maxTokens,
		sentinel:   sentinel,
		onProgress: onProgress,
	}
}

// Run executes the deliberation over the two synthesized documents and
// returns the transcript. A single turn whose generation call fails on every
// retry is degraded (reviewers to NEEDS-INFO, the moderator to a continue
// signal) rather than aborting: one unreachable role must not void the audit
// of the others. The returned error is non-nil only on cancellation.
func (d *Deliberation) Run(ctx context.Context, requirementsDoc, riskDoc string) ([]audit.Turn, error) {
	brief := d.brief(requirementsDoc, riskDoc)
	var transcript []audit.Turn

	for round := 0; round < d.maxRounds; round++ {
		for _, reviewer := range d.reviewers {
			if err := ctx.Err(); err != nil {
				return transcript, err
			}
			transcript = append(transcript, d.reviewerTurn(ctx, reviewer, brief, transcript))
		}

		if err := ctx.Err(); err != nil {
			return transcript, err
		}
		turn, complete := d.moderatorTurn(ctx, brief, transcript)
		transcript = append(transcript, turn)
		if complete {
			break
		}
	}

	return transcript, nil
}

// reviewerTurn produces one reviewer utterance with the cumulative transcript
// as context.
func (d *Deliberation) reviewerTurn(ctx context.Context, reviewer roles.Reviewer, brief string, transcript []audit.Turn) audit.Turn {
	d.emit(ProgressEvent{Stage: StageDeliberate, Role: reviewer.Name, Status: ProgressWorking})

	text, err := generateWithRetry(ctx, d.client, reviewer.SystemPrompt, history(brief, transcript), d.maxTokens)
	if err != nil {
		log.Printf("[deliberation] %s turn failed after retry, degrading to NEEDS-INFO: %v", reviewer.Name, err)
		d.emit(ProgressEvent{Stage: StageDeliberate, Role: reviewer.Name, Status: ProgressDegraded, Message: err.Error()})
		return audit.Turn{
			Index:    len(transcript),
			Speaker:  reviewer.Name,
			Standard: reviewer.Standard,
			Content: fmt.Sprintf("NEEDS-INFO: the %s review could not be completed because the generation call failed (%v).",
				reviewer.Standard, err),
			Verdict:  audit.VerdictNeedsInfo,
			Degraded: true,
		}
	}

	d.emit(ProgressEvent{Stage: StageDeliberate, Role: reviewer.Name, Status: ProgressComplete})
	return audit.Turn{
		Index:    len(transcript),
		Speaker:  reviewer.Name,
		Standard: reviewer.Standard,
		Content:  text,
		Verdict:  audit.ParseVerdict(text),
	}
}

// moderatorTurn produces the moderator utterance closing a round and reports
// whether it carried the completion sentinel. A twice-failed moderator call
// degrades to a continue signal; the round ceiling still bounds the loop.
func (d *Deliberation) moderatorTurn(ctx context.Context, brief string, transcript []audit.Turn) (audit.Turn, bool) {
	d.emit(ProgressEvent{Stage: StageDeliberate, Role: d.moderator.Name, Status: ProgressWorking})

	text, err := generateWithRetry(ctx, d.client, d.moderator.SystemPrompt, history(brief, transcript), d.maxTokens)
	if err != nil {
		log.Printf("[deliberation] moderator turn failed after retry, continuing: %v", err)
		d.emit(ProgressEvent{Stage: StageDeliberate, Role: d.moderator.Name, Status: ProgressDegraded, Message: err.Error()})
		return audit.Turn{
			Index:    len(transcript),
			Speaker:  d.moderator.Name,
			Content:  fmt.Sprintf("The moderator check could not be completed (%v); continuing the review.", err),
			Degraded: true,
		}, false
	}

	d.emit(ProgressEvent{Stage: StageDeliberate, Role: d.moderator.Name, Status: ProgressComplete})
	return audit.Turn{
		Index:   len(transcript),
		Speaker: d.moderator.Name,
		Content: text,
	}, strings.Contains(text, d.sentinel)
}

// brief is the opening user message injecting the documents and scope into
// every role's context.
func (d *Deliberation) brief(requirementsDoc, riskDoc string) string {
	names := make([]string, len(d.reviewers))
	for i, r := range d.reviewers {
		names[i] = string(r.Standard)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Conduct a compliance audit for the following standards only: %s.\n\n",
		strings.Join(names, ", "))
	b.WriteString("--- Document: Software Requirements Specification ---\n")
	b.WriteString(requirementsDoc)
	b.WriteString("\n\n--- Document: Risk Management File ---\n")
	b.WriteString(riskDoc)
	b.WriteString("\n\nReviewers, be concise. Review your respective areas and collaborate " +
		"where software changes affect risk.")
	return b.String()
}

// history replays the brief plus every prior turn as labeled user messages so
// each role sees the cumulative conversation.
func history(brief string, transcript []audit.Turn) []llm.Message {
	msgs := make([]llm.Message, 0, len(transcript)+1)
	msgs = append(msgs, llm.Message{Role: llm.RoleUser, Content: brief})
	for _, turn := range transcript {
		msgs = append(msgs, llm.Message{
			Role:    llm.RoleUser,
			Content: fmt.Sprintf("%s: %s", turn.Speaker, turn.Content),
		})
	}
	return msgs
}

func (d *Deliberation) emit(ev ProgressEvent) {
	if d.onProgress != nil {
		d.onProgress(ev)
	}
}
