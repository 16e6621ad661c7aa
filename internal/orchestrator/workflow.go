package orchestrator

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/nferro/medaudit/internal/config"
	"github.com/nferro/medaudit/internal/docload"
	"github.com/nferro/medaudit/internal/llm"
	"github.com/nferro/medaudit/internal/report"
	"github.com/nferro/medaudit/internal/roles"
)

// Workflow sequences the three audit stages (plan, deliberate, report) over a
// RunState and owns the shared progress reporter. It is re-entrant per
// invocation: every Run starts a fresh RunState, and nothing survives across
// runs except the generation client and the immutable config.
type Workflow struct {
	cfg      config.Config
	client   llm.Client
	progress *ProgressReporter
}

// NewWorkflow creates a Workflow backed by client and configured by cfg.
func NewWorkflow(cfg config.Config, client llm.Client) *Workflow {
	return &Workflow{
		cfg:      cfg,
		client:   client,
		progress: NewProgressReporter(),
	}
}

// Progress returns a channel that emits progress events across runs.
func (w *Workflow) Progress() <-chan ProgressEvent {
	return w.progress.Subscribe()
}

// Close shuts down the progress reporter. Callers should invoke this when the
// workflow is no longer needed.
func (w *Workflow) Close() {
	w.progress.Close()
}

// Run executes one audit for userRequest. The returned RunState always
// reflects how far the run got; on error its Status is StatusFailed and the
// error carries the underlying cause. Cancellation is honored at stage
// boundaries and at every deliberation turn.
func (w *Workflow) Run(ctx context.Context, userRequest string) (*RunState, error) {
	state := NewRunState(userRequest)

	if err := w.runPlanning(ctx, state); err != nil {
		return w.fail(state, err)
	}

	state.Status = StatusAuditing
	if err := ctx.Err(); err != nil {
		return w.fail(state, err)
	}
	if err := w.runAuditing(ctx, state); err != nil {
		return w.fail(state, err)
	}

	state.Status = StatusReporting
	if err := ctx.Err(); err != nil {
		return w.fail(state, err)
	}
	w.runReporting(state)

	state.Status = StatusDone
	return state, nil
}

// runPlanning loads the input corpus and plans the audit scope.
func (w *Workflow) runPlanning(ctx context.Context, state *RunState) error {
	w.progress.Emit(ProgressEvent{Stage: StagePlan, Status: ProgressWorking})

	loaded, err := docload.Load(state.UserRequest, w.cfg.SpecPath)
	if err != nil {
		return fmt.Errorf("workflow: load input: %w", err)
	}
	state.CombinedInput = loaded.Combined
	state.UsedDocument = loaded.UsedDocument
	if !loaded.UsedDocument && w.cfg.SpecPath != "" {
		w.progress.Emit(ProgressEvent{
			Stage:   StagePlan,
			Status:  ProgressDegraded,
			Message: fmt.Sprintf("document %s unavailable, auditing the request alone", w.cfg.SpecPath),
		})
	}

	planner := NewPlanner(w.client, w.cfg.MaxOutputTokens)
	state.Standards = planner.Plan(ctx, state.CombinedInput)
	log.Printf("[workflow] run %s: standards in scope: %v", state.ID, state.Standards)

	w.progress.Emit(ProgressEvent{Stage: StagePlan, Status: ProgressComplete})
	return nil
}

// runAuditing synthesizes the working documents and runs the deliberation.
func (w *Workflow) runAuditing(ctx context.Context, state *RunState) error {
	synth := NewSynthesizer(w.client, w.cfg.MaxOutputTokens)
	requirementsDoc, riskDoc, err := synth.Synthesize(ctx, state.CombinedInput, state.Standards)
	if err != nil {
		return fmt.Errorf("workflow: %w", err)
	}
	state.RequirementsDoc = requirementsDoc
	state.RiskDoc = riskDoc

	reviewers, err := roles.ReviewersFor(state.Standards)
	if err != nil {
		return fmt.Errorf("workflow: %w", err)
	}

	deliberation := NewDeliberation(w.client, reviewers, roles.NewModerator(w.cfg.Sentinel),
		w.cfg.MaxRounds, w.cfg.MaxOutputTokens, w.cfg.Sentinel, w.progress.Emit)
	transcript, err := deliberation.Run(ctx, requirementsDoc, riskDoc)
	state.Transcript = transcript
	if err != nil {
		return fmt.Errorf("workflow: deliberation: %w", err)
	}
	return nil
}

// runReporting compiles and renders the final report. It cannot fail on a
// well-formed transcript; missing reviewer turns degrade inside the compiler.
func (w *Workflow) runReporting(state *RunState) {
	w.progress.Emit(ProgressEvent{Stage: StageReport, Status: ProgressWorking})
	state.Report = report.Compile(state.Transcript, state.Standards)
	state.FinalReport = state.Report.Render(state.UserRequest, time.Now())
	w.progress.Emit(ProgressEvent{Stage: StageReport, Status: ProgressComplete})
}

// fail marks the run failed and surfaces the cause.
func (w *Workflow) fail(state *RunState, err error) (*RunState, error) {
	state.Status = StatusFailed
	w.progress.Emit(ProgressEvent{Status: ProgressFailed, Message: err.Error()})
	log.Printf("[workflow] run %s failed: %v", state.ID, err)
	return state, err
}
