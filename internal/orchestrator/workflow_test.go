package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nferro/medaudit/internal/audit"
	"github.com/nferro/medaudit/internal/config"
	"github.com/nferro/medaudit/internal/docload"
	"github.com/nferro/medaudit/internal/llm"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.APIKey = "test-key"
	return cfg
}

func drainProgress(w *Workflow) {
	go func() {
		for range w.Progress() {
		}
	}()
}

// Scenario A: document absent, request mentions encryption and a missing risk
// process. The planner scopes at least ISO 14971, both artifacts are
// produced, the loop completes within the round budget, and the report
// carries a NON-COMPLIANT or NEEDS-INFO verdict for ISO 14971.
func TestWorkflow_ScenarioA_RequestOnly(t *testing.T) {
	client := routingClient("ISO 14971, IEC 62304", "Findings recorded. AUDIT_COMPLETE")

	cfg := testConfig()
	cfg.SpecPath = filepath.Join(t.TempDir(), "absent-spec.md")

	w := NewWorkflow(cfg, client)
	defer w.Close()
	drainProgress(w)

	state, err := w.Run(context.Background(), "We use AES-128 encryption and no documented risk process")
	require.NoError(t, err)

	assert.Equal(t, StatusDone, state.Status)
	assert.False(t, state.UsedDocument)
	assert.Contains(t, state.Standards, audit.StandardISO14971)
	assert.NotEmpty(t, state.RequirementsDoc)
	assert.NotEmpty(t, state.RiskDoc)

	// Round budget: at most 4 rounds of (reviewers + moderator).
	assert.LessOrEqual(t, len(state.Transcript), cfg.MaxRounds*(len(state.Standards)+1))

	require.NotNil(t, state.Report)
	var riskVerdict audit.Verdict
	for _, f := range state.Report.Findings {
		if f.Standard == audit.StandardISO14971 {
			riskVerdict = f.Verdict
		}
	}
	assert.Contains(t, []audit.Verdict{audit.VerdictNonCompliant, audit.VerdictNeedsInfo}, riskVerdict)
	assert.NotEmpty(t, state.FinalReport)
}

// Scenario B: document present and well-formed, all three standards
// triggered. The report has exactly three per-standard entries.
func TestWorkflow_ScenarioB_FullScope(t *testing.T) {
	dir := t.TempDir()
	specPath := filepath.Join(dir, "device-spec.md")
	require.NoError(t, os.WriteFile(specPath,
		[]byte("# Infusion Pump\nSoftware lifecycle, risk controls, quality management."), 0o644))

	client := routingClient("IEC 62304, ISO 14971, ISO 13485", "All reviewed. AUDIT_COMPLETE")

	cfg := testConfig()
	cfg.SpecPath = specPath

	w := NewWorkflow(cfg, client)
	defer w.Close()
	drainProgress(w)

	state, err := w.Run(context.Background(), "migrate the pump firmware to a new RTOS")
	require.NoError(t, err)

	assert.Equal(t, StatusDone, state.Status)
	assert.True(t, state.UsedDocument)
	assert.Contains(t, state.CombinedInput, "Infusion Pump")

	require.NotNil(t, state.Report)
	require.Len(t, state.Report.Findings, 3)
	seen := map[audit.Standard]bool{}
	for _, f := range state.Report.Findings {
		seen[f.Standard] = true
		assert.NotEmpty(t, f.Verdict)
	}
	assert.Len(t, seen, 3, "one entry per standard, none missing")
}

// Scenario C: the generation client always fails. Artifact synthesis cannot
// succeed, so the run terminates with StatusFailed and a GenerationError.
func TestWorkflow_ScenarioC_ClientAlwaysFails(t *testing.T) {
	client := failingClient()

	w := NewWorkflow(testConfig(), client)
	defer w.Close()
	drainProgress(w)

	state, err := w.Run(context.Background(), "any request")
	require.Error(t, err)
	assert.Equal(t, StatusFailed, state.Status)
	assert.True(t, llm.IsGenerationError(err))

	// Planning failed open before synthesis failed the run.
	assert.Equal(t, audit.AllStandards(), state.Standards)
}

func TestWorkflow_NoUsableInputIsFatal(t *testing.T) {
	client := routingClient("ISO 14971", "AUDIT_COMPLETE")

	w := NewWorkflow(testConfig(), client)
	defer w.Close()
	drainProgress(w)

	state, err := w.Run(context.Background(), "   ")
	require.ErrorIs(t, err, docload.ErrNoInput)
	assert.Equal(t, StatusFailed, state.Status)
	assert.Equal(t, 0, client.callCount(), "no generation spend on empty input")
}

func TestWorkflow_FreshRunStatePerInvocation(t *testing.T) {
	client := routingClient("ISO 14971", "AUDIT_COMPLETE")

	w := NewWorkflow(testConfig(), client)
	defer w.Close()
	drainProgress(w)

	first, err := w.Run(context.Background(), "request one")
	require.NoError(t, err)
	second, err := w.Run(context.Background(), "request two")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "request one", first.UserRequest)
	assert.Equal(t, "request two", second.UserRequest)
}

func TestWorkflow_CancellationAtStageBoundary(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := routingClient("ISO 14971", "AUDIT_COMPLETE")
	w := NewWorkflow(testConfig(), client)
	defer w.Close()
	drainProgress(w)

	state, err := w.Run(ctx, "cancel me")
	require.Error(t, err)
	assert.Equal(t, StatusFailed, state.Status)
}

func TestWorkflow_StatusProgression(t *testing.T) {
	client := routingClient("IEC 62304", "AUDIT_COMPLETE")

	w := NewWorkflow(testConfig(), client)
	defer w.Close()
	drainProgress(w)

	state, err := w.Run(context.Background(), "lifecycle documentation update")
	require.NoError(t, err)

	assert.Equal(t, StatusDone, state.Status)
	assert.NotEmpty(t, state.CombinedInput)
	assert.NotEmpty(t, state.Standards)
	assert.NotEmpty(t, state.RequirementsDoc)
	assert.NotEmpty(t, state.RiskDoc)
	assert.NotEmpty(t, state.Transcript)
	assert.NotEmpty(t, state.FinalReport)
}
