package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressReporter_EmitAndSubscribe(t *testing.T) {
	pr := NewProgressReporter()
	pr.Emit(ProgressEvent{Stage: StagePlan, Status: ProgressWorking})
	pr.Emit(ProgressEvent{Stage: StagePlan, Status: ProgressComplete})
	pr.Close()

	var got []ProgressEvent
	for ev := range pr.Subscribe() {
		got = append(got, ev)
	}
	require.Len(t, got, 2)
	assert.Equal(t, ProgressWorking, got[0].Status)
	assert.Equal(t, ProgressComplete, got[1].Status)
}

func TestProgressReporter_DropsWhenFull(t *testing.T) {
	pr := NewProgressReporter()
	for i := 0; i < 200; i++ {
		pr.Emit(ProgressEvent{Stage: StageDeliberate, Status: ProgressWorking})
	}
	pr.Close()

	count := 0
	for range pr.Subscribe() {
		count++
	}
	assert.Equal(t, 64, count, "overflow events are dropped, not blocking")
}

func TestFormatProgress(t *testing.T) {
	assert.Contains(t, FormatProgress(ProgressEvent{
		Stage: StageDeliberate, Role: "ISO14971-Auditor", Status: ProgressWorking,
	}), "deliberate/ISO14971-Auditor")

	assert.Contains(t, FormatProgress(ProgressEvent{
		Stage: StagePlan, Status: ProgressDegraded, Message: "document missing",
	}), "document missing")

	assert.Contains(t, FormatProgress(ProgressEvent{
		Stage: StageReport, Status: ProgressFailed, Message: "boom",
	}), "failed")
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "plan", StagePlan.String())
	assert.Equal(t, "deliberate", StageDeliberate.String())
	assert.Equal(t, "report", StageReport.String())
	assert.Equal(t, "unknown", Stage(9).String())
}
