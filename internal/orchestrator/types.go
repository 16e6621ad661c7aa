package orchestrator

import (
	"github.com/google/uuid"

	"github.com/nferro/medaudit/internal/audit"
	"github.com/nferro/medaudit/internal/report"
)

// Status is the lifecycle state of an audit run.
type Status string

const (
	StatusPlanning  Status = "planning"
	StatusAuditing  Status = "auditing"
	StatusReporting Status = "reporting"
	StatusDone      Status = "done"
	StatusFailed    Status = "failed"
)

// Stage identifies one phase of the workflow, used for progress reporting.
type Stage int

const (
	StagePlan Stage = iota
	StageDeliberate
	StageReport
)

func (s Stage) String() string {
	names := [...]string{"plan", "deliberate", "report"}
	if int(s) < len(names) {
		return names[s]
	}
	return "unknown"
}

// RunState is the single mutable record threaded through the workflow. It is
// exclusively owned by the currently executing stage: stages receive it from
// the controller and hand it back, never sharing it. Fields are populated
// monotonically in stage order.
type RunState struct {
	// ID uniquely identifies the run.
	ID string

	// UserRequest is the free-text request that triggered the run.
	UserRequest string

	// CombinedInput is the loaded document plus the request.
	CombinedInput string

	// UsedDocument reports whether the optional spec document contributed
	// to CombinedInput.
	UsedDocument bool

	// Standards is the planned audit scope, ordered and duplicate-free.
	// Non-empty before deliberation begins.
	Standards []audit.Standard

	// RequirementsDoc and RiskDoc are the synthesized working documents the
	// reviewers audit.
	RequirementsDoc string
	RiskDoc         string

	// Transcript is the append-only deliberation record.
	Transcript []audit.Turn

	// Report is the compiled result; FinalReport is its rendered form.
	Report      *report.ComplianceReport
	FinalReport string

	Status Status
}

// NewRunState creates a fresh run for one user request.
func NewRunState(userRequest string) *RunState {
	return &RunState{
		ID:          uuid.NewString(),
		UserRequest: userRequest,
		Status:      StatusPlanning,
	}
}

// ProgressEvent is emitted to the session during a run.
type ProgressEvent struct {
	Stage   Stage
	Role    string // role or component the event concerns, if any
	Status  ProgressStatus
	Message string
}

// ProgressStatus is the state of one unit of work within a stage.
type ProgressStatus string

const (
	ProgressWorking  ProgressStatus = "working"
	ProgressComplete ProgressStatus = "complete"
	ProgressDegraded ProgressStatus = "degraded"
	ProgressFailed   ProgressStatus = "failed"
)
