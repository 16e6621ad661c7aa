package mcptools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nferro/medaudit/internal/config"
	"github.com/nferro/medaudit/internal/llm"
	"github.com/nferro/medaudit/internal/orchestrator"
)

// AuditService holds the configuration and generation client used by the MCP
// tool handlers. Each tool call runs an independent workflow.
type AuditService struct {
	cfg    config.Config
	client llm.Client
}

// NewAuditService creates an AuditService backed by client.
func NewAuditService(cfg config.Config, client llm.Client) *AuditService {
	return &AuditService{cfg: cfg, client: client}
}

// RunAudit executes the full compliance workflow for the given request and
// returns the compiled findings plus the rendered report.
func (s *AuditService) RunAudit(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RunAuditInput,
) (*mcp.CallToolResult, RunAuditOutput, error) {
	if strings.TrimSpace(input.Request) == "" && input.SpecPath == "" {
		return nil, RunAuditOutput{}, fmt.Errorf("request is required")
	}

	cfg := s.cfg
	if input.SpecPath != "" {
		cfg.SpecPath = input.SpecPath
	}

	w := orchestrator.NewWorkflow(cfg, s.client)
	defer w.Close()
	go func() {
		for range w.Progress() {
		}
	}()

	state, err := w.Run(ctx, input.Request)
	if err != nil {
		return nil, RunAuditOutput{}, fmt.Errorf("audit run %s: %w", state.ID, err)
	}

	out := RunAuditOutput{
		RunID:   state.ID,
		Status:  string(state.Status),
		Summary: state.Report.Summary,
		Report:  state.Report.Render(state.UserRequest, time.Now()),
	}
	for _, std := range state.Standards {
		out.Standards = append(out.Standards, string(std))
	}
	for _, f := range state.Report.Findings {
		out.Findings = append(out.Findings, StandardFinding{
			Standard: string(f.Standard),
			Verdict:  string(f.Verdict),
			Notes:    f.Notes,
		})
	}
	return nil, out, nil
}

// PlanStandards runs only the planning stage: which standards does the given
// text impact. Planning is fail-open, so the result is never empty.
func (s *AuditService) PlanStandards(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PlanStandardsInput,
) (*mcp.CallToolResult, PlanStandardsOutput, error) {
	if strings.TrimSpace(input.Text) == "" {
		return nil, PlanStandardsOutput{}, fmt.Errorf("text is required")
	}

	planner := orchestrator.NewPlanner(s.client, s.cfg.MaxOutputTokens)
	standards := planner.Plan(ctx, input.Text)

	out := PlanStandardsOutput{}
	for _, std := range standards {
		out.Standards = append(out.Standards, string(std))
	}
	return nil, out, nil
}
