package mcptools

// --- MCP Tool Input/Output Types ---
// These structs define the JSON schema for each MCP tool.
// The MCP Go SDK auto-generates JSON schemas from struct tags.

// RunAuditInput is the input for the run_audit MCP tool.
type RunAuditInput struct {
	Request  string `json:"request" jsonschema:"the free-text compliance request describing the change to audit"`
	SpecPath string `json:"specPath,omitempty" jsonschema:"optional path to a technical specification document to audit alongside the request"`
}

// StandardFinding is one standard's outcome in the run_audit result.
type StandardFinding struct {
	Standard string `json:"standard"`
	Verdict  string `json:"verdict"`
	Notes    string `json:"notes,omitempty"`
}

// RunAuditOutput is the result of the run_audit MCP tool.
type RunAuditOutput struct {
	RunID     string            `json:"runId"`
	Status    string            `json:"status"`
	Standards []string          `json:"standards"`
	Findings  []StandardFinding `json:"findings"`
	Summary   string            `json:"summary"`
	Report    string            `json:"report"`
}

// PlanStandardsInput is the input for the plan_standards MCP tool.
type PlanStandardsInput struct {
	Text string `json:"text" jsonschema:"free text describing a medical device software change"`
}

// PlanStandardsOutput is the result of the plan_standards MCP tool.
type PlanStandardsOutput struct {
	Standards []string `json:"standards"`
}
