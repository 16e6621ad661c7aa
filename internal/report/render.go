package report

import (
	"fmt"
	"strings"
	"time"
)

// Render formats the report as markdown for the session output. The trigger
// request and timestamp come from the caller so rendering stays
// deterministic under test.
func (r *ComplianceReport) Render(userRequest string, generatedAt time.Time) string {
	var b strings.Builder

	b.WriteString("# Medical Device Compliance Audit Report\n\n")
	fmt.Fprintf(&b, "**Date:** %s\n", generatedAt.Format("2006-01-02"))
	fmt.Fprintf(&b, "**Trigger:** User Request - %q\n", userRequest)
	fmt.Fprintf(&b, "**Scope:** %s\n\n", strings.Join(r.scope(), ", "))

	b.WriteString("## Executive Summary\n\n")
	b.WriteString(r.Summary)
	b.WriteString("\n\n")

	b.WriteString("## Audit Findings\n\n")
	for _, f := range r.Findings {
		fmt.Fprintf(&b, "### %s — %s\n\n", f.Standard, f.Verdict)
		if f.Reviewer != "" {
			fmt.Fprintf(&b, "_Reviewed by %s._\n\n", f.Reviewer)
		}
		b.WriteString(strings.TrimSpace(f.Notes))
		b.WriteString("\n\n")
	}

	b.WriteString("## Next Actions\n\n")
	b.WriteString("Review NON-COMPLIANT items and initiate the CAPA process if necessary. " +
		"Update documentation before submission.\n")

	return b.String()
}

// scope lists the standards covered by the report, in finding order.
func (r *ComplianceReport) scope() []string {
	names := make([]string, len(r.Findings))
	for i, f := range r.Findings {
		names[i] = string(f.Standard)
	}
	return names
}
