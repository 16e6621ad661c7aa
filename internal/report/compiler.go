// Package report reduces a deliberation transcript into an immutable
// compliance report. Compilation is a pure function of its inputs: no
// generation calls, no clocks, no hidden state.
package report

import (
	"fmt"

	"github.com/nferro/medaudit/internal/audit"
)

// Finding is one standard's final audit outcome.
type Finding struct {
	Standard audit.Standard
	Verdict  audit.Verdict

	// Reviewer is the role name whose turn produced the verdict. Empty when
	// no reviewer turn exists for the standard.
	Reviewer string

	// Notes is the rationale text surrounding the verdict.
	Notes string
}

// ComplianceReport is the derived, read-only view of a completed audit:
// one finding per standard in scope plus an aggregate summary.
type ComplianceReport struct {
	Findings []Finding
	Summary  string
}

// Compile derives the report from the transcript. For each standard the most
// recent matching reviewer turn wins; a standard whose reviewer never spoke
// gets NEEDS-INFO with an explanatory note instead of an error.
func Compile(transcript []audit.Turn, standards []audit.Standard) *ComplianceReport {
	findings := make([]Finding, 0, len(standards))
	for _, standard := range standards {
		findings = append(findings, findingFor(transcript, standard))
	}

	return &ComplianceReport{
		Findings: findings,
		Summary:  summarize(findings),
	}
}

// findingFor scans the transcript in reverse for the standard's most recent
// reviewer turn.
func findingFor(transcript []audit.Turn, standard audit.Standard) Finding {
	for i := len(transcript) - 1; i >= 0; i-- {
		turn := transcript[i]
		if !turn.IsReviewer() || turn.Standard != standard {
			continue
		}
		return Finding{
			Standard: standard,
			Verdict:  turn.Verdict,
			Reviewer: turn.Speaker,
			Notes:    turn.Content,
		}
	}
	return Finding{
		Standard: standard,
		Verdict:  audit.VerdictNeedsInfo,
		Notes:    "No review was recorded for this standard.",
	}
}

// summarize aggregates verdict counts into a single line.
func summarize(findings []Finding) string {
	var compliant, nonCompliant, needsInfo int
	for _, f := range findings {
		switch f.Verdict {
		case audit.VerdictCompliant:
			compliant++
		case audit.VerdictNonCompliant:
			nonCompliant++
		default:
			needsInfo++
		}
	}
	return fmt.Sprintf("%d standard(s) audited: %d COMPLIANT, %d NON-COMPLIANT, %d NEEDS-INFO",
		len(findings), compliant, nonCompliant, needsInfo)
}
