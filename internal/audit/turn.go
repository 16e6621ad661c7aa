package audit

import "strings"

// Verdict is a reviewer's compliance call for its bound standard.
type Verdict string

const (
	VerdictCompliant    Verdict = "COMPLIANT"
	VerdictNonCompliant Verdict = "NON-COMPLIANT"
	VerdictNeedsInfo    Verdict = "NEEDS-INFO"
)

// ParseVerdict classifies free-form reviewer output into a Verdict using
// case-insensitive substring matching. NON-COMPLIANT is checked first since
// it contains COMPLIANT as a substring. Anything unrecognizable falls back
// to NEEDS-INFO.
func ParseVerdict(text string) Verdict {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "non-compliant"):
		return VerdictNonCompliant
	case strings.Contains(lower, "compliant"):
		return VerdictCompliant
	default:
		return VerdictNeedsInfo
	}
}

// Turn is one utterance in the deliberation transcript. Turns are append-only;
// a transcript is only ever extended, never rewritten.
type Turn struct {
	// Index is the turn's ordinal position in the transcript, starting at 0.
	Index int

	// Speaker is the role name that produced this turn.
	Speaker string

	// Standard is set when the speaker is a reviewer; empty for the moderator.
	Standard Standard

	// Content is the generated utterance text.
	Content string

	// Verdict is derived from Content for reviewer turns.
	Verdict Verdict

	// Degraded marks a turn whose generation call failed on every retry and
	// was replaced with an explanatory note.
	Degraded bool
}

// IsReviewer reports whether the turn was spoken by a standard-bound reviewer.
func (t Turn) IsReviewer() bool {
	return t.Standard != ""
}
