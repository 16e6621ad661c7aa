package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nferro/medaudit/internal/audit"
)

func TestReviewerFor_EveryStandardHasAReviewer(t *testing.T) {
	for _, s := range audit.AllStandards() {
		r, err := ReviewerFor(s)
		require.NoError(t, err, "standard %s", s)
		assert.Equal(t, s, r.Standard)
		assert.NotEmpty(t, r.Name)
		assert.NotEmpty(t, r.SystemPrompt)
		assert.Contains(t, r.SystemPrompt, "COMPLIANT", "reviewer prompt must demand a verdict token")
	}
}

func TestReviewerFor_UnknownStandard(t *testing.T) {
	_, err := ReviewerFor(audit.Standard("ISO 9001"))
	require.Error(t, err)
}

func TestReviewersFor_PreservesOrder(t *testing.T) {
	standards := []audit.Standard{audit.StandardISO13485, audit.StandardIEC62304}
	reviewers, err := ReviewersFor(standards)
	require.NoError(t, err)
	require.Len(t, reviewers, 2)
	assert.Equal(t, audit.StandardISO13485, reviewers[0].Standard)
	assert.Equal(t, audit.StandardIEC62304, reviewers[1].Standard)
}

func TestReviewersFor_FailsOnUnknown(t *testing.T) {
	_, err := ReviewersFor([]audit.Standard{audit.StandardIEC62304, audit.Standard("bogus")})
	require.Error(t, err)
}

func TestNewModerator_EmbedsSentinel(t *testing.T) {
	m := NewModerator("AUDIT_COMPLETE")
	assert.Equal(t, "Compliance-Manager", m.Name)
	assert.Contains(t, m.SystemPrompt, "AUDIT_COMPLETE")
}
