package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus_Predicates(t *testing.T) {
	tests := []struct {
		status   Status
		inFlight bool
		accepts  bool
		terminal bool
	}{
		{StatusIdle, false, true, false},
		{StatusAnalyzing, true, false, false},
		{StatusResearching, true, false, false},
		{StatusScoring, true, false, false},
		{StatusComplete, false, true, true},
		{StatusError, false, true, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.inFlight, tt.status.InFlight(), string(tt.status))
		assert.Equal(t, tt.accepts, tt.status.AcceptsSubmission(), string(tt.status))
		assert.Equal(t, tt.terminal, tt.status.Terminal(), string(tt.status))
	}
}

func TestNormalizeIdea(t *testing.T) {
	assert.Equal(t, "Uber for dog walking", NormalizeIdea("  Uber for dog walking\n"))
	assert.Equal(t, "a &lt; b", NormalizeIdea("a &lt; b"))
	assert.Equal(t, "<p>hello</p>", NormalizeIdea(" <p>hello</p> "))
	assert.Equal(t, "Alert when price<cost for retailers", NormalizeIdea("Alert when price<cost for retailers"))
	assert.Equal(t, "A marketplace for <insert niche> sellers", NormalizeIdea("A marketplace for <insert niche> sellers"))
	assert.Equal(t, "Compare a<b and b>c", NormalizeIdea("Compare a<b and b>c"))
	assert.Empty(t, NormalizeIdea(" \n\t "))
}
