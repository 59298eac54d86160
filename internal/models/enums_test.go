package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriorityRank(t *testing.T) {
	assert.Equal(t, 1, PriorityP1.Rank())
	assert.Equal(t, 6, PriorityP6.Rank())
	assert.Less(t, PriorityP2.Rank(), PriorityP3.Rank())
	assert.Equal(t, 7, Priority("P9").Rank())

	assert.True(t, PriorityP4.Valid())
	assert.False(t, Priority("p1").Valid())
	assert.False(t, Priority("").Valid())
}

func TestImpactRank(t *testing.T) {
	assert.Equal(t, 1, ImpactHigh.Rank())
	assert.Equal(t, 2, ImpactMedium.Rank())
	assert.Equal(t, 3, ImpactLow.Rank())
	assert.Equal(t, 4, Impact("critico").Rank())
	assert.False(t, Impact("critico").Valid())
}

func TestEnumDomains(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"backlog pendiente", BacklogStatus("pendiente").Valid()},
		{"backlog pausado", BacklogStatus("pausado").Valid()},
		{"bug cerrado", BugStatus("cerrado").Valid()},
		{"value alto", BusinessValue("alto").Valid()},
		{"role qa", Role("qa").Valid()},
	}
	for _, tt := range tests {
		assert.True(t, tt.valid, tt.name)
	}

	assert.False(t, BacklogStatus("done").Valid())
	assert.False(t, BugStatus("pendiente").Valid())
	assert.False(t, BusinessValue("critico").Valid())
	assert.False(t, Role("owner").Valid())
}

func TestBugStatusOpen(t *testing.T) {
	assert.True(t, BugReported.Open())
	assert.True(t, BugQA.Open())
	assert.False(t, BugResolved.Open())
	assert.False(t, BugClosed.Open())
}

func TestProfileSummaryDisplayName(t *testing.T) {
	name := "Ana"
	email := "ana@example.com"
	empty := ""

	var nilSummary *ProfileSummary
	assert.Equal(t, "", nilSummary.DisplayName())
	assert.Equal(t, "Ana", (&ProfileSummary{FullName: &name, Email: &email}).DisplayName())
	assert.Equal(t, email, (&ProfileSummary{FullName: &empty, Email: &email}).DisplayName())
	assert.Equal(t, "", (&ProfileSummary{}).DisplayName())
}
