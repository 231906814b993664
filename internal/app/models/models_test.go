package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTopicProgress_ComputePercentage(t *testing.T) {
	tests := []struct {
		name   string
		total  int
		solved int
		want   float64
	}{
		{name: "empty topic", total: 0, solved: 0, want: 0},
		{name: "all solved", total: 1, solved: 1, want: 100},
		{name: "one of three", total: 3, solved: 1, want: 100.0 / 3},
		{name: "half", total: 4, solved: 2, want: 50},
		{name: "none solved", total: 5, solved: 0, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := TopicProgress{Total: tt.total, Solved: tt.solved}
			p.ComputePercentage()
			assert.InDelta(t, tt.want, p.Percentage, 1e-9)
		})
	}
}

func TestEnums(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("superuser").Valid())
	assert.True(t, DifficultyMedium.Valid())
	assert.False(t, Difficulty("easy").Valid())
	assert.True(t, Month("August").Valid())
	assert.False(t, Month("Aug").Valid())
}

func TestSession_Upcoming(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, (&Session{DateTime: now.Add(time.Minute)}).Upcoming(now))
	assert.False(t, (&Session{DateTime: now}).Upcoming(now))
	assert.False(t, (&Session{DateTime: now.Add(-time.Hour)}).Upcoming(now))
}

func TestCompany_EligibilityRoundTrip(t *testing.T) {
	cgpa := 8.0
	var c Company
	c.SetEligibility(Eligibility{MinCGPA: &cgpa})

	e := c.Eligibility()
	assert.Equal(t, 8.0, *e.MinCGPA)
	assert.Nil(t, e.MaxBacklog)
	assert.Equal(t, []string{}, e.Branches)
}
