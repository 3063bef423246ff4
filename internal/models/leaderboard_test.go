package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                   string
		posts, likes, comments int
		want                   int
	}{
		{"no activity", 0, 0, 0, 0},
		{"posts only", 3, 0, 0, 30},
		{"likes only", 0, 7, 0, 14},
		{"comments only", 0, 0, 4, 20},
		{"mixed", 3, 7, 2, 54},
		{"typical week", 2, 3, 1, 31},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ComputeScore(tc.posts, tc.likes, tc.comments))
		})
	}
}

func TestMetricValues_CoversEveryGoalType(t *testing.T) {
	t.Parallel()

	m := HabitMetrics{SleepHours: 7.5, WaterGlasses: 6, Steps: 9000, MeditationMinutes: 15}
	got := map[string]float64{}
	for _, mv := range m.MetricValues() {
		got[mv.GoalType] = mv.Value
	}

	assert.Equal(t, map[string]float64{
		GoalTypeSleep:      7.5,
		GoalTypeWater:      6,
		GoalTypeSteps:      9000,
		GoalTypeMeditation: 15,
	}, got)

	for goalType := range got {
		assert.True(t, ValidGoalType(goalType))
	}
	assert.False(t, ValidGoalType("pushups"))
}
