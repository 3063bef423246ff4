package models

import "time"

// Challenge goal types. Each matches exactly one habit metric.
const (
	GoalTypeSteps      = "steps"
	GoalTypeSleep      = "sleep"
	GoalTypeWater      = "water"
	GoalTypeMeditation = "meditation"
)

// ValidGoalType reports whether t names a known challenge goal type.
func ValidGoalType(t string) bool {
	switch t {
	case GoalTypeSteps, GoalTypeSleep, GoalTypeWater, GoalTypeMeditation:
		return true
	}
	return false
}

// MetricValues maps each goal type to the raw value of its habit metric,
// in a fixed order so propagation is deterministic.
func (m HabitMetrics) MetricValues() []MetricValue {
	return []MetricValue{
		{GoalType: GoalTypeSleep, Value: m.SleepHours},
		{GoalType: GoalTypeWater, Value: float64(m.WaterGlasses)},
		{GoalType: GoalTypeSteps, Value: float64(m.Steps)},
		{GoalType: GoalTypeMeditation, Value: float64(m.MeditationMinutes)},
	}
}

// MetricValue pairs a challenge goal type with a habit metric's raw value.
type MetricValue struct {
	GoalType string
	Value    float64
}

// Challenge is a community goal tracked against one habit metric over a
// date window. ParticipantsCount is denormalized and recounted on join.
type Challenge struct {
	ID                uint                   `gorm:"primaryKey" json:"id"`
	Title             string                 `gorm:"not null" json:"title"`
	Description       string                 `gorm:"type:text" json:"description"`
	GoalType          string                 `gorm:"not null;index" json:"goal_type"`
	GoalValue         float64                `gorm:"not null" json:"goal_value"`
	StartDate         string                 `gorm:"type:date;not null" json:"start_date"`
	EndDate           string                 `gorm:"type:date;not null" json:"end_date"`
	ParticipantsCount int                    `gorm:"not null;default:0" json:"participants_count"`
	Participants      []ChallengeParticipant `gorm:"foreignKey:ChallengeID" json:"participants,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
}

// ChallengeParticipant joins a user to a challenge. Created once at join
// time; Progress is overwritten by habit propagation thereafter.
type ChallengeParticipant struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ChallengeID uint      `gorm:"not null;uniqueIndex:idx_participants_challenge_user" json:"challenge_id"`
	UserID      uint      `gorm:"not null;uniqueIndex:idx_participants_challenge_user;index" json:"user_id"`
	Progress    float64   `gorm:"not null;default:0" json:"progress"`
	CreatedAt   time.Time `json:"joined_at"`
}
