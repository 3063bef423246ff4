package models

import "time"

// HabitDateLayout is the calendar-date format used for habit and challenge
// date fields. Dates are compared lexically, so the layout must sort.
const HabitDateLayout = "2006-01-02"

// HabitMetrics is the fixed record of daily metric values a user tracks.
// All four fields are non-negative and always supplied together; partial
// updates are not supported.
type HabitMetrics struct {
	SleepHours        float64 `json:"sleep_hours"`
	WaterGlasses      int     `json:"water_glasses"`
	Steps             int     `json:"steps"`
	MeditationMinutes int     `json:"meditation_minutes"`
}

// Validate checks that every metric is non-negative.
func (m HabitMetrics) Validate() error {
	if m.SleepHours < 0 || m.WaterGlasses < 0 || m.Steps < 0 || m.MeditationMinutes < 0 {
		return NewValidationError("Habit metrics must be non-negative")
	}
	return nil
}

// Habit is one row per (user, calendar date) holding the four metric
// values. Upserted whole; last write wins, no history beyond the daily
// granularity.
type Habit struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `gorm:"not null;uniqueIndex:idx_habits_user_date" json:"user_id"`
	Date              string    `gorm:"type:date;not null;uniqueIndex:idx_habits_user_date" json:"date"`
	SleepHours        float64   `gorm:"not null;default:0" json:"sleep_hours"`
	WaterGlasses      int       `gorm:"not null;default:0" json:"water_glasses"`
	Steps             int       `gorm:"not null;default:0" json:"steps"`
	MeditationMinutes int       `gorm:"not null;default:0" json:"meditation_minutes"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Metrics returns the habit's metric values as a HabitMetrics record.
func (h *Habit) Metrics() HabitMetrics {
	return HabitMetrics{
		SleepHours:        h.SleepHours,
		WaterGlasses:      h.WaterGlasses,
		Steps:             h.Steps,
		MeditationMinutes: h.MeditationMinutes,
	}
}

// WeekSummary is the trailing seven-day view of a user's habits with
// per-metric rounded averages over the days that have data.
type WeekSummary struct {
	Days                 []Habit `json:"days"`
	AvgSleepHours        int     `json:"avg_sleep_hours"`
	AvgWaterGlasses      int     `json:"avg_water_glasses"`
	AvgSteps             int     `json:"avg_steps"`
	AvgMeditationMinutes int     `json:"avg_meditation_minutes"`
}
