package seed

import (
	"time"

	"vibella/internal/models"

	"gorm.io/gorm"
)

// BuiltInChallenge is a permanent community challenge.
type BuiltInChallenge struct {
	Title       string
	Description string
	GoalType    string
	GoalValue   float64
	Days        int
}

// BuiltInChallenges defines the standing community challenges created at
// bootstrap. Each runs from seeding day for its Days window.
var BuiltInChallenges = []BuiltInChallenge{
	{Title: "10K Steps Club", Description: "Walk ten thousand steps a day.", GoalType: models.GoalTypeSteps, GoalValue: 10000, Days: 30},
	{Title: "Sleep Well Week", Description: "Eight hours of rest every night.", GoalType: models.GoalTypeSleep, GoalValue: 8, Days: 7},
	{Title: "Hydration Habit", Description: "Eight glasses of water a day.", GoalType: models.GoalTypeWater, GoalValue: 8, Days: 14},
	{Title: "Mindful Minutes", Description: "Twenty minutes of daily meditation.", GoalType: models.GoalTypeMeditation, GoalValue: 20, Days: 21},
}

// Challenges seeds the standing community challenges if absent. Existing
// challenges with the same title are left untouched so participant
// progress survives reseeding.
func Challenges(db *gorm.DB) error {
	today := time.Now().UTC()
	for _, item := range BuiltInChallenges {
		var count int64
		if err := db.Model(&models.Challenge{}).Where("title = ?", item.Title).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		challenge := models.Challenge{
			Title:       item.Title,
			Description: item.Description,
			GoalType:    item.GoalType,
			GoalValue:   item.GoalValue,
			StartDate:   today.Format(models.HabitDateLayout),
			EndDate:     today.AddDate(0, 0, item.Days).Format(models.HabitDateLayout),
		}
		if err := db.Create(&challenge).Error; err != nil {
			return err
		}
	}
	return nil
}

// builtInExpertContent is the starter library of expert articles and tips.
var builtInExpertContent = []models.ExpertContent{
	{
		Title:       "The Science of Sleep Cycles",
		Content:     "Your body moves through several 90 minute sleep cycles each night. Aim to wake at the end of a cycle rather than the middle: count back 7.5 or 9 hours from your alarm to pick a bedtime.",
		ContentType: "article",
	},
	{
		Title:       "Box Breathing in Four Steps",
		Content:     "Inhale for four counts, hold for four, exhale for four, hold for four. Repeat for two minutes whenever stress spikes. The long exhale activates the parasympathetic nervous system.",
		ContentType: "tip",
	},
	{
		Title:       "Hydration Beyond Eight Glasses",
		Content:     "Fluid needs vary with body size, climate, and activity. Urine color is a better signal than glass counting: pale straw means you are on track.",
		ContentType: "article",
	},
	{
		Title:       "A Five Minute Desk Meditation",
		Content:     "Sit upright, close your eyes, and follow ten slow breaths. When thoughts arrive, label them thinking and return to the breath. Five minutes counts.",
		ContentType: "tip",
	},
}

// ExpertContent seeds the starter expert library if absent, keyed by title.
func ExpertContent(db *gorm.DB) error {
	for _, item := range builtInExpertContent {
		var count int64
		if err := db.Model(&models.ExpertContent{}).Where("title = ?", item.Title).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		content := item
		if err := db.Create(&content).Error; err != nil {
			return err
		}
	}
	return nil
}
