package database

import "vibella/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Habit{},
		&models.Challenge{},
		&models.ChallengeParticipant{},
		&models.LeaderboardScore{},
		&models.Achievement{},
		&models.ExpertContent{},
	}
}
