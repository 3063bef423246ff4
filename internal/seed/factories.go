// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"vibella/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	moodEmojis = []string{"😊", "😌", "💪", "🧘", "🌞", "😴", "🙏", "✨"}

	wellnessTopics = []string{
		"mindfulness", "sleep", "hydration", "running", "yoga",
		"meditation", "nutrition", "gratitude", "recovery", "breathwork",
	}

	postTemplates = []string{
		"Finished a %d minute meditation session this morning. Feeling centered.",
		"Hit my step goal three days in a row. Small wins add up!",
		"Tried a new evening wind-down routine and slept %d hours straight.",
		"Drank all my water today. Who knew hydration could feel this good?",
		"Grateful for this community. Your posts keep me going.",
		"Morning yoga by the window. Best start to the day.",
	}
)

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db *gorm.DB
	r  *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db: db,
		r:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser persists a user with realistic profile data. The password
// for every seeded user is "Password123!".
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("Password123!"), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	first := gofakeit.FirstName()
	last := gofakeit.LastName()
	user := &models.User{
		Username: strings.ToLower(fmt.Sprintf("%s-%s%d", first, last, f.r.Intn(1000))),
		Email:    strings.ToLower(fmt.Sprintf("%s.%s%d@%s", first, last, f.r.Intn(1000), gofakeit.DomainName())),
		Password: string(hashed),
		FullName: first + " " + last,
		Bio:      gofakeit.Sentence(8),
		Goals:    gofakeit.Sentence(6),
	}
	for _, o := range overrides {
		o(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost persists a wellness post for the user with a realistic
// created_at spread over the past days.
func (f *Factory) CreatePost(user *models.User, maxDaysBack int, overrides ...func(*models.Post)) (*models.Post, error) {
	if maxDaysBack <= 0 {
		maxDaysBack = 30
	}

	content := postTemplates[f.r.Intn(len(postTemplates))]
	if strings.Contains(content, "%d") {
		content = fmt.Sprintf(content, 2+f.r.Intn(28))
	}

	nTopics := 1 + f.r.Intn(3)
	topics := make([]string, 0, nTopics)
	for len(topics) < nTopics {
		t := wellnessTopics[f.r.Intn(len(wellnessTopics))]
		if !contains(topics, t) {
			topics = append(topics, t)
		}
	}

	post := &models.Post{
		UserID:    user.ID,
		Content:   content,
		MoodEmoji: moodEmojis[f.r.Intn(len(moodEmojis))],
		Topics:    pq.StringArray(topics),
		CreatedAt: f.pastTime(maxDaysBack),
	}
	for _, o := range overrides {
		o(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateHabit persists a plausible habit record for the given date.
func (f *Factory) CreateHabit(user *models.User, date string) (*models.Habit, error) {
	habit := &models.Habit{
		UserID:            user.ID,
		Date:              date,
		SleepHours:        5 + f.r.Float64()*4,
		WaterGlasses:      3 + f.r.Intn(7),
		Steps:             2000 + f.r.Intn(12000),
		MeditationMinutes: f.r.Intn(40),
	}
	if err := f.db.Create(habit).Error; err != nil {
		return nil, err
	}
	return habit, nil
}

// CreateAchievement persists a badge for the user.
func (f *Factory) CreateAchievement(user *models.User, badgeType, badgeName, description string) (*models.Achievement, error) {
	achievement := &models.Achievement{
		UserID:           user.ID,
		BadgeType:        badgeType,
		BadgeName:        badgeName,
		BadgeDescription: description,
		EarnedAt:         f.pastTime(60),
	}
	if err := f.db.Create(achievement).Error; err != nil {
		return nil, err
	}
	return achievement, nil
}

func (f *Factory) pastTime(maxDaysBack int) time.Time {
	daysBack := f.r.Intn(maxDaysBack)
	hoursBack := f.r.Intn(24)
	minsBack := f.r.Intn(60)
	return time.Now().
		Add(-time.Duration(daysBack)*24*time.Hour -
			time.Duration(hoursBack)*time.Hour -
			time.Duration(minsBack)*time.Minute)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
