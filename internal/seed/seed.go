package seed

import (
	"log"
	"math/rand"
	"time"

	"vibella/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
}

// Seed populates the database with test data: users with habit history,
// posts with likes and comments, challenge participation, and recomputed
// weekly leaderboard scores.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Starting database seeding with %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	if err := Challenges(db); err != nil {
		return err
	}
	if err := ExpertContent(db); err != nil {
		return err
	}

	f := NewFactory(db)
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return err
		}
		users = append(users, user)
	}
	log.Printf("Created %d users", len(users))

	posts := make([]*models.Post, 0, opts.NumPosts)
	for i := 0; i < opts.NumPosts; i++ {
		author := users[r.Intn(len(users))]
		post, err := f.CreatePost(author, 30)
		if err != nil {
			return err
		}
		posts = append(posts, post)
	}
	log.Printf("Created %d posts", len(posts))

	if err := seedEngagement(db, r, users, posts); err != nil {
		return err
	}
	if err := seedHabitsAndChallenges(db, f, r, users); err != nil {
		return err
	}
	if err := recountAndScore(db); err != nil {
		return err
	}

	log.Println("Seeding complete")
	return nil
}

// seedEngagement sprinkles likes and comments over the posts.
func seedEngagement(db *gorm.DB, r *rand.Rand, users []*models.User, posts []*models.Post) error {
	comments := []string{
		"Love this, keep it up!",
		"So inspiring. Trying this tomorrow.",
		"Needed to read this today, thank you.",
		"Great progress!",
		"How long did it take to build the habit?",
	}

	for _, post := range posts {
		for _, user := range users {
			if user.ID == post.UserID {
				continue
			}
			if r.Float64() < 0.3 {
				like := models.Like{PostID: post.ID, UserID: user.ID}
				if err := db.Create(&like).Error; err != nil {
					return err
				}
			}
			if r.Float64() < 0.1 {
				comment := models.Comment{
					PostID:  post.ID,
					UserID:  user.ID,
					Content: comments[r.Intn(len(comments))],
				}
				if err := db.Create(&comment).Error; err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// seedHabitsAndChallenges gives each user a trailing week of habit data
// and enrolls some users into the built-in challenges with progress taken
// from their latest habit record.
func seedHabitsAndChallenges(db *gorm.DB, f *Factory, r *rand.Rand, users []*models.User) error {
	var challenges []models.Challenge
	if err := db.Find(&challenges).Error; err != nil {
		return err
	}

	today := time.Now().UTC()
	for _, user := range users {
		var latest *models.Habit
		for d := 6; d >= 0; d-- {
			if r.Float64() < 0.25 {
				continue // some days have no record
			}
			date := today.AddDate(0, 0, -d).Format(models.HabitDateLayout)
			habit, err := f.CreateHabit(user, date)
			if err != nil {
				return err
			}
			latest = habit
		}

		for _, ch := range challenges {
			if r.Float64() >= 0.4 {
				continue
			}
			participant := models.ChallengeParticipant{
				ChallengeID: ch.ID,
				UserID:      user.ID,
			}
			if latest != nil {
				for _, mv := range latest.Metrics().MetricValues() {
					if mv.GoalType == ch.GoalType {
						participant.Progress = mv.Value
					}
				}
			}
			if err := db.Create(&participant).Error; err != nil {
				return err
			}
		}
	}

	// Write back participant counts.
	return db.Exec(`
		UPDATE challenges SET participants_count = (
			SELECT COUNT(*) FROM challenge_participants
			WHERE challenge_participants.challenge_id = challenges.id
		)
	`).Error
}

// recountAndScore writes back denormalized post counters and computes the
// current week's leaderboard rows from actual activity.
func recountAndScore(db *gorm.DB) error {
	if err := db.Exec(`
		UPDATE posts SET
			likes_count = (SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id),
			comments_count = (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL)
	`).Error; err != nil {
		return err
	}

	weekStart := time.Now().UTC()
	weekStart = weekStart.AddDate(0, 0, -int(weekStart.Weekday()))
	ws := weekStart.Format(models.HabitDateLayout)

	var users []models.User
	if err := db.Find(&users).Error; err != nil {
		return err
	}

	for _, user := range users {
		var postsCount, likesGiven, commentsGiven int64
		if err := db.Model(&models.Post{}).
			Where("user_id = ? AND created_at >= ?", user.ID, ws).
			Count(&postsCount).Error; err != nil {
			return err
		}
		if err := db.Model(&models.Like{}).
			Where("user_id = ? AND created_at >= ?", user.ID, ws).
			Count(&likesGiven).Error; err != nil {
			return err
		}
		if err := db.Model(&models.Comment{}).
			Where("user_id = ? AND created_at >= ?", user.ID, ws).
			Count(&commentsGiven).Error; err != nil {
			return err
		}

		score := models.ComputeScore(int(postsCount), int(likesGiven), int(commentsGiven))
		if score == 0 {
			continue
		}
		row := models.LeaderboardScore{
			UserID:        user.ID,
			WeekStart:     ws,
			Score:         score,
			PostsCount:    int(postsCount),
			LikesGiven:    int(likesGiven),
			CommentsGiven: int(commentsGiven),
		}
		if err := db.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func clearData(db *gorm.DB) error {
	tables := []string{
		"leaderboard_scores", "achievements", "challenge_participants",
		"challenges", "habits", "likes", "comments", "posts",
		"expert_contents", "users",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}
