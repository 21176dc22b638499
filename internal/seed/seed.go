package seed

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"devconnector/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	// SkipBcrypt stores plaintext passwords for faster local seeding.
	SkipBcrypt bool
	// MaxDays bounds how far back post timestamps are spread. Zero means 90.
	MaxDays int
}

// Seed populates the database with demo users, profiles, and posts.
func Seed(db *gorm.DB, opts Options) error {
	slog.Info("starting database seeding", "users", opts.NumUsers, "posts", opts.NumPosts)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			slog.Warn("could not clear all existing data, continuing anyway", "error", err)
		}
	}

	factory := NewFactory(db, opts)

	users, err := createUsers(factory, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	slog.Info("users created", "count", len(users))

	profiles := 0
	for _, user := range users {
		// Roughly three quarters of users have filled out a profile.
		if rand.Float32() > 0.75 {
			continue
		}
		profile, err := factory.CreateProfile(user)
		if err != nil {
			slog.Warn("failed to create profile", "user", user.ID, "error", err)
			continue
		}
		for i := 0; i < 1+rand.Intn(3); i++ {
			if _, err := factory.CreateExperience(profile); err != nil {
				return fmt.Errorf("failed to create experience: %w", err)
			}
		}
		for i := 0; i < rand.Intn(3); i++ {
			if _, err := factory.CreateEducation(profile); err != nil {
				return fmt.Errorf("failed to create education: %w", err)
			}
		}
		profiles++
	}
	slog.Info("profiles created", "count", profiles)

	posts, err := createPosts(factory, users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	slog.Info("posts created", "count", len(posts))

	if err := createEngagement(factory, users, posts); err != nil {
		return fmt.Errorf("failed to create likes and comments: %w", err)
	}

	slog.Info("database seeding completed")
	return nil
}

func clearData(db *gorm.DB) error {
	slog.Info("clearing existing data")
	sql := `TRUNCATE TABLE comments, likes, posts, experiences, educations, profiles, users RESTART IDENTITY CASCADE;`
	return db.Exec(sql).Error
}

func createUsers(factory *Factory, count int) ([]*models.User, error) {
	users := make([]*models.User, 0, count)

	// Always include a known login for local development.
	if count >= 1 {
		user, err := factory.CreateUser(func(u *models.User) {
			u.Name = "Test User"
			u.Email = "test@example.com"
		})
		if err == nil {
			users = append(users, user)
		}
	}

	for i := len(users); i < count; i++ {
		user, err := factory.CreateUser()
		if err != nil {
			slog.Warn("failed to create user", "error", err)
			continue
		}
		users = append(users, user)
	}
	return users, nil
}

func createPosts(factory *Factory, users []*models.User, count int) ([]*models.Post, error) {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	posts := make([]*models.Post, 0, count)

	for i := 0; i < count; i++ {
		user := users[r.Intn(len(users))]
		post, err := factory.CreatePost(user)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// createEngagement sprinkles likes and comments across posts. Each post gets
// a distinct subset of users as likers so the unique index is never violated.
func createEngagement(factory *Factory, users []*models.User, posts []*models.Post) error {
	//nolint:gosec // Weak random number generator is fine for seeding
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for _, post := range posts {
		likers := r.Perm(len(users))[:r.Intn(len(users)/2+1)]
		for _, idx := range likers {
			if err := factory.CreateLike(users[idx], post); err != nil {
				return err
			}
		}

		for i := 0; i < r.Intn(4); i++ {
			commenter := users[r.Intn(len(users))]
			if _, err := factory.CreateComment(commenter, post); err != nil {
				return err
			}
		}
	}
	return nil
}
