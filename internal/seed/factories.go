// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"crypto/md5"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"devconnector/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db   *gorm.DB
	opts Options
	rand *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Factory{db: db, opts: opts, rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateUser constructs and persists a sample user. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	email := gofakeit.Email()
	user := &models.User{
		Name:   gofakeit.Name(),
		Email:  email,
		Avatar: fmt.Sprintf("https://gravatar.com/avatar/%x?s=200&r=pg&d=mm", md5.Sum([]byte(strings.ToLower(email)))),
	}

	// Password handling: allow skipping bcrypt in dev fast mode
	if f.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateProfile constructs and persists a developer profile for the user.
func (f *Factory) CreateProfile(user *models.User, overrides ...func(*models.Profile)) (*models.Profile, error) {
	statuses := []string{"Developer", "Senior Developer", "Junior Developer", "Student", "Instructor", "Manager"}
	skillPool := []string{"Go", "JavaScript", "TypeScript", "Python", "SQL", "Docker", "Kubernetes", "React", "Redis", "PostgreSQL"}

	skills := make([]string, 0, 4)
	for _, i := range f.rand.Perm(len(skillPool))[:3+f.rand.Intn(3)] {
		skills = append(skills, skillPool[i])
	}

	profile := &models.Profile{
		UserID:         user.ID,
		Status:         statuses[f.rand.Intn(len(statuses))],
		Company:        gofakeit.Company(),
		Website:        gofakeit.URL(),
		Location:       fmt.Sprintf("%s, %s", gofakeit.City(), gofakeit.Country()),
		Bio:            gofakeit.Sentence(12),
		GithubUsername: gofakeit.Username(),
		Skills:         skills,
		Social: models.Social{
			Twitter:  fmt.Sprintf("https://twitter.com/%s", gofakeit.Username()),
			Linkedin: fmt.Sprintf("https://linkedin.com/in/%s", gofakeit.Username()),
		},
	}

	for _, override := range overrides {
		override(profile)
	}

	if err := f.db.Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

// CreateExperience persists a work history entry on the profile with a
// plausible date range.
func (f *Factory) CreateExperience(profile *models.Profile, overrides ...func(*models.Experience)) (*models.Experience, error) {
	from := time.Now().AddDate(-1-f.rand.Intn(8), -f.rand.Intn(12), 0)
	exp := &models.Experience{
		ProfileID:   profile.ID,
		Title:       gofakeit.JobTitle(),
		Company:     gofakeit.Company(),
		Location:    gofakeit.City(),
		From:        from,
		Current:     f.rand.Float32() < 0.3,
		Description: gofakeit.Sentence(15),
	}
	if !exp.Current {
		to := from.AddDate(0, 6+f.rand.Intn(30), 0)
		exp.To = &to
	}

	for _, override := range overrides {
		override(exp)
	}

	if err := f.db.Create(exp).Error; err != nil {
		return nil, err
	}
	return exp, nil
}

// CreateEducation persists a schooling entry on the profile.
func (f *Factory) CreateEducation(profile *models.Profile, overrides ...func(*models.Education)) (*models.Education, error) {
	from := time.Now().AddDate(-4-f.rand.Intn(10), 0, 0)
	to := from.AddDate(3+f.rand.Intn(2), 0, 0)
	edu := &models.Education{
		ProfileID:    profile.ID,
		School:       fmt.Sprintf("%s University", gofakeit.City()),
		Degree:       []string{"BSc", "MSc", "Bootcamp Certificate", "PhD"}[f.rand.Intn(4)],
		FieldOfStudy: []string{"Computer Science", "Software Engineering", "Mathematics", "Web Development"}[f.rand.Intn(4)],
		From:         from,
		To:           &to,
		Description:  gofakeit.Sentence(10),
	}

	for _, override := range overrides {
		override(edu)
	}

	if err := f.db.Create(edu).Error; err != nil {
		return nil, err
	}
	return edu, nil
}

// CreatePost constructs and persists a post authored by the given user, with
// the author snapshot applied and a realistic created_at spread.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	daysBack := f.rand.Intn(maxDays)
	hoursBack := f.rand.Intn(24)

	post := &models.Post{
		UserID:    user.ID,
		Text:      gofakeit.Paragraph(1, 2, 8, " "),
		Name:      user.Name,
		Avatar:    user.Avatar,
		CreatedAt: time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour),
	}

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment persists a comment on the post authored by the given user.
func (f *Factory) CreateComment(user *models.User, post *models.Post, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		PostID: post.ID,
		UserID: user.ID,
		Text:   gofakeit.Sentence(8),
		Name:   user.Name,
		Avatar: user.Avatar,
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike persists a like from user on post. Duplicate likes violate the
// composite unique index and return an error.
func (f *Factory) CreateLike(user *models.User, post *models.Post) error {
	like := &models.Like{
		UserID: user.ID,
		PostID: post.ID,
	}
	return f.db.Create(like).Error
}
