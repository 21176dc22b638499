package service

import (
	"context"
	"testing"

	"devconnector/internal/database"
	"devconnector/internal/models"
	"devconnector/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func str(s string) *string { return &s }

func setupProfileService(t *testing.T) (*ProfileService, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	svc := NewProfileService(db, repository.NewProfileRepository(db), repository.NewUserRepository(db))
	return svc, db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Name: "Test User", Email: email, Password: "hashed"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestSplitSkills(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "spaced list", raw: "js, node ,go", want: []string{"js", "node", "go"}},
		{name: "single", raw: "go", want: []string{"go"}},
		{name: "empty segments dropped", raw: "go,,  ,rust", want: []string{"go", "rust"}},
		{name: "blank", raw: "   ", want: []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, splitSkills(tc.raw))
		})
	}
}

func TestUpsert_CreateRequiresStatusAndSkills(t *testing.T) {
	svc, db := setupProfileService(t)
	user := seedUser(t, db, "dev@example.com")
	ctx := context.Background()

	_, err := svc.Upsert(ctx, user.ID, ProfileInput{Skills: str("go")})
	assertAppErrorCode(t, err, "VALIDATION_ERROR")

	_, err = svc.Upsert(ctx, user.ID, ProfileInput{Status: str("Developer")})
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestUpsert_CreateThenPartialUpdate(t *testing.T) {
	svc, db := setupProfileService(t)
	user := seedUser(t, db, "dev@example.com")
	ctx := context.Background()

	created, err := svc.Upsert(ctx, user.ID, ProfileInput{
		Status:  str("Developer"),
		Skills:  str("js, node"),
		Company: str("Acme"),
		Twitter: str("https://twitter.com/dev"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"js", "node"}, created.Skills)
	assert.Equal(t, "Acme", created.Company)

	// Partial update: only location changes, everything else survives.
	updated, err := svc.Upsert(ctx, user.ID, ProfileInput{Location: str("Berlin")})
	require.NoError(t, err)
	assert.Equal(t, "Berlin", updated.Location)
	assert.Equal(t, "Developer", updated.Status)
	assert.Equal(t, []string{"js", "node"}, updated.Skills)
	assert.Equal(t, "https://twitter.com/dev", updated.Social.Twitter)
	assert.Equal(t, created.ID, updated.ID, "upsert must not create a second profile")
}

func TestAddExperience_ValidatesDates(t *testing.T) {
	svc, db := setupProfileService(t)
	user := seedUser(t, db, "dev@example.com")
	ctx := context.Background()

	_, err := svc.Upsert(ctx, user.ID, ProfileInput{Status: str("Developer"), Skills: str("go")})
	require.NoError(t, err)

	_, err = svc.AddExperience(ctx, user.ID, HistoryEntryInput{Title: "Dev", Company: "Acme"})
	assertAppErrorCode(t, err, "VALIDATION_ERROR")

	_, err = svc.AddExperience(ctx, user.ID, HistoryEntryInput{Title: "Dev", Company: "Acme", From: "not-a-date"})
	assertAppErrorCode(t, err, "VALIDATION_ERROR")

	profile, err := svc.AddExperience(ctx, user.ID, HistoryEntryInput{
		Title: "Dev", Company: "Acme", From: "2020-01-01", To: "2022-06-30",
	})
	require.NoError(t, err)
	require.Len(t, profile.Experience, 1)
	assert.Equal(t, "Dev", profile.Experience[0].Title)
	require.NotNil(t, profile.Experience[0].To)
}

func TestAddExperience_WithoutProfile(t *testing.T) {
	svc, db := setupProfileService(t)
	user := seedUser(t, db, "dev@example.com")

	_, err := svc.AddExperience(context.Background(), user.ID, HistoryEntryInput{
		Title: "Dev", Company: "Acme", From: "2020-01-01",
	})
	assertAppErrorCode(t, err, "NOT_FOUND")
}

func TestRemoveExperience_AbsentID(t *testing.T) {
	svc, db := setupProfileService(t)
	user := seedUser(t, db, "dev@example.com")
	ctx := context.Background()

	_, err := svc.Upsert(ctx, user.ID, ProfileInput{Status: str("Developer"), Skills: str("go")})
	require.NoError(t, err)

	_, err = svc.RemoveExperience(ctx, user.ID, 999)
	assertAppErrorCode(t, err, "NOT_FOUND")
}

func TestAddEducation_RoundTrip(t *testing.T) {
	svc, db := setupProfileService(t)
	user := seedUser(t, db, "dev@example.com")
	ctx := context.Background()

	_, err := svc.Upsert(ctx, user.ID, ProfileInput{Status: str("Developer"), Skills: str("go")})
	require.NoError(t, err)

	profile, err := svc.AddEducation(ctx, user.ID, HistoryEntryInput{
		School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: "2015-09-01", Current: false,
	})
	require.NoError(t, err)
	require.Len(t, profile.Education, 1)
	assert.Equal(t, "CS", profile.Education[0].FieldOfStudy)

	profile, err = svc.RemoveEducation(ctx, user.ID, profile.Education[0].ID)
	require.NoError(t, err)
	assert.Empty(t, profile.Education)
}

func TestDeleteAccount_CascadesEverything(t *testing.T) {
	svc, db := setupProfileService(t)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@example.com")
	other := seedUser(t, db, "other@example.com")

	_, err := svc.Upsert(ctx, owner.ID, ProfileInput{Status: str("Developer"), Skills: str("go")})
	require.NoError(t, err)
	_, err = svc.AddExperience(ctx, owner.ID, HistoryEntryInput{Title: "Dev", Company: "Acme", From: "2020-01-01"})
	require.NoError(t, err)

	ownerPost := &models.Post{UserID: owner.ID, Text: "mine"}
	otherPost := &models.Post{UserID: other.ID, Text: "theirs"}
	require.NoError(t, db.Create(ownerPost).Error)
	require.NoError(t, db.Create(otherPost).Error)

	// Cross traffic: the other user engages with the owner's post and the
	// owner engages with the other user's post.
	require.NoError(t, db.Create(&models.Like{PostID: ownerPost.ID, UserID: other.ID}).Error)
	require.NoError(t, db.Create(&models.Like{PostID: otherPost.ID, UserID: owner.ID}).Error)
	require.NoError(t, db.Create(&models.Comment{PostID: ownerPost.ID, UserID: other.ID, Text: "hi"}).Error)
	require.NoError(t, db.Create(&models.Comment{PostID: otherPost.ID, UserID: owner.ID, Text: "yo"}).Error)

	require.NoError(t, svc.DeleteAccount(ctx, owner.ID))

	var count int64
	db.Unscoped().Model(&models.User{}).Where("id = ?", owner.ID).Count(&count)
	assert.Zero(t, count, "user row should be gone")

	db.Model(&models.Profile{}).Where("user_id = ?", owner.ID).Count(&count)
	assert.Zero(t, count, "profile should be gone")

	db.Model(&models.Experience{}).Count(&count)
	assert.Zero(t, count, "experience entries should be gone")

	db.Unscoped().Model(&models.Post{}).Where("user_id = ?", owner.ID).Count(&count)
	assert.Zero(t, count, "posts should be hard deleted")

	db.Model(&models.Like{}).Count(&count)
	assert.Zero(t, count, "likes by and on the account should be gone")

	db.Model(&models.Comment{}).Count(&count)
	assert.Zero(t, count, "comments by and on the account should be gone")

	// The other user's own post survives.
	db.Model(&models.Post{}).Where("user_id = ?", other.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestDeleteAccount_MissingUser(t *testing.T) {
	svc, _ := setupProfileService(t)

	err := svc.DeleteAccount(context.Background(), 999)
	assertAppErrorCode(t, err, "NOT_FOUND")
}
