package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"devconnector/internal/cache"
	"devconnector/internal/models"
	"devconnector/internal/repository"

	"gorm.io/gorm"
)

// ProfileService owns profile reads and writes plus the account cascade
// delete, which runs as a single transaction on the primary connection.
type ProfileService struct {
	db          *gorm.DB
	profileRepo repository.ProfileRepository
	userRepo    repository.UserRepository
}

// ProfileInput carries a partial profile update. Nil fields are left
// untouched on an existing profile; Skills is the raw comma-separated form.
type ProfileInput struct {
	Company        *string `json:"company"`
	Website        *string `json:"website"`
	Location       *string `json:"location"`
	Status         *string `json:"status"`
	Bio            *string `json:"bio"`
	GithubUsername *string `json:"githubusername"`
	Skills         *string `json:"skills"`
	Youtube        *string `json:"youtube"`
	Twitter        *string `json:"twitter"`
	Instagram      *string `json:"instagram"`
	Linkedin       *string `json:"linkedin"`
	Facebook       *string `json:"facebook"`
}

// HistoryEntryInput is the shared payload for experience and education
// entries. Dates arrive as strings and are parsed leniently.
type HistoryEntryInput struct {
	Title        string `json:"title"`
	Company      string `json:"company"`
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	Location     string `json:"location"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

func NewProfileService(db *gorm.DB, profileRepo repository.ProfileRepository, userRepo repository.UserRepository) *ProfileService {
	return &ProfileService{
		db:          db,
		profileRepo: profileRepo,
		userRepo:    userRepo,
	}
}

func (s *ProfileService) GetByUserID(ctx context.Context, userID uint) (*models.Profile, error) {
	return s.profileRepo.GetByUserID(ctx, userID)
}

func (s *ProfileService) List(ctx context.Context) ([]models.Profile, error) {
	return s.profileRepo.List(ctx)
}

// splitSkills turns "js, node ,go" into ["js", "node", "go"].
func splitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			skills = append(skills, trimmed)
		}
	}
	return skills
}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

func parseDate(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// Upsert creates the caller's profile or merges the non-nil input fields
// into the existing one.
func (s *ProfileService) Upsert(ctx context.Context, userID uint, in ProfileInput) (*models.Profile, error) {
	existing, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		var appErr *models.AppError
		if !errors.As(err, &appErr) || appErr.Code != "NOT_FOUND" {
			return nil, err
		}
		existing = nil
	}

	if existing == nil {
		if in.Status == nil || strings.TrimSpace(*in.Status) == "" {
			return nil, models.NewValidationError("Status is required")
		}
		if in.Skills == nil || strings.TrimSpace(*in.Skills) == "" {
			return nil, models.NewValidationError("Skills is required")
		}

		profile := &models.Profile{UserID: userID, Skills: []string{}}
		applyProfileInput(profile, in)
		if err := s.profileRepo.Create(ctx, profile); err != nil {
			return nil, err
		}
		return s.profileRepo.GetByUserID(ctx, userID)
	}

	applyProfileInput(existing, in)
	// Drop the loaded associations so Save does not try to upsert them.
	existing.Experience = nil
	existing.Education = nil
	if err := s.profileRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return s.profileRepo.GetByUserID(ctx, userID)
}

func applyProfileInput(profile *models.Profile, in ProfileInput) {
	if in.Company != nil {
		profile.Company = *in.Company
	}
	if in.Website != nil {
		profile.Website = *in.Website
	}
	if in.Location != nil {
		profile.Location = *in.Location
	}
	if in.Status != nil {
		profile.Status = *in.Status
	}
	if in.Bio != nil {
		profile.Bio = *in.Bio
	}
	if in.GithubUsername != nil {
		profile.GithubUsername = *in.GithubUsername
	}
	if in.Skills != nil {
		profile.Skills = splitSkills(*in.Skills)
	}
	if in.Youtube != nil {
		profile.Social.Youtube = *in.Youtube
	}
	if in.Twitter != nil {
		profile.Social.Twitter = *in.Twitter
	}
	if in.Instagram != nil {
		profile.Social.Instagram = *in.Instagram
	}
	if in.Linkedin != nil {
		profile.Social.Linkedin = *in.Linkedin
	}
	if in.Facebook != nil {
		profile.Social.Facebook = *in.Facebook
	}
}

// AddExperience prepends a work history entry and returns the refreshed
// profile.
func (s *ProfileService) AddExperience(ctx context.Context, userID uint, in HistoryEntryInput) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Title) == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if strings.TrimSpace(in.Company) == "" {
		return nil, models.NewValidationError("Company is required")
	}

	from, to, err := parseEntryDates(in)
	if err != nil {
		return nil, err
	}

	exp := &models.Experience{
		ProfileID:   profile.ID,
		Title:       in.Title,
		Company:     in.Company,
		Location:    in.Location,
		From:        from,
		To:          to,
		Current:     in.Current,
		Description: in.Description,
	}
	if err := s.profileRepo.AddExperience(ctx, exp); err != nil {
		return nil, err
	}
	return s.profileRepo.GetByUserID(ctx, userID)
}

// RemoveExperience deletes one work history entry by id. Absent ids are
// reported, not ignored.
func (s *ProfileService) RemoveExperience(ctx context.Context, userID, expID uint) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.profileRepo.DeleteExperience(ctx, profile.ID, expID); err != nil {
		return nil, err
	}
	return s.profileRepo.GetByUserID(ctx, userID)
}

// AddEducation prepends a schooling entry and returns the refreshed profile.
func (s *ProfileService) AddEducation(ctx context.Context, userID uint, in HistoryEntryInput) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.School) == "" {
		return nil, models.NewValidationError("School is required")
	}
	if strings.TrimSpace(in.Degree) == "" {
		return nil, models.NewValidationError("Degree is required")
	}
	if strings.TrimSpace(in.FieldOfStudy) == "" {
		return nil, models.NewValidationError("Field of study is required")
	}

	from, to, err := parseEntryDates(in)
	if err != nil {
		return nil, err
	}

	edu := &models.Education{
		ProfileID:    profile.ID,
		School:       in.School,
		Degree:       in.Degree,
		FieldOfStudy: in.FieldOfStudy,
		From:         from,
		To:           to,
		Current:      in.Current,
		Description:  in.Description,
	}
	if err := s.profileRepo.AddEducation(ctx, edu); err != nil {
		return nil, err
	}
	return s.profileRepo.GetByUserID(ctx, userID)
}

// RemoveEducation deletes one schooling entry by id.
func (s *ProfileService) RemoveEducation(ctx context.Context, userID, eduID uint) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.profileRepo.DeleteEducation(ctx, profile.ID, eduID); err != nil {
		return nil, err
	}
	return s.profileRepo.GetByUserID(ctx, userID)
}

func parseEntryDates(in HistoryEntryInput) (time.Time, *time.Time, error) {
	if strings.TrimSpace(in.From) == "" {
		return time.Time{}, nil, models.NewValidationError("From date is required")
	}
	from, err := parseDate(in.From)
	if err != nil {
		return time.Time{}, nil, models.NewValidationError("Invalid from date")
	}

	var to *time.Time
	if strings.TrimSpace(in.To) != "" {
		parsed, err := parseDate(in.To)
		if err != nil {
			return time.Time{}, nil, models.NewValidationError("Invalid to date")
		}
		to = &parsed
	}
	return from, to, nil
}

// DeleteAccount removes the user and everything hanging off the account in
// one transaction: likes and comments touching the user's posts, the posts,
// the profile with its history entries, and finally the user row.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID uint) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		postIDs := tx.Model(&models.Post{}).Select("id").Where("user_id = ?", userID)

		if err := tx.Where("post_id IN (?) OR user_id = ?", postIDs, userID).
			Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id IN (?) OR user_id = ?", postIDs, userID).
			Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("user_id = ?", userID).
			Delete(&models.Post{}).Error; err != nil {
			return err
		}

		var profile models.Profile
		if err := tx.Where("user_id = ?", userID).First(&profile).Error; err == nil {
			if err := tx.Where("profile_id = ?", profile.ID).
				Delete(&models.Experience{}).Error; err != nil {
				return err
			}
			if err := tx.Where("profile_id = ?", profile.ID).
				Delete(&models.Education{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&profile).Error; err != nil {
				return err
			}
		}

		return tx.Unscoped().Delete(&models.User{}, userID).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}

	cache.InvalidateUser(ctx, userID)
	cache.InvalidateProfile(ctx, userID)
	return nil
}
