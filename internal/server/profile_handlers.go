package server

import (
	"devconnector/internal/models"
	"devconnector/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/profile/me
// @Summary Current user's profile
// @Description Fetch the authenticated user's profile with experience and education
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Profile
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	profile, err := s.profileService.GetByUserID(c.Context(), currentUserID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(profile)
}

// UpsertProfile handles POST /api/profile
// @Summary Create or update profile
// @Description Create the caller's profile or merge the provided fields into it
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.ProfileInput true "Profile fields"
// @Success 200 {object} models.Profile
// @Failure 400 {object} models.ErrorResponse
// @Router /profile [post]
func (s *Server) UpsertProfile(c *fiber.Ctx) error {
	var req service.ProfileInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.profileService.Upsert(c.Context(), currentUserID(c), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(profile)
}

// GetProfiles handles GET /api/profile
// @Summary List profiles
// @Description List all developer profiles with their owning users
// @Tags profile
// @Produce json
// @Success 200 {array} models.Profile
// @Router /profile [get]
func (s *Server) GetProfiles(c *fiber.Ctx) error {
	profiles, err := s.profileService.List(c.Context())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if profiles == nil {
		profiles = []models.Profile{}
	}
	return c.JSON(profiles)
}

// GetProfileByUserID handles GET /api/profile/user/:userId
// @Summary Get profile by user
// @Description Fetch a user's profile by their user ID
// @Tags profile
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} models.Profile
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/user/{userId} [get]
func (s *Server) GetProfileByUserID(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	profile, err := s.profileService.GetByUserID(c.Context(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(profile)
}

// DeleteAccount handles DELETE /api/profile
// @Summary Delete account
// @Description Delete the caller's account, profile, posts, and engagement in one transaction
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{message=string}
// @Router /profile [delete]
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	if err := s.profileService.DeleteAccount(c.Context(), currentUserID(c)); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "User deleted"})
}

// AddExperience handles PUT /api/profile/experience
// @Summary Add experience
// @Description Prepend a work history entry to the caller's profile
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.HistoryEntryInput true "Experience entry"
// @Success 200 {object} models.Profile
// @Failure 400 {object} validation.ErrorsResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/experience [put]
func (s *Server) AddExperience(c *fiber.Ctx) error {
	var req service.HistoryEntryInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.profileService.AddExperience(c.Context(), currentUserID(c), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(profile)
}

// DeleteExperience handles DELETE /api/profile/experience/:expId
// @Summary Remove experience
// @Description Remove one work history entry by ID
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Param expId path int true "Experience ID"
// @Success 200 {object} models.Profile
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/experience/{expId} [delete]
func (s *Server) DeleteExperience(c *fiber.Ctx) error {
	expID, err := s.parseID(c, "expId")
	if err != nil {
		return nil
	}

	profile, err := s.profileService.RemoveExperience(c.Context(), currentUserID(c), expID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(profile)
}

// AddEducation handles PUT /api/profile/education
// @Summary Add education
// @Description Prepend a schooling entry to the caller's profile
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.HistoryEntryInput true "Education entry"
// @Success 200 {object} models.Profile
// @Failure 400 {object} validation.ErrorsResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/education [put]
func (s *Server) AddEducation(c *fiber.Ctx) error {
	var req service.HistoryEntryInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	profile, err := s.profileService.AddEducation(c.Context(), currentUserID(c), req)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(profile)
}

// DeleteEducation handles DELETE /api/profile/education/:eduId
// @Summary Remove education
// @Description Remove one schooling entry by ID
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Param eduId path int true "Education ID"
// @Success 200 {object} models.Profile
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/education/{eduId} [delete]
func (s *Server) DeleteEducation(c *fiber.Ctx) error {
	eduID, err := s.parseID(c, "eduId")
	if err != nil {
		return nil
	}

	profile, err := s.profileService.RemoveEducation(c.Context(), currentUserID(c), eduID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(profile)
}

// GetGithubRepos handles GET /api/profile/github/:username
// @Summary GitHub repos
// @Description Proxy the user's five most recently created GitHub repositories
// @Tags profile
// @Produce json
// @Param username path string true "GitHub username"
// @Success 200 {array} github.Repo
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/github/{username} [get]
func (s *Server) GetGithubRepos(c *fiber.Ctx) error {
	username := c.Params("username")
	if username == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username is required"))
	}

	repos, err := s.githubClient.Repos(c.Context(), username)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(repos)
}
