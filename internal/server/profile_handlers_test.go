package server

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"devconnector/internal/github"
	"devconnector/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestProfile(t *testing.T, app *fiber.App, token string) models.Profile {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/profile", token, map[string]interface{}{
		"status":   "Developer",
		"skills":   "Go, SQL, Docker",
		"company":  "Acme",
		"location": "Berlin",
		"twitter":  "https://twitter.com/ada",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var profile models.Profile
	decodeBody(t, resp, &profile)
	return profile
}

func TestUpsertProfile(t *testing.T) {
	s, app, db := newTestServer(t)
	_, token := registerTestUser(t, s, db, "Ada", "ada@example.com")

	t.Run("me before create", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/profile/me", token, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	profile := createTestProfile(t, app, token)
	assert.Equal(t, "Developer", profile.Status)
	assert.Equal(t, []string{"Go", "SQL", "Docker"}, profile.Skills)
	assert.Equal(t, "https://twitter.com/ada", profile.Social.Twitter)

	t.Run("create requires status and skills", func(t *testing.T) {
		_, otherToken := registerTestUser(t, s, db, "Bob", "bob@example.com")
		resp := doJSON(t, app, http.MethodPost, "/api/profile", otherToken, map[string]interface{}{
			"company": "Acme",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("partial update preserves fields", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/profile", token, map[string]interface{}{
			"location": "London",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var updated models.Profile
		decodeBody(t, resp, &updated)
		assert.Equal(t, profile.ID, updated.ID)
		assert.Equal(t, "London", updated.Location)
		assert.Equal(t, "Developer", updated.Status)
		assert.Equal(t, "https://twitter.com/ada", updated.Social.Twitter)
	})

	t.Run("me after create", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/profile/me", token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got models.Profile
		decodeBody(t, resp, &got)
		assert.Equal(t, profile.ID, got.ID)
		assert.Equal(t, "Ada", got.User.Name)
	})
}

func TestListProfilesAndGetByUser(t *testing.T) {
	s, app, db := newTestServer(t)
	user, token := registerTestUser(t, s, db, "Ada", "ada@example.com")

	t.Run("empty list", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/profile", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var profiles []models.Profile
		decodeBody(t, resp, &profiles)
		assert.Empty(t, profiles)
	})

	createTestProfile(t, app, token)

	t.Run("list includes user", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/profile", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var profiles []models.Profile
		decodeBody(t, resp, &profiles)
		require.Len(t, profiles, 1)
		assert.Equal(t, "Ada", profiles[0].User.Name)
	})

	t.Run("by user id", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/profile/user/%d", user.ID), "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got models.Profile
		decodeBody(t, resp, &got)
		assert.Equal(t, user.ID, got.UserID)
	})

	t.Run("unknown user", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/profile/user/9999", "", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("malformed user id", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/profile/user/abc", "", nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestExperienceEndpoints(t *testing.T) {
	s, app, db := newTestServer(t)
	_, token := registerTestUser(t, s, db, "Ada", "ada@example.com")
	createTestProfile(t, app, token)

	t.Run("missing required fields", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPut, "/api/profile/experience", token, map[string]interface{}{
			"title": "Engineer",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	resp := doJSON(t, app, http.MethodPut, "/api/profile/experience", token, map[string]interface{}{
		"title":   "Engineer",
		"company": "Acme",
		"from":    "2020-01-15",
		"current": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var profile models.Profile
	decodeBody(t, resp, &profile)
	require.Len(t, profile.Experience, 1)
	assert.Equal(t, "Engineer", profile.Experience[0].Title)
	assert.True(t, profile.Experience[0].Current)
	expID := profile.Experience[0].ID

	t.Run("delete absent entry", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodDelete, "/api/profile/experience/9999", token, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("delete entry", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodDelete,
			fmt.Sprintf("/api/profile/experience/%d", expID), token, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var updated models.Profile
		decodeBody(t, resp, &updated)
		assert.Empty(t, updated.Experience)
	})
}

func TestEducationEndpoints(t *testing.T) {
	s, app, db := newTestServer(t)
	_, token := registerTestUser(t, s, db, "Ada", "ada@example.com")
	createTestProfile(t, app, token)

	resp := doJSON(t, app, http.MethodPut, "/api/profile/education", token, map[string]interface{}{
		"school":       "MIT",
		"degree":       "BSc",
		"fieldofstudy": "CS",
		"from":         "2015-09-01",
		"to":           "2019-06-01",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var profile models.Profile
	decodeBody(t, resp, &profile)
	require.Len(t, profile.Education, 1)
	assert.Equal(t, "MIT", profile.Education[0].School)
	eduID := profile.Education[0].ID

	resp = doJSON(t, app, http.MethodDelete,
		fmt.Sprintf("/api/profile/education/%d", eduID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Profile
	decodeBody(t, resp, &updated)
	assert.Empty(t, updated.Education)
}

func TestDeleteAccountEndpoint(t *testing.T) {
	s, app, db := newTestServer(t)
	user, token := registerTestUser(t, s, db, "Ada", "ada@example.com")
	createTestProfile(t, app, token)
	createTestPost(t, app, token, "goodbye")

	resp := doJSON(t, app, http.MethodDelete, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "User deleted", body["message"])

	var users, profiles, posts int64
	db.Unscoped().Model(&models.User{}).Where("id = ?", user.ID).Count(&users)
	db.Model(&models.Profile{}).Where("user_id = ?", user.ID).Count(&profiles)
	db.Unscoped().Model(&models.Post{}).Where("user_id = ?", user.ID).Count(&posts)
	assert.Zero(t, users)
	assert.Zero(t, profiles)
	assert.Zero(t, posts)

	t.Run("token for deleted user rejected", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/auth", token, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestGithubReposEndpoint(t *testing.T) {
	s, app, _ := newTestServer(t)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/octocat/repos" {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"Not Found"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"id":1,"name":"hello-world","html_url":"https://github.com/octocat/hello-world","stargazers_count":42}]`)
	}))
	defer upstream.Close()

	s.githubClient = github.NewClient("", github.WithBaseURL(upstream.URL))

	t.Run("repos returned", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/profile/github/octocat", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var repos []github.Repo
		decodeBody(t, resp, &repos)
		require.Len(t, repos, 1)
		assert.Equal(t, "hello-world", repos[0].Name)
	})

	t.Run("unknown username maps to 404", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/profile/github/nobody", "", nil)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)

		var body models.ErrorResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, "No Github profile found", body.Error)
		assert.Equal(t, "UPSTREAM_ERROR", body.Code)
	})
}
