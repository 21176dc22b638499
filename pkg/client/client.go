// Package client is a typed Go client for the DevConnector HTTP API.
// It carries no application dependencies so external tools can import it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// APIError is a decoded non-2xx response.
type APIError struct {
	Status  int
	Code    string
	Message string
	// Fields holds per-field validation messages when the server rejected
	// the request body.
	Fields []FieldError
}

// FieldError is one failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
		}
		return fmt.Sprintf("api error %d: %s", e.Status, strings.Join(parts, "; "))
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// User mirrors the server's user resource.
type User struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// AuthResponse is returned by Register and Login.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Like mirrors one like on a post.
type Like struct {
	ID     uint `json:"id"`
	PostID uint `json:"post_id"`
	UserID uint `json:"user_id"`
}

// Comment mirrors one comment on a post.
type Comment struct {
	ID     uint   `json:"id"`
	PostID uint   `json:"post_id"`
	UserID uint   `json:"user_id"`
	Text   string `json:"text"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Post mirrors the server's post resource.
type Post struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Text      string    `json:"text"`
	Name      string    `json:"name"`
	Avatar    string    `json:"avatar"`
	Likes     []Like    `json:"likes"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"created_at"`
}

// Social mirrors a profile's social links.
type Social struct {
	Youtube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	Linkedin  string `json:"linkedin,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
}

// HistoryEntry mirrors one experience or education row.
type HistoryEntry struct {
	ID           uint       `json:"id"`
	Title        string     `json:"title,omitempty"`
	Company      string     `json:"company,omitempty"`
	School       string     `json:"school,omitempty"`
	Degree       string     `json:"degree,omitempty"`
	FieldOfStudy string     `json:"fieldofstudy,omitempty"`
	Location     string     `json:"location,omitempty"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

// Profile mirrors the server's profile resource.
type Profile struct {
	ID             uint           `json:"id"`
	UserID         uint           `json:"user_id"`
	User           User           `json:"user"`
	Company        string         `json:"company,omitempty"`
	Website        string         `json:"website,omitempty"`
	Location       string         `json:"location,omitempty"`
	Status         string         `json:"status"`
	Bio            string         `json:"bio,omitempty"`
	GithubUsername string         `json:"githubusername,omitempty"`
	Skills         []string       `json:"skills"`
	Social         Social         `json:"social"`
	Experience     []HistoryEntry `json:"experience"`
	Education      []HistoryEntry `json:"education"`
}

// ProfileInput is the upsert body. Nil fields are left untouched on update.
type ProfileInput struct {
	Status         *string `json:"status,omitempty"`
	Skills         *string `json:"skills,omitempty"`
	Company        *string `json:"company,omitempty"`
	Website        *string `json:"website,omitempty"`
	Location       *string `json:"location,omitempty"`
	Bio            *string `json:"bio,omitempty"`
	GithubUsername *string `json:"githubusername,omitempty"`
	Youtube        *string `json:"youtube,omitempty"`
	Twitter        *string `json:"twitter,omitempty"`
	Instagram      *string `json:"instagram,omitempty"`
	Linkedin       *string `json:"linkedin,omitempty"`
	Facebook       *string `json:"facebook,omitempty"`
}

// HistoryEntryInput is the body for adding experience or education.
type HistoryEntryInput struct {
	Title        string `json:"title,omitempty"`
	Company      string `json:"company,omitempty"`
	School       string `json:"school,omitempty"`
	Degree       string `json:"degree,omitempty"`
	FieldOfStudy string `json:"fieldofstudy,omitempty"`
	Location     string `json:"location,omitempty"`
	From         string `json:"from"`
	To           string `json:"to,omitempty"`
	Current      bool   `json:"current"`
	Description  string `json:"description,omitempty"`
}

// Repo mirrors a proxied GitHub repository.
type Repo struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	HTMLURL         string `json:"html_url"`
	Description     string `json:"description"`
	StargazersCount int    `json:"stargazers_count"`
	WatchersCount   int    `json:"watchers_count"`
	ForksCount      int    `json:"forks_count"`
	Language        string `json:"language"`
}

// Client talks to one DevConnector server. It issues one request per call
// and never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithToken sets the bearer token up front.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New builds a client for the given server base URL, e.g.
// "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token used on authenticated calls.
func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// decodeAPIError handles both server error shapes: the single-error taxonomy
// response and the validation errors list.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var payload struct {
		Error  string       `json:"error"`
		Code   string       `json:"code"`
		Errors []FieldError `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		apiErr.Message = resp.Status
		return apiErr
	}

	apiErr.Message = payload.Error
	apiErr.Code = payload.Code
	apiErr.Fields = payload.Errors
	if apiErr.Message == "" && len(apiErr.Fields) > 0 {
		apiErr.Message = "validation failed"
	}
	return apiErr
}

// Register creates an account and stores the returned token on the client.
func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/users", map[string]string{
		"name": name, "email": email, "password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out, nil
}

// Login exchanges credentials for a token and stores it on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, http.MethodPost, "/api/auth", map[string]string{
		"email": email, "password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out, nil
}

// CurrentUser returns the authenticated user.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/api/auth", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePost publishes a post.
func (c *Client) CreatePost(ctx context.Context, text string) (*Post, error) {
	var out Post
	if err := c.do(ctx, http.MethodPost, "/api/posts", map[string]string{"text": text}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Posts lists all posts, newest first.
func (c *Client) Posts(ctx context.Context) ([]Post, error) {
	var out []Post
	if err := c.do(ctx, http.MethodGet, "/api/posts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Post fetches one post with likes and comments.
func (c *Client) Post(ctx context.Context, id uint) (*Post, error) {
	var out Post
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/posts/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeletePost deletes the caller's post.
func (c *Client) DeletePost(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/posts/%d", id), nil, nil)
}

// LikePost likes a post and returns the updated likes list.
func (c *Client) LikePost(ctx context.Context, id uint) ([]Like, error) {
	var out []Like
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/posts/likes/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UnlikePost removes the caller's like and returns the updated likes list.
func (c *Client) UnlikePost(ctx context.Context, id uint) ([]Like, error) {
	var out []Like
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/posts/unlike/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddComment comments on a post and returns its comments, newest first.
func (c *Client) AddComment(ctx context.Context, postID uint, text string) ([]Comment, error) {
	var out []Comment
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/posts/comment/%d", postID),
		map[string]string{"text": text}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteComment removes the caller's comment and returns the remaining list.
func (c *Client) DeleteComment(ctx context.Context, postID, commentID uint) ([]Comment, error) {
	var out []Comment
	err := c.do(ctx, http.MethodDelete,
		fmt.Sprintf("/api/posts/comment/%d/%d", postID, commentID), nil, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MyProfile returns the caller's profile.
func (c *Client) MyProfile(ctx context.Context) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodGet, "/api/profile/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpsertProfile creates the caller's profile or merges the given fields.
func (c *Client) UpsertProfile(ctx context.Context, input ProfileInput) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodPost, "/api/profile", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profiles lists every developer profile.
func (c *Client) Profiles(ctx context.Context) ([]Profile, error) {
	var out []Profile
	if err := c.do(ctx, http.MethodGet, "/api/profile", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ProfileByUser fetches a profile by its owning user's ID.
func (c *Client) ProfileByUser(ctx context.Context, userID uint) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/profile/user/%d", userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAccount deletes the caller's account, profile, and posts.
func (c *Client) DeleteAccount(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/profile", nil, nil)
}

// AddExperience prepends a work history entry and returns the profile.
func (c *Client) AddExperience(ctx context.Context, input HistoryEntryInput) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodPut, "/api/profile/experience", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteExperience removes one work history entry and returns the profile.
func (c *Client) DeleteExperience(ctx context.Context, id uint) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/profile/experience/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddEducation prepends a schooling entry and returns the profile.
func (c *Client) AddEducation(ctx context.Context, input HistoryEntryInput) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodPut, "/api/profile/education", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteEducation removes one schooling entry and returns the profile.
func (c *Client) DeleteEducation(ctx context.Context, id uint) (*Profile, error) {
	var out Profile
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/profile/education/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GithubRepos lists a user's five most recently created GitHub repositories.
func (c *Client) GithubRepos(ctx context.Context, username string) ([]Repo, error) {
	var out []Repo
	if err := c.do(ctx, http.MethodGet, "/api/profile/github/"+username, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
