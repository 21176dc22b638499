package service

import (
	"context"
	"testing"

	"devconnector/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn        func(context.Context, *models.Post) error
	getByIDFn       func(context.Context, uint) (*models.Post, error)
	listFn          func(context.Context) ([]models.Post, error)
	deleteFn        func(context.Context, uint) error
	isLikedFn       func(context.Context, uint, uint) (bool, error)
	likeFn          func(context.Context, uint, uint) error
	unlikeFn        func(context.Context, uint, uint) (bool, error)
	listLikesFn     func(context.Context, uint) ([]models.Like, error)
	addCommentFn    func(context.Context, *models.Comment) error
	getCommentFn    func(context.Context, uint, uint) (*models.Comment, error)
	deleteCommentFn func(context.Context, uint, uint) error
	listCommentsFn  func(context.Context, uint) ([]models.Comment, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context) ([]models.Post, error) {
	return s.listFn(ctx)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, postID)
}
func (s *postRepoStub) Like(ctx context.Context, userID, postID uint) error {
	return s.likeFn(ctx, userID, postID)
}
func (s *postRepoStub) Unlike(ctx context.Context, userID, postID uint) (bool, error) {
	return s.unlikeFn(ctx, userID, postID)
}
func (s *postRepoStub) ListLikes(ctx context.Context, postID uint) ([]models.Like, error) {
	return s.listLikesFn(ctx, postID)
}
func (s *postRepoStub) AddComment(ctx context.Context, comment *models.Comment) error {
	return s.addCommentFn(ctx, comment)
}
func (s *postRepoStub) GetComment(ctx context.Context, postID, commentID uint) (*models.Comment, error) {
	return s.getCommentFn(ctx, postID, commentID)
}
func (s *postRepoStub) DeleteComment(ctx context.Context, postID, commentID uint) error {
	return s.deleteCommentFn(ctx, postID, commentID)
}
func (s *postRepoStub) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	return s.listCommentsFn(ctx, postID)
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn    func(context.Context, uint) (*models.User, error)
	getByEmailFn func(context.Context, string) (*models.User, error)
	createFn     func(context.Context, *models.User) error
	updateFn     func(context.Context, *models.User) error
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:        func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:       func(_ context.Context, _ uint) (*models.Post, error) { return &models.Post{}, nil },
		listFn:          func(_ context.Context) ([]models.Post, error) { return nil, nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
		isLikedFn:       func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		likeFn:          func(_ context.Context, _, _ uint) error { return nil },
		unlikeFn:        func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		listLikesFn:     func(_ context.Context, _ uint) ([]models.Like, error) { return nil, nil },
		addCommentFn:    func(_ context.Context, _ *models.Comment) error { return nil },
		getCommentFn:    func(_ context.Context, _, _ uint) (*models.Comment, error) { return &models.Comment{}, nil },
		deleteCommentFn: func(_ context.Context, _, _ uint) error { return nil },
		listCommentsFn:  func(_ context.Context, _ uint) ([]models.Comment, error) { return nil, nil },
	}
}

func stubUserRepo(user *models.User) *userRepoStub {
	return &userRepoStub{
		getByIDFn:    func(_ context.Context, _ uint) (*models.User, error) { return user, nil },
		getByEmailFn: func(_ context.Context, _ string) (*models.User, error) { return user, nil },
		createFn:     func(_ context.Context, _ *models.User) error { return nil },
		updateFn:     func(_ context.Context, _ *models.User) error { return nil },
	}
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func TestCreatePost_SnapshotsAuthor(t *testing.T) {
	posts := noopPostRepo()
	var created *models.Post
	posts.createFn = func(_ context.Context, post *models.Post) error {
		created = post
		return nil
	}
	users := stubUserRepo(&models.User{ID: 1, Name: "Ada", Avatar: "//gravatar/ada"})
	svc := NewPostService(posts, users)

	post, err := svc.CreatePost(context.Background(), CreatePostInput{UserID: 1, Text: "hello"})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "Ada", post.Name)
	assert.Equal(t, "//gravatar/ada", post.Avatar)
	assert.NotNil(t, post.Likes)
	assert.NotNil(t, post.Comments)
}

func TestCreatePost_RejectsBlankText(t *testing.T) {
	svc := NewPostService(noopPostRepo(), stubUserRepo(&models.User{ID: 1}))

	_, err := svc.CreatePost(context.Background(), CreatePostInput{UserID: 1, Text: "   "})
	assertAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestDeletePost_OnlyAuthor(t *testing.T) {
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
		return &models.Post{ID: 1, UserID: 2}, nil
	}
	svc := NewPostService(posts, stubUserRepo(&models.User{ID: 1}))

	err := svc.DeletePost(context.Background(), 1, 1)
	assertAppErrorCode(t, err, "FORBIDDEN")
}

func TestDeletePost_AuthorSucceeds(t *testing.T) {
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
		return &models.Post{ID: 1, UserID: 1}, nil
	}
	deleted := false
	posts.deleteFn = func(_ context.Context, _ uint) error {
		deleted = true
		return nil
	}
	svc := NewPostService(posts, stubUserRepo(&models.User{ID: 1}))

	require.NoError(t, svc.DeletePost(context.Background(), 1, 1))
	assert.True(t, deleted)
}

func TestLikePost_DoubleLikeConflicts(t *testing.T) {
	posts := noopPostRepo()
	posts.isLikedFn = func(_ context.Context, _, _ uint) (bool, error) { return true, nil }
	svc := NewPostService(posts, stubUserRepo(&models.User{ID: 1}))

	_, err := svc.LikePost(context.Background(), 1, 1)
	assertAppErrorCode(t, err, "CONFLICT")
}

func TestLikePost_ReturnsUpdatedLikes(t *testing.T) {
	posts := noopPostRepo()
	posts.listLikesFn = func(_ context.Context, _ uint) ([]models.Like, error) {
		return []models.Like{{ID: 1, PostID: 1, UserID: 1}}, nil
	}
	svc := NewPostService(posts, stubUserRepo(&models.User{ID: 1}))

	likes, err := svc.LikePost(context.Background(), 1, 1)
	require.NoError(t, err)
	require.Len(t, likes, 1)
	assert.Equal(t, uint(1), likes[0].UserID)
}

func TestLikePost_MissingPost(t *testing.T) {
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		return nil, models.NewNotFoundError("Post", id)
	}
	svc := NewPostService(posts, stubUserRepo(&models.User{ID: 1}))

	_, err := svc.LikePost(context.Background(), 1, 42)
	assertAppErrorCode(t, err, "NOT_FOUND")
}

func TestUnlikePost_WithoutLikeConflicts(t *testing.T) {
	posts := noopPostRepo()
	posts.unlikeFn = func(_ context.Context, _, _ uint) (bool, error) { return false, nil }
	svc := NewPostService(posts, stubUserRepo(&models.User{ID: 1}))

	_, err := svc.UnlikePost(context.Background(), 1, 1)
	assertAppErrorCode(t, err, "CONFLICT")
}

func TestAddComment_SnapshotsAuthor(t *testing.T) {
	posts := noopPostRepo()
	var added *models.Comment
	posts.addCommentFn = func(_ context.Context, comment *models.Comment) error {
		added = comment
		return nil
	}
	posts.listCommentsFn = func(_ context.Context, _ uint) ([]models.Comment, error) {
		return []models.Comment{{ID: 1, Text: "nice"}}, nil
	}
	users := stubUserRepo(&models.User{ID: 1, Name: "Ada", Avatar: "//gravatar/ada"})
	svc := NewPostService(posts, users)

	comments, err := svc.AddComment(context.Background(), CommentInput{UserID: 1, PostID: 1, Text: "nice"})
	require.NoError(t, err)
	require.NotNil(t, added)
	assert.Equal(t, "Ada", added.Name)
	assert.Len(t, comments, 1)
}

func TestDeleteComment_OnlyAuthor(t *testing.T) {
	posts := noopPostRepo()
	posts.getCommentFn = func(_ context.Context, _, _ uint) (*models.Comment, error) {
		return &models.Comment{ID: 5, PostID: 1, UserID: 2}, nil
	}
	svc := NewPostService(posts, stubUserRepo(&models.User{ID: 1}))

	_, err := svc.DeleteComment(context.Background(), 1, 1, 5)
	assertAppErrorCode(t, err, "FORBIDDEN")
}

func TestDeleteComment_MissingComment(t *testing.T) {
	posts := noopPostRepo()
	posts.getCommentFn = func(_ context.Context, _, commentID uint) (*models.Comment, error) {
		return nil, models.NewNotFoundError("Comment", commentID)
	}
	svc := NewPostService(posts, stubUserRepo(&models.User{ID: 1}))

	_, err := svc.DeleteComment(context.Background(), 1, 1, 99)
	assertAppErrorCode(t, err, "NOT_FOUND")
}
