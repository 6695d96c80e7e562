package services

import (
	"context"
	"testing"
	"time"

	"github.com/blogsphere/backend/internal/apperr"
	"github.com/blogsphere/backend/internal/models"
	"github.com/blogsphere/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerUser(t *testing.T, store *repositories.Store, username string) *models.Identity {
	t.Helper()
	auth := NewAuthService(store.Users)
	identity, err := auth.Register(context.Background(), username, username+"@x.com", "password")
	require.NoError(t, err)
	return identity
}

func createPostAt(t *testing.T, store *repositories.Store, userID uint, title string, at time.Time) *models.Post {
	t.Helper()
	post := &models.Post{UserID: userID, Title: title, Content: "body of " + title, CreatedAt: at}
	require.NoError(t, store.Posts.CreatePost(context.Background(), post))
	return post
}

func TestCreatePostAndListPosts(t *testing.T) {
	store := newTestStore(t)
	content := NewContentService(store)
	ctx := context.Background()

	alice := registerUser(t, store, "alice")

	post, err := content.CreatePost(ctx, alice.UserID, models.CreatePostRequest{
		Title:   "Hello",
		Content: "First post",
		Images:  []string{"pic.png"},
	})
	require.NoError(t, err)
	assert.NotZero(t, post.ID)
	assert.False(t, post.CreatedAt.IsZero())

	views, err := content.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Hello", views[0].Title)
	assert.Equal(t, "alice", views[0].Author)
	assert.Equal(t, []string{"pic.png"}, views[0].Images)
	assert.EqualValues(t, 0, views[0].LikeCount)
	assert.EqualValues(t, 0, views[0].CommentCount)
}

func TestListPostsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	content := NewContentService(store)
	ctx := context.Background()

	alice := registerUser(t, store, "alice")
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	createPostAt(t, store, alice.UserID, "oldest", base)
	createPostAt(t, store, alice.UserID, "newest", base.Add(2*time.Hour))
	createPostAt(t, store, alice.UserID, "middle", base.Add(time.Hour))

	views, err := content.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, "newest", views[0].Title)
	assert.Equal(t, "middle", views[1].Title)
	assert.Equal(t, "oldest", views[2].Title)
}

func TestToggleLikeAlternates(t *testing.T) {
	store := newTestStore(t)
	content := NewContentService(store)
	ctx := context.Background()

	alice := registerUser(t, store, "alice")
	bob := registerUser(t, store, "bob")
	post := createPostAt(t, store, alice.UserID, "likeable", time.Now().UTC())

	for i := 0; i < 3; i++ {
		liked, err := content.ToggleLike(ctx, bob.UserID, post.ID)
		require.NoError(t, err)
		assert.True(t, liked)
		count, err := store.Likes.GetLikesCountByPostID(ctx, post.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)

		liked, err = content.ToggleLike(ctx, bob.UserID, post.ID)
		require.NoError(t, err)
		assert.False(t, liked)
		count, err = store.Likes.GetLikesCountByPostID(ctx, post.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 0, count)
	}
}

func TestToggleLikeUnknownPost(t *testing.T) {
	store := newTestStore(t)
	content := NewContentService(store)

	bob := registerUser(t, store, "bob")
	_, err := content.ToggleLike(context.Background(), bob.UserID, 999)
	assert.True(t, apperr.IsCode(err, apperr.ErrNotFound))
}

func TestLikeCountVisibleInListPosts(t *testing.T) {
	store := newTestStore(t)
	content := NewContentService(store)
	ctx := context.Background()

	alice := registerUser(t, store, "alice")
	bob := registerUser(t, store, "bob")
	post := createPostAt(t, store, alice.UserID, "P", time.Now().UTC())

	liked, err := content.ToggleLike(ctx, bob.UserID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	views, err := content.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.EqualValues(t, 1, views[0].LikeCount)

	liked, err = content.ToggleLike(ctx, bob.UserID, post.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	views, err = content.ListPosts(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, views[0].LikeCount)
}

func TestGetPostDetailCommentsOldestFirst(t *testing.T) {
	store := newTestStore(t)
	content := NewContentService(store)
	ctx := context.Background()

	alice := registerUser(t, store, "alice")
	bob := registerUser(t, store, "bob")
	post := createPostAt(t, store, alice.UserID, "discussed", time.Now().UTC())

	base := time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC)
	second := &models.Comment{UserID: bob.UserID, PostID: post.ID, Content: "second", CreatedAt: base.Add(time.Minute)}
	require.NoError(t, store.Comments.CreateComment(ctx, second))
	first := &models.Comment{UserID: alice.UserID, PostID: post.ID, Content: "first", CreatedAt: base}
	require.NoError(t, store.Comments.CreateComment(ctx, first))

	detail, err := content.GetPostDetail(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, detail.Comments, 2)
	assert.Equal(t, "first", detail.Comments[0].Content)
	assert.Equal(t, "alice", detail.Comments[0].Author)
	assert.Equal(t, "second", detail.Comments[1].Content)
	assert.Equal(t, "bob", detail.Comments[1].Author)
	assert.EqualValues(t, 2, detail.CommentCount)
}

func TestAddCommentStoresContentVerbatim(t *testing.T) {
	store := newTestStore(t)
	content := NewContentService(store)
	ctx := context.Background()

	alice := registerUser(t, store, "alice")
	post := createPostAt(t, store, alice.UserID, "P", time.Now().UTC())

	raw := "  <b>unsanitized</b>\n\ttext  "
	comment, err := content.AddComment(ctx, alice.UserID, post.ID, raw)
	require.NoError(t, err)
	assert.Equal(t, raw, comment.Content)

	_, err = content.AddComment(ctx, alice.UserID, 999, "orphan")
	assert.True(t, apperr.IsCode(err, apperr.ErrNotFound))
}

func TestGetPostDetailNotFound(t *testing.T) {
	store := newTestStore(t)
	content := NewContentService(store)

	_, err := content.GetPostDetail(context.Background(), 42)
	assert.True(t, apperr.IsCode(err, apperr.ErrNotFound))
}

func TestListPostsByUser(t *testing.T) {
	store := newTestStore(t)
	content := NewContentService(store)
	ctx := context.Background()

	alice := registerUser(t, store, "alice")
	bob := registerUser(t, store, "bob")
	base := time.Date(2024, 3, 3, 8, 0, 0, 0, time.UTC)
	createPostAt(t, store, alice.UserID, "alice-1", base)
	createPostAt(t, store, bob.UserID, "bob-1", base.Add(time.Minute))
	createPostAt(t, store, alice.UserID, "alice-2", base.Add(2*time.Minute))

	views, err := content.ListPostsByUser(ctx, alice.UserID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "alice-2", views[0].Title)
	assert.Equal(t, "alice-1", views[1].Title)
}
