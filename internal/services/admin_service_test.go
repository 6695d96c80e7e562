package services

import (
	"context"
	"testing"
	"time"

	"github.com/blogsphere/backend/internal/apperr"
	"github.com/blogsphere/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeletePostCascades(t *testing.T) {
	store := newTestStore(t)
	content := NewContentService(store)
	admin := NewAdminService(store)
	ctx := context.Background()

	alice := registerUser(t, store, "alice")
	bob := registerUser(t, store, "bob")
	doomed := createPostAt(t, store, alice.UserID, "doomed", time.Now().UTC())
	kept := createPostAt(t, store, alice.UserID, "kept", time.Now().UTC())

	_, err := content.ToggleLike(ctx, bob.UserID, doomed.ID)
	require.NoError(t, err)
	_, err = content.ToggleLike(ctx, bob.UserID, kept.ID)
	require.NoError(t, err)
	_, err = content.AddComment(ctx, bob.UserID, doomed.ID, "so long")
	require.NoError(t, err)

	adminIdentity := models.Identity{UserID: 99, Username: "admin", IsAdmin: true}
	require.NoError(t, admin.DeletePost(ctx, adminIdentity, doomed.ID))

	_, err = content.GetPostDetail(ctx, doomed.ID)
	assert.True(t, apperr.IsCode(err, apperr.ErrNotFound))

	likeCount, err := store.Likes.GetLikesCountByPostID(ctx, doomed.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, likeCount)
	commentCount, err := store.Comments.GetCommentsCountByPostID(ctx, doomed.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, commentCount)

	// The other post and its like are untouched.
	detail, err := content.GetPostDetail(ctx, kept.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, detail.LikeCount)
}

func TestDeletePostRequiresAdmin(t *testing.T) {
	store := newTestStore(t)
	admin := NewAdminService(store)
	ctx := context.Background()

	alice := registerUser(t, store, "alice")
	post := createPostAt(t, store, alice.UserID, "mine", time.Now().UTC())

	err := admin.DeletePost(ctx, models.Identity{UserID: alice.UserID, Username: "alice"}, post.ID)
	assert.True(t, apperr.IsCode(err, apperr.ErrForbidden))

	// Post survives the refused delete.
	_, err = store.Posts.GetPostByID(ctx, post.ID)
	assert.NoError(t, err)
}

func TestDeletePostNotFound(t *testing.T) {
	store := newTestStore(t)
	admin := NewAdminService(store)

	err := admin.DeletePost(context.Background(), models.Identity{IsAdmin: true}, 404)
	assert.True(t, apperr.IsCode(err, apperr.ErrNotFound))
}

func TestListUsersWithStats(t *testing.T) {
	store := newTestStore(t)
	admin := NewAdminService(store)
	ctx := context.Background()

	alice := registerUser(t, store, "alice")
	registerUser(t, store, "bob")
	createPostAt(t, store, alice.UserID, "one", time.Now().UTC())
	createPostAt(t, store, alice.UserID, "two", time.Now().UTC())

	adminIdentity := models.Identity{Username: "admin", IsAdmin: true}
	users, stats, err := admin.ListUsersWithStats(ctx, adminIdentity)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.EqualValues(t, 2, stats.TotalPosts)
	assert.EqualValues(t, 2, stats.TotalUsers)

	_, _, err = admin.ListUsersWithStats(ctx, models.Identity{Username: "bob"})
	assert.True(t, apperr.IsCode(err, apperr.ErrForbidden))
}
