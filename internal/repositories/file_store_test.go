package repositories

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/blogsphere/backend/internal/apperr"
	"github.com/blogsphere/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreAssignsSequentialIDs(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	alice := &models.User{Username: "alice", Email: "a@x.com", PasswordHash: "h1"}
	require.NoError(t, store.Users.CreateUser(ctx, alice))
	bob := &models.User{Username: "bob", Email: "b@x.com", PasswordHash: "h2"}
	require.NoError(t, store.Users.CreateUser(ctx, bob))

	assert.EqualValues(t, 1, alice.ID)
	assert.EqualValues(t, 2, bob.ID)
	assert.False(t, alice.CreatedAt.IsZero())
}

func TestFileStoreDuplicateUser(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Users.CreateUser(ctx, &models.User{Username: "alice", Email: "a@x.com"}))

	err = store.Users.CreateUser(ctx, &models.User{Username: "alice", Email: "other@x.com"})
	assert.True(t, apperr.IsCode(err, apperr.ErrDuplicateKey))

	err = store.Users.CreateUser(ctx, &models.User{Username: "other", Email: "a@x.com"})
	assert.True(t, apperr.IsCode(err, apperr.ErrDuplicateKey))

	count, err := store.Users.CountUsers(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Users.CreateUser(ctx, &models.User{Username: "alice", Email: "a@x.com"}))
	post := &models.Post{UserID: 1, Title: "durable", Content: "still here", Images: []string{"a.png", "b.png"}}
	require.NoError(t, store.Posts.CreatePost(ctx, post))

	reopened, err := NewFileStore(dir)
	require.NoError(t, err)

	user, err := reopened.Users.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.EqualValues(t, 1, user.ID)

	got, err := reopened.Posts.GetPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "durable", got.Title)
	assert.Equal(t, []string{"a.png", "b.png"}, got.Images)
}

func TestFileStoreNotFound(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Users.GetUserByID(ctx, 1)
	assert.True(t, apperr.IsCode(err, apperr.ErrNotFound))
	_, err = store.Posts.GetPostByID(ctx, 1)
	assert.True(t, apperr.IsCode(err, apperr.ErrNotFound))
	err = store.Posts.DeletePostWithDependents(ctx, 1)
	assert.True(t, apperr.IsCode(err, apperr.ErrNotFound))
}

func TestFileStoreConcurrentToggleKeepsAtMostOneLike(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Users.CreateUser(ctx, &models.User{Username: "alice", Email: "a@x.com"}))
	post := &models.Post{UserID: 1, Title: "contended", Content: "x"}
	require.NoError(t, store.Posts.CreatePost(ctx, post))

	const togglers = 16
	var wg sync.WaitGroup
	wg.Add(togglers)
	for i := 0; i < togglers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 5; j++ {
				_, err := store.Likes.ToggleLike(ctx, 1, post.ID)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	count, err := store.Likes.GetLikesCountByPostID(ctx, post.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, count, int64(1))
}

func TestFileStoreSortsStablyOnEqualTimestamps(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	at := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	for _, title := range []string{"first", "second", "third"} {
		require.NoError(t, store.Posts.CreatePost(ctx, &models.Post{UserID: 1, Title: title, Content: "x", CreatedAt: at}))
	}

	posts, err := store.Posts.GetAllPosts(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	// Equal created_at falls back to id descending.
	assert.Equal(t, "third", posts[0].Title)
	assert.Equal(t, "second", posts[1].Title)
	assert.Equal(t, "first", posts[2].Title)
}
