package repositories

import (
	"context"

	"github.com/blogsphere/backend/internal/models"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUsers(ctx context.Context) ([]models.User, error)
	CountUsers(ctx context.Context) (int64, error)
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id uint) (*models.Post, error)
	// GetAllPosts returns posts newest first (created_at DESC, id DESC).
	GetAllPosts(ctx context.Context) ([]models.Post, error)
	GetPostsByUserID(ctx context.Context, userID uint) ([]models.Post, error)
	CountPosts(ctx context.Context) (int64, error)
	// DeletePostWithDependents removes the post's likes, then its comments,
	// then the post itself, in a single transaction where the backend
	// supports one.
	DeletePostWithDependents(ctx context.Context, id uint) error
}

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	// ToggleLike creates the like when absent and deletes it when present,
	// returning the new liked state. Each backend serializes the
	// check-then-act so concurrent toggles for one (user, post) pair can
	// never leave more than one row.
	ToggleLike(ctx context.Context, userID, postID uint) (bool, error)
	GetLikesCountByPostID(ctx context.Context, postID uint) (int64, error)
	HasUserLikedPost(ctx context.Context, userID, postID uint) (bool, error)
}

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	// GetCommentsByPostID returns comments ordered by created_at ascending.
	GetCommentsByPostID(ctx context.Context, postID uint) ([]models.Comment, error)
	GetCommentsCountByPostID(ctx context.Context, postID uint) (int64, error)
}

// Store bundles the four repositories of one storage backend. Services and
// handlers depend only on this; the backend is chosen at startup.
type Store struct {
	Users    UserRepository
	Posts    PostRepository
	Likes    LikeRepository
	Comments CommentRepository
}
