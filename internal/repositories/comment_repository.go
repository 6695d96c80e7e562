package repositories

import (
	"context"

	"github.com/blogsphere/backend/internal/models"
	"gorm.io/gorm"
)

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateComment creates a new comment in PostgreSQL
func (r *PostgresCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return translateGormErr(err, "comment")
	}
	return nil
}

// GetCommentsByPostID retrieves all comments for a specific post from
// PostgreSQL, oldest first
func (r *PostgresCommentRepository) GetCommentsByPostID(ctx context.Context, postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	if err := r.db.WithContext(ctx).Where("post_id = ?", postID).Order("created_at ASC, id ASC").Find(&comments).Error; err != nil {
		return nil, translateGormErr(err, "comments")
	}
	return comments, nil
}

// GetCommentsCountByPostID retrieves the count of comments for a specific post from PostgreSQL
func (r *PostgresCommentRepository) GetCommentsCountByPostID(ctx context.Context, postID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, translateGormErr(err, "comments")
	}
	return count, nil
}
