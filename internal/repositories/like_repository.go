package repositories

import (
	"context"
	"errors"

	"github.com/blogsphere/backend/internal/models"
	"gorm.io/gorm"
)

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// ToggleLike deletes the like when present, otherwise creates it. The
// unique index on (user_id, post_id) backs the race between concurrent
// togglers: a losing insert reports duplicate-key, which means the like is
// present after all.
func (r *PostgresLikeRepository) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	var liked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			liked = false
			return nil
		}
		if err := tx.Create(&models.Like{UserID: userID, PostID: postID}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Concurrent toggle inserted first; the pair is liked.
				liked = true
				return nil
			}
			return err
		}
		liked = true
		return nil
	})
	if err != nil {
		return false, translateGormErr(err, "like")
	}
	return liked, nil
}

// GetLikesCountByPostID retrieves the count of likes for a specific post from PostgreSQL
func (r *PostgresLikeRepository) GetLikesCountByPostID(ctx context.Context, postID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
		return 0, translateGormErr(err, "likes")
	}
	return count, nil
}

// HasUserLikedPost checks if a user has liked a specific post
func (r *PostgresLikeRepository) HasUserLikedPost(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).Where("user_id = ? AND post_id = ?", userID, postID).Count(&count).Error; err != nil {
		return false, translateGormErr(err, "likes")
	}
	return count > 0, nil
}
