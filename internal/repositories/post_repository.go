package repositories

import (
	"context"

	"github.com/blogsphere/backend/internal/models"
	"gorm.io/gorm"
)

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// CreatePost creates a new post in PostgreSQL
func (r *PostgresPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return translateGormErr(err, "post")
	}
	return nil
}

// GetPostByID retrieves a post by ID from PostgreSQL
func (r *PostgresPostRepository) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, translateGormErr(err, "post")
	}
	return &post, nil
}

// GetAllPosts retrieves all posts from PostgreSQL, newest first
func (r *PostgresPostRepository) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&posts).Error; err != nil {
		return nil, translateGormErr(err, "posts")
	}
	return posts, nil
}

// GetPostsByUserID retrieves posts by a specific user from PostgreSQL, newest first
func (r *PostgresPostRepository) GetPostsByUserID(ctx context.Context, userID uint) ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&posts).Error; err != nil {
		return nil, translateGormErr(err, "posts")
	}
	return posts, nil
}

// CountPosts returns the total number of posts in PostgreSQL
func (r *PostgresPostRepository) CountPosts(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&count).Error; err != nil {
		return 0, translateGormErr(err, "posts")
	}
	return count, nil
}

// DeletePostWithDependents deletes a post together with its likes and
// comments inside one transaction: likes, then comments, then the post.
func (r *PostgresPostRepository) DeletePostWithDependents(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return translateGormErr(err, "post")
}
