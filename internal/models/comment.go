package models

import "time"

// Comment represents a comment on a post. Comments are append-only and
// ordered by CreatedAt ascending within a post.
type Comment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index"`
	PostID    uint      `json:"post_id" gorm:"index"`
	Content   string    `json:"content" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentView is a Comment annotated with the commenting user's username.
type CommentView struct {
	Comment
	Author string `json:"author"`
}

// CreateCommentRequest defines the request body for creating a new comment
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}
