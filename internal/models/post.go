package models

import "time"

// Post represents a blog post. Posts are never updated in place; they are
// only created by their author and deleted through the admin cascade.
type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index"`
	Title     string    `json:"title" gorm:"size:200"`
	Content   string    `json:"content" gorm:"type:text"`
	Images    []string  `json:"images,omitempty" gorm:"serializer:json"`
	Videos    []string  `json:"videos,omitempty" gorm:"serializer:json"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

// PostView is a Post enriched with author username and aggregate counts
// for display.
type PostView struct {
	Post
	Author       string `json:"author"`
	LikeCount    int64  `json:"like_count"`
	CommentCount int64  `json:"comment_count"`
}

// PostDetail is a PostView plus the post's comments in ascending order.
type PostDetail struct {
	PostView
	Comments []CommentView `json:"comments"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Title   string   `json:"title" validate:"required,min=1,max=200"`
	Content string   `json:"content" validate:"required,min=1"`
	Images  []string `json:"images,omitempty"`
	Videos  []string `json:"videos,omitempty"`
}
