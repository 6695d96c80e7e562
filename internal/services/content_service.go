package services

import (
	"context"

	"github.com/blogsphere/backend/internal/models"
	"github.com/blogsphere/backend/internal/repositories"
)

// ContentService composes posts with their author and aggregate counts.
// It holds no state of its own; every call re-reads the store.
type ContentService struct {
	store *repositories.Store
}

// NewContentService creates a new ContentService
func NewContentService(store *repositories.Store) *ContentService {
	return &ContentService{store: store}
}

// CreatePost stores a new post authored by the given user.
func (s *ContentService) CreatePost(ctx context.Context, userID uint, req models.CreatePostRequest) (*models.Post, error) {
	post := &models.Post{
		UserID:  userID,
		Title:   req.Title,
		Content: req.Content,
		Images:  req.Images,
		Videos:  req.Videos,
	}
	if err := s.store.Posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ListPosts returns every post, newest first, joined with its author's
// username and like/comment counts.
func (s *ContentService) ListPosts(ctx context.Context) ([]models.PostView, error) {
	posts, err := s.store.Posts.GetAllPosts(ctx)
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, posts)
}

// ListPostsByUser returns one user's posts, newest first, with counts.
func (s *ContentService) ListPostsByUser(ctx context.Context, userID uint) ([]models.PostView, error) {
	posts, err := s.store.Posts.GetPostsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.buildViews(ctx, posts)
}

// GetPostDetail returns one post's view plus its comments oldest first,
// each annotated with the commenter's username.
func (s *ContentService) GetPostDetail(ctx context.Context, postID uint) (*models.PostDetail, error) {
	post, err := s.store.Posts.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	usernames := map[uint]string{}
	view, err := s.buildView(ctx, *post, usernames)
	if err != nil {
		return nil, err
	}

	comments, err := s.store.Comments.GetCommentsByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	commentViews := make([]models.CommentView, 0, len(comments))
	for _, c := range comments {
		author, err := s.username(ctx, c.UserID, usernames)
		if err != nil {
			return nil, err
		}
		commentViews = append(commentViews, models.CommentView{Comment: c, Author: author})
	}

	return &models.PostDetail{PostView: *view, Comments: commentViews}, nil
}

// ToggleLike flips the like state for (userID, postID) and returns the new
// state. The store serializes the check-then-act.
func (s *ContentService) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	if _, err := s.store.Posts.GetPostByID(ctx, postID); err != nil {
		return false, err
	}
	return s.store.Likes.ToggleLike(ctx, userID, postID)
}

// AddComment appends a comment to a post. Content is stored verbatim.
func (s *ContentService) AddComment(ctx context.Context, userID, postID uint, content string) (*models.Comment, error) {
	if _, err := s.store.Posts.GetPostByID(ctx, postID); err != nil {
		return nil, err
	}
	comment := &models.Comment{
		UserID:  userID,
		PostID:  postID,
		Content: content,
	}
	if err := s.store.Comments.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *ContentService) buildViews(ctx context.Context, posts []models.Post) ([]models.PostView, error) {
	usernames := map[uint]string{}
	views := make([]models.PostView, 0, len(posts))
	for _, post := range posts {
		view, err := s.buildView(ctx, post, usernames)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *ContentService) buildView(ctx context.Context, post models.Post, usernames map[uint]string) (*models.PostView, error) {
	author, err := s.username(ctx, post.UserID, usernames)
	if err != nil {
		return nil, err
	}
	likeCount, err := s.store.Likes.GetLikesCountByPostID(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	commentCount, err := s.store.Comments.GetCommentsCountByPostID(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	return &models.PostView{
		Post:         post,
		Author:       author,
		LikeCount:    likeCount,
		CommentCount: commentCount,
	}, nil
}

// username resolves a user id to its username through a per-call cache.
func (s *ContentService) username(ctx context.Context, userID uint, cache map[uint]string) (string, error) {
	if name, ok := cache[userID]; ok {
		return name, nil
	}
	user, err := s.store.Users.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}
	cache[userID] = user.Username
	return user.Username, nil
}
