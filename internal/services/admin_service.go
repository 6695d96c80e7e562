package services

import (
	"context"

	"github.com/blogsphere/backend/internal/apperr"
	"github.com/blogsphere/backend/internal/models"
	"github.com/blogsphere/backend/internal/repositories"
)

// AdminService handles moderation and dashboard reads. Every operation
// takes the caller's Identity and performs the admin check itself, so
// handlers never have to remember to.
type AdminService struct {
	store *repositories.Store
}

// DashboardStats is the aggregate block shown on the admin dashboard.
type DashboardStats struct {
	TotalPosts int64 `json:"total_posts"`
	TotalUsers int64 `json:"total_users"`
}

// NewAdminService creates a new AdminService
func NewAdminService(store *repositories.Store) *AdminService {
	return &AdminService{store: store}
}

func requireAdmin(identity models.Identity) error {
	if !identity.IsAdmin {
		return apperr.NewForbidden("admin privileges required")
	}
	return nil
}

// DeletePost removes a post together with all its likes and comments.
func (s *AdminService) DeletePost(ctx context.Context, identity models.Identity, postID uint) error {
	if err := requireAdmin(identity); err != nil {
		return err
	}
	return s.store.Posts.DeletePostWithDependents(ctx, postID)
}

// ListUsersWithStats returns every user plus the dashboard aggregates.
func (s *AdminService) ListUsersWithStats(ctx context.Context, identity models.Identity) ([]models.User, DashboardStats, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, DashboardStats{}, err
	}
	users, err := s.store.Users.GetUsers(ctx)
	if err != nil {
		return nil, DashboardStats{}, err
	}
	totalPosts, err := s.store.Posts.CountPosts(ctx)
	if err != nil {
		return nil, DashboardStats{}, err
	}
	return users, DashboardStats{
		TotalPosts: totalPosts,
		TotalUsers: int64(len(users)),
	}, nil
}
