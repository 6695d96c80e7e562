package services

import (
	"context"
	"log"

	"github.com/blogsphere/backend/internal/apperr"
	"github.com/blogsphere/backend/internal/models"
	"github.com/blogsphere/backend/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

// DefaultAdminPassword is the documented bootstrap credential, kept for
// compatibility with existing deployments. Startup logs a loud warning
// whenever it is still in use; override with ADMIN_PASSWORD.
const DefaultAdminPassword = "admin123"

// AuthService verifies credentials and registers new users.
type AuthService struct {
	users repositories.UserRepository

	// Hash compared against in the unknown-user path so authentication
	// does roughly the same work whether or not the username exists.
	dummyHash []byte
}

// NewAuthService creates a new AuthService
func NewAuthService(users repositories.UserRepository) *AuthService {
	dummy, err := bcrypt.GenerateFromPassword([]byte("placeholder-for-constant-work"), bcrypt.DefaultCost)
	if err != nil {
		// bcrypt only fails on an out-of-range cost, which DefaultCost is not.
		panic(err)
	}
	return &AuthService{users: users, dummyHash: dummy}
}

// Register creates a new non-admin user. A taken username or email yields
// a DuplicateKey error from the store.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.Identity, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.New(apperr.ErrInvalidInput, "Failed to hash password", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsAdmin:      false,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return &models.Identity{UserID: user.ID, Username: user.Username, IsAdmin: user.IsAdmin}, nil
}

// Authenticate checks a username/password pair. Unknown usernames and wrong
// passwords both return the same INVALID_CREDENTIALS error; callers cannot
// tell the two apart.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.Identity, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if apperr.IsCode(err, apperr.ErrNotFound) {
			bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, apperr.NewInvalidCredentials()
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.NewInvalidCredentials()
	}
	return &models.Identity{UserID: user.ID, Username: user.Username, IsAdmin: user.IsAdmin}, nil
}

// SeedAdmin creates the bootstrap admin account if no user named "admin"
// exists yet. Safe to call on every startup.
func (s *AuthService) SeedAdmin(ctx context.Context, password string) error {
	_, err := s.users.GetUserByUsername(ctx, "admin")
	if err == nil {
		return nil
	}
	if !apperr.IsCode(err, apperr.ErrNotFound) {
		return err
	}

	if password == "" {
		password = DefaultAdminPassword
	}
	if password == DefaultAdminPassword {
		log.Println("WARNING: admin account seeded with the default password; set ADMIN_PASSWORD before exposing this instance")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &models.User{
		Username:     "admin",
		Email:        "admin@example.com",
		PasswordHash: string(hash),
		IsAdmin:      true,
	}
	if err := s.users.CreateUser(ctx, admin); err != nil {
		// A concurrent seeder got there first.
		if apperr.IsCode(err, apperr.ErrDuplicateKey) {
			return nil
		}
		return err
	}
	log.Println("Admin user created: username=admin")
	return nil
}
