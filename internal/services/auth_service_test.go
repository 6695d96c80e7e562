package services

import (
	"context"
	"testing"

	"github.com/blogsphere/backend/internal/apperr"
	"github.com/blogsphere/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestStore backs the services with the flat-file store in a temp dir,
// so the tests exercise a real backend end to end.
func newTestStore(t *testing.T) *repositories.Store {
	t.Helper()
	store, err := repositories.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestRegisterAndAuthenticate(t *testing.T) {
	store := newTestStore(t)
	auth := NewAuthService(store.Users)
	ctx := context.Background()

	identity, err := auth.Register(ctx, "alice", "a@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "alice", identity.Username)
	assert.False(t, identity.IsAdmin)
	assert.NotZero(t, identity.UserID)

	// Same username, different email
	_, err = auth.Register(ctx, "alice", "b@x.com", "pw2")
	assert.True(t, apperr.IsCode(err, apperr.ErrDuplicateKey))

	// Exactly one stored user besides none seeded
	users, err := store.Users.GetUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	_, err = auth.Authenticate(ctx, "alice", "wrong")
	assert.True(t, apperr.IsCode(err, apperr.ErrInvalidCredentials))

	got, err := auth.Authenticate(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, identity.UserID, got.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := newTestStore(t)
	auth := NewAuthService(store.Users)
	ctx := context.Background()

	_, err := auth.Register(ctx, "alice", "a@x.com", "pw1")
	require.NoError(t, err)

	_, err = auth.Register(ctx, "bob", "a@x.com", "pw2")
	assert.True(t, apperr.IsCode(err, apperr.ErrDuplicateKey))
}

func TestAuthenticateUnknownUserLooksLikeWrongPassword(t *testing.T) {
	store := newTestStore(t)
	auth := NewAuthService(store.Users)
	ctx := context.Background()

	_, err := auth.Register(ctx, "alice", "a@x.com", "pw1")
	require.NoError(t, err)

	_, unknownErr := auth.Authenticate(ctx, "nobody", "pw1")
	_, wrongErr := auth.Authenticate(ctx, "alice", "wrong")

	// The two failure modes must be indistinguishable to the caller.
	assert.True(t, apperr.IsCode(unknownErr, apperr.ErrInvalidCredentials))
	assert.True(t, apperr.IsCode(wrongErr, apperr.ErrInvalidCredentials))
	assert.Equal(t, wrongErr.Error(), unknownErr.Error())
}

func TestSeedAdmin(t *testing.T) {
	store := newTestStore(t)
	auth := NewAuthService(store.Users)
	ctx := context.Background()

	require.NoError(t, auth.SeedAdmin(ctx, ""))
	// Idempotent on restart
	require.NoError(t, auth.SeedAdmin(ctx, ""))

	users, err := store.Users.GetUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	identity, err := auth.Authenticate(ctx, "admin", DefaultAdminPassword)
	require.NoError(t, err)
	assert.True(t, identity.IsAdmin)
}

func TestSeedAdminCustomPassword(t *testing.T) {
	store := newTestStore(t)
	auth := NewAuthService(store.Users)
	ctx := context.Background()

	require.NoError(t, auth.SeedAdmin(ctx, "s3cret-override"))

	_, err := auth.Authenticate(ctx, "admin", DefaultAdminPassword)
	assert.True(t, apperr.IsCode(err, apperr.ErrInvalidCredentials))

	identity, err := auth.Authenticate(ctx, "admin", "s3cret-override")
	require.NoError(t, err)
	assert.True(t, identity.IsAdmin)
}
