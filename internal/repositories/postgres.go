package repositories

import (
	"errors"

	"github.com/blogsphere/backend/internal/apperr"
	"gorm.io/gorm"
)

// NewPostgresStore assembles the GORM-backed store. The *gorm.DB must be
// opened with TranslateError enabled so unique violations surface as
// gorm.ErrDuplicatedKey.
func NewPostgresStore(db *gorm.DB) *Store {
	return &Store{
		Users:    NewPostgresUserRepository(db),
		Posts:    NewPostgresPostRepository(db),
		Likes:    NewPostgresLikeRepository(db),
		Comments: NewPostgresCommentRepository(db),
	}
}

// translateGormErr maps GORM driver errors onto the application taxonomy.
func translateGormErr(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NewNotFound(what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.NewDuplicateKey(what)
	default:
		return apperr.NewStoreUnavailable(err)
	}
}
