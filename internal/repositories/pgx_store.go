package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/blogsphere/backend/internal/apperr"
	"github.com/blogsphere/backend/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// Alternate relational backend: hand-written SQL over database/sql with the
// pgx stdlib driver, no ORM. Same schema and semantics as the GORM backend.

const pgxSchema = `
CREATE TABLE IF NOT EXISTS users (
	id SERIAL PRIMARY KEY,
	username VARCHAR(80) UNIQUE NOT NULL,
	email VARCHAR(120) UNIQUE NOT NULL,
	password_hash VARCHAR(255) NOT NULL,
	is_admin BOOLEAN DEFAULT FALSE,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS posts (
	id SERIAL PRIMARY KEY,
	user_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
	title VARCHAR(200) NOT NULL,
	content TEXT NOT NULL,
	images TEXT,
	videos TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE IF NOT EXISTS likes (
	id SERIAL PRIMARY KEY,
	user_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
	post_id INTEGER REFERENCES posts(id) ON DELETE CASCADE,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(user_id, post_id)
);
CREATE TABLE IF NOT EXISTS comments (
	id SERIAL PRIMARY KEY,
	user_id INTEGER REFERENCES users(id) ON DELETE CASCADE,
	post_id INTEGER REFERENCES posts(id) ON DELETE CASCADE,
	content TEXT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`

// NewPgxStore creates the tables if they do not exist and assembles a Store
// backed by plain SQL.
func NewPgxStore(ctx context.Context, db *sql.DB) (*Store, error) {
	if _, err := db.ExecContext(ctx, pgxSchema); err != nil {
		return nil, apperr.NewStoreUnavailable(err)
	}
	return &Store{
		Users:    &PgxUserRepository{db: db},
		Posts:    &PgxPostRepository{db: db},
		Likes:    &PgxLikeRepository{db: db},
		Comments: &PgxCommentRepository{db: db},
	}, nil
}

// translatePgxErr maps driver errors onto the application taxonomy.
// 23505 is the SQLSTATE for unique violations.
func translatePgxErr(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NewNotFound(what)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apperr.NewDuplicateKey(what)
	}
	return apperr.NewStoreUnavailable(err)
}

// Media filename lists are stored as JSON-encoded text, NULL when empty,
// matching the relational schema.
func encodeMedia(files []string) (sql.NullString, error) {
	if len(files) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(files)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func decodeMedia(raw sql.NullString) ([]string, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var files []string
	if err := json.Unmarshal([]byte(raw.String), &files); err != nil {
		return nil, err
	}
	return files, nil
}

// PgxUserRepository implements UserRepository with plain SQL
type PgxUserRepository struct {
	db *sql.DB
}

func (r *PgxUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (username, email, password_hash, is_admin, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		user.Username, user.Email, user.PasswordHash, user.IsAdmin, user.CreatedAt,
	).Scan(&user.ID)
	return translatePgxErr(err, "user")
}

func (r *PgxUserRepository) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt)
	if err != nil {
		return nil, translatePgxErr(err, "user")
	}
	return &user, nil
}

func (r *PgxUserRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, is_admin, created_at FROM users WHERE id = $1`, id))
}

func (r *PgxUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, is_admin, created_at FROM users WHERE username = $1`, username))
}

func (r *PgxUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, is_admin, created_at FROM users WHERE email = $1`, email))
}

func (r *PgxUserRepository) GetUsers(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, username, email, password_hash, is_admin, created_at FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, translatePgxErr(err, "users")
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.IsAdmin, &user.CreatedAt); err != nil {
			return nil, translatePgxErr(err, "users")
		}
		users = append(users, user)
	}
	return users, translatePgxErr(rows.Err(), "users")
}

func (r *PgxUserRepository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, translatePgxErr(err, "users")
}

// PgxPostRepository implements PostRepository with plain SQL
type PgxPostRepository struct {
	db *sql.DB
}

func (r *PgxPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	images, err := encodeMedia(post.Images)
	if err != nil {
		return apperr.NewStoreUnavailable(err)
	}
	videos, err := encodeMedia(post.Videos)
	if err != nil {
		return apperr.NewStoreUnavailable(err)
	}
	err = r.db.QueryRowContext(ctx,
		`INSERT INTO posts (user_id, title, content, images, videos, created_at)
		 VALUES ($1, $2, $3, $4, $5, NOW())
		 RETURNING id, created_at`,
		post.UserID, post.Title, post.Content, images, videos,
	).Scan(&post.ID, &post.CreatedAt)
	return translatePgxErr(err, "post")
}

func scanPost(scan func(dest ...any) error) (*models.Post, error) {
	var post models.Post
	var images, videos sql.NullString
	if err := scan(&post.ID, &post.UserID, &post.Title, &post.Content, &images, &videos, &post.CreatedAt); err != nil {
		return nil, err
	}
	var err error
	if post.Images, err = decodeMedia(images); err != nil {
		return nil, err
	}
	if post.Videos, err = decodeMedia(videos); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PgxPostRepository) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	post, err := scanPost(r.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, content, images, videos, created_at FROM posts WHERE id = $1`, id).Scan)
	if err != nil {
		return nil, translatePgxErr(err, "post")
	}
	return post, nil
}

func (r *PgxPostRepository) queryPosts(ctx context.Context, query string, args ...any) ([]models.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translatePgxErr(err, "posts")
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		post, err := scanPost(rows.Scan)
		if err != nil {
			return nil, translatePgxErr(err, "posts")
		}
		posts = append(posts, *post)
	}
	return posts, translatePgxErr(rows.Err(), "posts")
}

func (r *PgxPostRepository) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	return r.queryPosts(ctx,
		`SELECT id, user_id, title, content, images, videos, created_at
		 FROM posts ORDER BY created_at DESC, id DESC`)
}

func (r *PgxPostRepository) GetPostsByUserID(ctx context.Context, userID uint) ([]models.Post, error) {
	return r.queryPosts(ctx,
		`SELECT id, user_id, title, content, images, videos, created_at
		 FROM posts WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
}

func (r *PgxPostRepository) CountPosts(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&count)
	return count, translatePgxErr(err, "posts")
}

func (r *PgxPostRepository) DeletePostWithDependents(ctx context.Context, id uint) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return apperr.NewStoreUnavailable(err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM likes WHERE post_id = $1`, id); err != nil {
		return translatePgxErr(err, "likes")
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE post_id = $1`, id); err != nil {
		return translatePgxErr(err, "comments")
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return translatePgxErr(err, "post")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperr.NewStoreUnavailable(err)
	}
	if affected == 0 {
		return apperr.NewNotFound("post")
	}
	if err := tx.Commit(); err != nil {
		return apperr.NewStoreUnavailable(err)
	}
	return nil
}

// PgxLikeRepository implements LikeRepository with plain SQL
type PgxLikeRepository struct {
	db *sql.DB
}

// ToggleLike relies on the UNIQUE(user_id, post_id) constraint: the insert
// uses ON CONFLICT DO NOTHING, so a toggle that loses the race observes
// zero inserted rows and reports the pair as liked either way.
func (r *PgxLikeRepository) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, apperr.NewStoreUnavailable(err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM likes WHERE user_id = $1 AND post_id = $2`, userID, postID)
	if err != nil {
		return false, translatePgxErr(err, "like")
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return false, apperr.NewStoreUnavailable(err)
	}

	liked := false
	if deleted == 0 {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO likes (user_id, post_id, created_at) VALUES ($1, $2, NOW())
			 ON CONFLICT (user_id, post_id) DO NOTHING`, userID, postID); err != nil {
			return false, translatePgxErr(err, "like")
		}
		liked = true
	}
	if err := tx.Commit(); err != nil {
		return false, apperr.NewStoreUnavailable(err)
	}
	return liked, nil
}

func (r *PgxLikeRepository) GetLikesCountByPostID(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM likes WHERE post_id = $1`, postID).Scan(&count)
	return count, translatePgxErr(err, "likes")
}

func (r *PgxLikeRepository) HasUserLikedPost(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM likes WHERE user_id = $1 AND post_id = $2`, userID, postID).Scan(&count)
	if err != nil {
		return false, translatePgxErr(err, "likes")
	}
	return count > 0, nil
}

// PgxCommentRepository implements CommentRepository with plain SQL
type PgxCommentRepository struct {
	db *sql.DB
}

func (r *PgxCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO comments (user_id, post_id, content, created_at)
		 VALUES ($1, $2, $3, NOW())
		 RETURNING id, created_at`,
		comment.UserID, comment.PostID, comment.Content,
	).Scan(&comment.ID, &comment.CreatedAt)
	return translatePgxErr(err, "comment")
}

func (r *PgxCommentRepository) GetCommentsByPostID(ctx context.Context, postID uint) ([]models.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, post_id, content, created_at
		 FROM comments WHERE post_id = $1 ORDER BY created_at ASC, id ASC`, postID)
	if err != nil {
		return nil, translatePgxErr(err, "comments")
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.UserID, &c.PostID, &c.Content, &c.CreatedAt); err != nil {
			return nil, translatePgxErr(err, "comments")
		}
		comments = append(comments, c)
	}
	return comments, translatePgxErr(rows.Err(), "comments")
}

func (r *PgxCommentRepository) GetCommentsCountByPostID(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM comments WHERE post_id = $1`, postID).Scan(&count)
	return count, translatePgxErr(err, "comments")
}
