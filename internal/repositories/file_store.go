package repositories

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/blogsphere/backend/internal/apperr"
	"github.com/blogsphere/backend/internal/models"
)

// Collection file names. The whole file is the unit of mutation: every
// write loads the full collection, rewrites it, and saves it back under
// that collection's mutex, so interleaved read-modify-write cycles cannot
// lose updates.
const (
	usersFile    = "Users.json"
	postsFile    = "Posts.json"
	likesFile    = "likes.json"
	commentsFile = "Comments.json"
)

// FileStore implements all four repositories on top of one JSON file per
// entity kind. Reads take the same per-collection mutex as writes so a
// half-written file is never observed from within the process.
type FileStore struct {
	dataDir string

	usersMu    sync.Mutex
	postsMu    sync.Mutex
	likesMu    sync.Mutex
	commentsMu sync.Mutex
}

// NewFileStore opens (creating if needed) the data directory and assembles
// a Store backed by flat JSON files.
func NewFileStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, apperr.NewStoreUnavailable(err)
	}
	fs := &FileStore{dataDir: dataDir}
	return &Store{Users: fs, Posts: fs, Likes: fs, Comments: fs}, nil
}

func (s *FileStore) load(name string, out any) error {
	data, err := os.ReadFile(filepath.Join(s.dataDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return apperr.NewStoreUnavailable(err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperr.NewStoreUnavailable(err)
	}
	return nil
}

func (s *FileStore) save(name string, in any) error {
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return apperr.NewStoreUnavailable(err)
	}
	if err := os.WriteFile(filepath.Join(s.dataDir, name), data, 0o644); err != nil {
		return apperr.NewStoreUnavailable(err)
	}
	return nil
}

// --- users ---

func (s *FileStore) loadUsers() ([]models.User, error) {
	users := []models.User{}
	if err := s.load(usersFile, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser appends a user, assigning a monotonic max-plus-one ID and
// rejecting duplicate usernames or emails.
func (s *FileStore) CreateUser(ctx context.Context, user *models.User) error {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	users, err := s.loadUsers()
	if err != nil {
		return err
	}
	var maxID uint
	for _, u := range users {
		if u.Username == user.Username || u.Email == user.Email {
			return apperr.NewDuplicateKey("user")
		}
		if u.ID > maxID {
			maxID = u.ID
		}
	}
	user.ID = maxID + 1
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	return s.save(usersFile, append(users, *user))
}

func (s *FileStore) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.findUser(func(u *models.User) bool { return u.ID == id })
}

func (s *FileStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findUser(func(u *models.User) bool { return u.Username == username })
}

func (s *FileStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(func(u *models.User) bool { return u.Email == email })
}

func (s *FileStore) findUser(match func(*models.User) bool) (*models.User, error) {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()

	users, err := s.loadUsers()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if match(&users[i]) {
			u := users[i]
			return &u, nil
		}
	}
	return nil, apperr.NewNotFound("user")
}

func (s *FileStore) GetUsers(ctx context.Context) ([]models.User, error) {
	s.usersMu.Lock()
	defer s.usersMu.Unlock()
	return s.loadUsers()
}

func (s *FileStore) CountUsers(ctx context.Context) (int64, error) {
	users, err := s.GetUsers(ctx)
	if err != nil {
		return 0, err
	}
	return int64(len(users)), nil
}

// --- posts ---

func (s *FileStore) loadPosts() ([]models.Post, error) {
	posts := []models.Post{}
	if err := s.load(postsFile, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *FileStore) CreatePost(ctx context.Context, post *models.Post) error {
	s.postsMu.Lock()
	defer s.postsMu.Unlock()

	posts, err := s.loadPosts()
	if err != nil {
		return err
	}
	var maxID uint
	for _, p := range posts {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	post.ID = maxID + 1
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	return s.save(postsFile, append(posts, *post))
}

func (s *FileStore) GetPostByID(ctx context.Context, id uint) (*models.Post, error) {
	s.postsMu.Lock()
	defer s.postsMu.Unlock()

	posts, err := s.loadPosts()
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if posts[i].ID == id {
			p := posts[i]
			return &p, nil
		}
	}
	return nil, apperr.NewNotFound("post")
}

func (s *FileStore) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	s.postsMu.Lock()
	defer s.postsMu.Unlock()

	posts, err := s.loadPosts()
	if err != nil {
		return nil, err
	}
	sortPostsNewestFirst(posts)
	return posts, nil
}

func (s *FileStore) GetPostsByUserID(ctx context.Context, userID uint) ([]models.Post, error) {
	s.postsMu.Lock()
	defer s.postsMu.Unlock()

	posts, err := s.loadPosts()
	if err != nil {
		return nil, err
	}
	mine := posts[:0:0]
	for _, p := range posts {
		if p.UserID == userID {
			mine = append(mine, p)
		}
	}
	sortPostsNewestFirst(mine)
	return mine, nil
}

func sortPostsNewestFirst(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
}

func (s *FileStore) CountPosts(ctx context.Context) (int64, error) {
	s.postsMu.Lock()
	defer s.postsMu.Unlock()

	posts, err := s.loadPosts()
	if err != nil {
		return 0, err
	}
	return int64(len(posts)), nil
}

// DeletePostWithDependents removes likes, then comments, then the post.
// Each collection is rewritten under its own mutex; a fault partway leaves
// an orphan-safe state (the accepted policy for this backend, which has no
// transactions).
func (s *FileStore) DeletePostWithDependents(ctx context.Context, id uint) error {
	if _, err := s.GetPostByID(ctx, id); err != nil {
		return err
	}

	s.likesMu.Lock()
	likes, err := s.loadLikes()
	if err == nil {
		kept := likes[:0]
		for _, l := range likes {
			if l.PostID != id {
				kept = append(kept, l)
			}
		}
		err = s.save(likesFile, kept)
	}
	s.likesMu.Unlock()
	if err != nil {
		return err
	}

	s.commentsMu.Lock()
	comments, err := s.loadComments()
	if err == nil {
		kept := comments[:0]
		for _, c := range comments {
			if c.PostID != id {
				kept = append(kept, c)
			}
		}
		err = s.save(commentsFile, kept)
	}
	s.commentsMu.Unlock()
	if err != nil {
		return err
	}

	s.postsMu.Lock()
	defer s.postsMu.Unlock()
	posts, err := s.loadPosts()
	if err != nil {
		return err
	}
	kept := posts[:0]
	for _, p := range posts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	return s.save(postsFile, kept)
}

// --- likes ---

func (s *FileStore) loadLikes() ([]models.Like, error) {
	likes := []models.Like{}
	if err := s.load(likesFile, &likes); err != nil {
		return nil, err
	}
	return likes, nil
}

// ToggleLike holds the likes mutex across the whole load-modify-save cycle,
// which is what serializes concurrent toggles for the same pair.
func (s *FileStore) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	s.likesMu.Lock()
	defer s.likesMu.Unlock()

	likes, err := s.loadLikes()
	if err != nil {
		return false, err
	}
	var maxID uint
	for i, l := range likes {
		if l.UserID == userID && l.PostID == postID {
			likes = append(likes[:i], likes[i+1:]...)
			return false, s.save(likesFile, likes)
		}
		if l.ID > maxID {
			maxID = l.ID
		}
	}
	likes = append(likes, models.Like{
		ID:        maxID + 1,
		UserID:    userID,
		PostID:    postID,
		CreatedAt: time.Now().UTC(),
	})
	return true, s.save(likesFile, likes)
}

func (s *FileStore) GetLikesCountByPostID(ctx context.Context, postID uint) (int64, error) {
	s.likesMu.Lock()
	defer s.likesMu.Unlock()

	likes, err := s.loadLikes()
	if err != nil {
		return 0, err
	}
	var count int64
	for _, l := range likes {
		if l.PostID == postID {
			count++
		}
	}
	return count, nil
}

func (s *FileStore) HasUserLikedPost(ctx context.Context, userID, postID uint) (bool, error) {
	s.likesMu.Lock()
	defer s.likesMu.Unlock()

	likes, err := s.loadLikes()
	if err != nil {
		return false, err
	}
	for _, l := range likes {
		if l.UserID == userID && l.PostID == postID {
			return true, nil
		}
	}
	return false, nil
}

// --- comments ---

func (s *FileStore) loadComments() ([]models.Comment, error) {
	comments := []models.Comment{}
	if err := s.load(commentsFile, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *FileStore) CreateComment(ctx context.Context, comment *models.Comment) error {
	s.commentsMu.Lock()
	defer s.commentsMu.Unlock()

	comments, err := s.loadComments()
	if err != nil {
		return err
	}
	var maxID uint
	for _, c := range comments {
		if c.ID > maxID {
			maxID = c.ID
		}
	}
	comment.ID = maxID + 1
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now().UTC()
	}
	return s.save(commentsFile, append(comments, *comment))
}

func (s *FileStore) GetCommentsByPostID(ctx context.Context, postID uint) ([]models.Comment, error) {
	s.commentsMu.Lock()
	defer s.commentsMu.Unlock()

	comments, err := s.loadComments()
	if err != nil {
		return nil, err
	}
	mine := comments[:0:0]
	for _, c := range comments {
		if c.PostID == postID {
			mine = append(mine, c)
		}
	}
	sort.SliceStable(mine, func(i, j int) bool {
		if !mine[i].CreatedAt.Equal(mine[j].CreatedAt) {
			return mine[i].CreatedAt.Before(mine[j].CreatedAt)
		}
		return mine[i].ID < mine[j].ID
	})
	return mine, nil
}

func (s *FileStore) GetCommentsCountByPostID(ctx context.Context, postID uint) (int64, error) {
	s.commentsMu.Lock()
	defer s.commentsMu.Unlock()

	comments, err := s.loadComments()
	if err != nil {
		return 0, err
	}
	var count int64
	for _, c := range comments {
		if c.PostID == postID {
			count++
		}
	}
	return count, nil
}
